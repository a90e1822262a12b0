package apperror

import (
	"net/http"
)

func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return GetHTTPStatus(KindOf(err))
}

func GetHTTPStatus(kind Kind) int {

	switch kind {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict, AlreadyExists, CycleInProgress:
		return http.StatusConflict
	case RequestTimeout:
		return http.StatusGatewayTimeout
	case Dependency, Registry, Persistence:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
