package utils

import (
	"net/http"
	"strconv"
	"time"
)

// QueryInt reads an integer query parameter, falling back to def when it is
// missing, malformed or outside [min, max].
func QueryInt(r *http.Request, key string, def, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}

func QueryBool(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return false
	}
	return b
}

// QueryHours reads a trailing window expressed in hours.
func QueryHours(r *http.Request, def int) time.Duration {
	return time.Duration(QueryInt(r, "hours", def, 1, 24*366)) * time.Hour
}
