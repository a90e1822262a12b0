package httpclient

import (
	"net"
	"net/http"
	"time"
)

// NewHttpClient builds the shared client used by the http prober. Requests carry
// their own deadline, so the client itself sets no overall Timeout.
func NewHttpClient(dialTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   dialTimeout,
		ResponseHeaderTimeout: dialTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		MaxIdleConns:        256,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		// a redirect still proves the device answered
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
