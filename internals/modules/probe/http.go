package probe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"powermon/pkg/apperror"
	"powermon/pkg/httpclient"
)

// HTTPProber issues a GET against the checkpoint's web interface. Any response
// below 500 counts as reachable, smart switches often answer 401 or 404 on /.
type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = httpclient.NewHttpClient(5 * time.Second)
	}
	return &HTTPProber{client: client}
}

func (p *HTTPProber) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL(address), nil)
	if err != nil {
		return Failed(apperror.ProbeMechanism, "invalid request: "+err.Error())
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		kind, reason := classifyNetError(err)
		return Failed(kind, reason)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Failed(apperror.ProbeUnreachable, "http status "+resp.Status)
	}
	return Online(elapsed)
}

func targetURL(address string) string {
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return address
	}
	return "http://" + address
}
