package probe

import (
	"fmt"

	"powermon/config"
	"powermon/pkg/httpclient"
)

const (
	ModeICMP = "icmp"
	ModeTCP  = "tcp"
	ModeHTTP = "http"
)

// New builds the prober selected by cfg.ProbeMode, already bounded by WithDeadline.
func New(cfg config.MonitorConfig) (Prober, error) {
	var p Prober

	switch cfg.ProbeMode {
	case ModeICMP, "":
		p = NewPingProber()
	case ModeTCP:
		p = NewTCPProber(cfg.TCPPort)
	case ModeHTTP:
		p = NewHTTPProber(httpclient.NewHttpClient(cfg.ProbeTimeout))
	default:
		return nil, fmt.Errorf("unknown probe mode %q", cfg.ProbeMode)
	}

	return WithDeadline(p, cfg.ProbeGrace), nil
}
