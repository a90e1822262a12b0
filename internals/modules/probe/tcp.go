package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"
)

// TCPProber opens a TCP connection to the checkpoint. An address without a port
// uses DefaultPort.
type TCPProber struct {
	DefaultPort int
	dialer      net.Dialer
}

func NewTCPProber(defaultPort int) *TCPProber {
	return &TCPProber{DefaultPort: defaultPort}
}

func (p *TCPProber) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.target(address))
	elapsed := time.Since(start)

	if err == nil {
		_ = conn.Close()
		return Online(elapsed)
	}

	// a reset still means the device is powered and answering
	if errors.Is(err, syscall.ECONNREFUSED) {
		return Online(elapsed)
	}

	kind, reason := classifyNetError(err)
	return Failed(kind, reason)
}

func (p *TCPProber) target(address string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(address, strconv.Itoa(p.DefaultPort))
}
