package probe

import (
	"context"
	"errors"
	"net"

	"powermon/pkg/apperror"
)

// classifyNetError maps a dial or transport error onto the probe failure kinds.
func classifyNetError(err error) (apperror.Kind, string) {

	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ProbeTimeout, "timeout"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// we could not even work out where to send the check
		return apperror.ProbeMechanism, "dns failure: " + dnsErr.Err
	}

	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return apperror.ProbeMechanism, "invalid address: " + addrErr.Err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperror.ProbeTimeout, "network timeout"
		}
		return apperror.ProbeUnreachable, "network error: " + err.Error()
	}

	return apperror.ProbeUnreachable, err.Error()
}
