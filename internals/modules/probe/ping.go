package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"powermon/pkg/apperror"
)

// CommandRunner runs an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// PingProber sends a single ICMP echo through the system ping binary.
type PingProber struct {
	Run  CommandRunner
	Bin  string
	GOOS string
}

func NewPingProber() *PingProber {
	return &PingProber{
		Run:  execRunner,
		Bin:  "ping",
		GOOS: runtime.GOOS,
	}
}

func (p *PingProber) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	// one extra second for the process itself to start and exit
	ctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	start := time.Now()
	out, err := p.Run(ctx, p.Bin, p.args(address, timeout)...)
	elapsed := time.Since(start)

	if err == nil {
		return Online(elapsed)
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Failed(apperror.ProbeTimeout, "ping timeout")
	}

	// ping exits 1 when no reply came back, anything else is its own failure
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == 1 {
			return Failed(apperror.ProbeUnreachable, "ping failed - device unreachable")
		}
		reason := fmt.Sprintf("ping exited with status %d", exitErr.ExitCode())
		if msg := strings.TrimSpace(string(out)); msg != "" {
			reason += ": " + msg
		}
		return Failed(apperror.ProbeMechanism, reason)
	}

	return Failed(apperror.ProbeMechanism, "ping error: "+err.Error())
}

func (p *PingProber) args(address string, timeout time.Duration) []string {
	if p.GOOS == "windows" {
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), address}
	}

	// -W only takes whole seconds, round down so ping gives up inside the budget
	secs := int64(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	return []string{"-c", "1", "-W", strconv.FormatInt(secs, 10), address}
}
