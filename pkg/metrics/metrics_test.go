package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutageGaugeFollowsTransitions(t *testing.T) {
	Init(nil)

	IncOutageTransition(TransitionOpened)
	assert.Equal(t, float64(1), testutil.ToFloat64(outageOngoing))

	IncOutageTransition(TransitionClosed)
	assert.Equal(t, float64(0), testutil.ToFloat64(outageOngoing))
	assert.GreaterOrEqual(t, testutil.ToFloat64(outageTransitions.WithLabelValues(TransitionClosed)), float64(1))
}

func TestProbeResultDefaultsToReachable(t *testing.T) {
	Init(nil)

	before := testutil.ToFloat64(probeResults.WithLabelValues("reachable"))
	IncProbeResult("")
	assert.Equal(t, before+1, testutil.ToFloat64(probeResults.WithLabelValues("reachable")))
}

func TestRetentionIgnoresNonPositive(t *testing.T) {
	Init(nil)

	before := testutil.ToFloat64(retentionDeleted)
	AddRetentionDeleted(0)
	AddRetentionDeleted(-3)
	AddRetentionDeleted(4)
	assert.Equal(t, before+4, testutil.ToFloat64(retentionDeleted))
}

func TestHTTPRecorder(t *testing.T) {
	Init(nil)

	HTTPRecorder{}.Observe("GET", "/api/v1/status", 20*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/status")), float64(1))
}
