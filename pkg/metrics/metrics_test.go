package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(RowsIngested.WithLabelValues("metrics_test"))
	RowsIngested.WithLabelValues("metrics_test").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(RowsIngested.WithLabelValues("metrics_test")))

	DatasetCacheRequests.WithLabelValues("metrics_test", "hit").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(DatasetCacheRequests.WithLabelValues("metrics_test", "hit")), 1.0)
}

func TestTimer(t *testing.T) {
	timer := NewTimer("op")
	time.Sleep(2 * time.Millisecond)
	assert.Equal(t, "op", timer.Name())
	assert.GreaterOrEqual(t, timer.Stop(), 2*time.Millisecond)
}

func TestSampleResources(t *testing.T) {
	usage, err := SampleResources()
	if err != nil {
		t.Skipf("resource sampling unavailable: %v", err)
	}
	require.NotZero(t, usage.ResidentBytes)
	assert.Equal(t, float64(usage.ResidentBytes), testutil.ToFloat64(ProcessMemory))
}
