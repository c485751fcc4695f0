package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector_Disabled(t *testing.T) {
	c, err := NewCollector(&Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, c)

	// A nil collector records nothing and never panics.
	c.RecordRemoteOperation("read_object", time.Millisecond, nil)
	c.RecordFlush("writes", 3, nil)
	c.AddPending("writes", 1)
	assert.Nil(t, c.Registry())
}

func TestCollector_RecordRemoteOperation(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	require.NotNil(t, c)

	c.RecordRemoteOperation("write_object", 5*time.Millisecond, nil)
	c.RecordRemoteOperation("write_object", 5*time.Millisecond, fmt.Errorf("boom"))
	c.RecordRemoteOperation("delete_object", time.Millisecond, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.operationCounter.WithLabelValues("write_object", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.operationCounter.WithLabelValues("write_object", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.operationCounter.WithLabelValues("delete_object", "success")))
}

func TestCollector_RecordFlush(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)

	c.RecordFlush("writes", 2, nil)
	c.RecordFlush("writes", 0, fmt.Errorf("boom"))
	c.RecordFlush("deletes", 1, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.flushCounter.WithLabelValues("writes", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.flushCounter.WithLabelValues("writes", "error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(
		c.flushedEntries.WithLabelValues("writes")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.flushedEntries.WithLabelValues("deletes")))
}

func TestCollector_PendingGauge(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)

	c.AddPending("writes", 3)
	c.AddPending("writes", -2)
	c.AddPending("deletes", 1)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.pendingGauge.WithLabelValues("writes")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.pendingGauge.WithLabelValues("deletes")))
}
