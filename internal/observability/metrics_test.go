package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTurn("ok")
	m.AddChunksIngested(5)
	m.ObserveExternalCall("gemini_embed", time.Second)
	require.NotNil(t, m.Handler())
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("test")
	m.AddChunksIngested(3)
	m.AddChunksIngested(2)
	require.Equal(t, float64(5), testutil.ToFloat64(m.ChunksIngested))

	m.ObserveTurn("ok")
	m.ObserveTurn("ok")
	m.ObserveTurn("error")
	require.Equal(t, float64(2), testutil.ToFloat64(m.TurnsTotal.WithLabelValues("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.TurnsTotal.WithLabelValues("error")))
}

func TestEachInstanceOwnsItsRegistry(t *testing.T) {
	// Two instances must not collide on instrument registration.
	first := NewMetrics("test")
	second := NewMetrics("test")
	require.NotNil(t, first.Handler())
	require.NotNil(t, second.Handler())
}
