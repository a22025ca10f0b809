package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFlush(time.Millisecond, 3)
		m.IncWatcherRun("render")
		m.IncLoopAbort()
		m.IncPatchOp("insert")
		m.ObservePatch(time.Millisecond)
	})
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	m.ObserveFlush(2*time.Millisecond, 4)
	m.ObserveFlush(time.Millisecond, 1)
	m.IncWatcherRun("user")
	m.IncWatcherRun("user")
	m.IncWatcherRun("render")
	m.IncLoopAbort()
	m.IncPatchOp("move")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.flushesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.watcherRuns.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.watcherRuns.WithLabelValues("render")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loopAborts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.patchOps.WithLabelValues("move")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["test_flushes_total"])
	assert.True(t, names["test_patch_ops_total"])
}

func TestNilTracerIsNoop(t *testing.T) {
	var tr *Tracer
	ctx, span := tr.Start(context.Background(), "flush")
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() {
		span.SetAttributes(attribute.Int("n", 1))
		span.RecordError(assert.AnError)
		span.End()
	})
}

func TestTracerFromProvider(t *testing.T) {
	tr := NewTracerFromProvider(noop.NewTracerProvider(), "")
	_, span := tr.Start(context.Background(), "patch", attribute.String("op", "x"))
	assert.NotPanics(t, span.End)
}
