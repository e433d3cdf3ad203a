package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/codebridge/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.EngineMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	em, err := observability.NewEngineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return em, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestEngineMetrics_RecordNodes(t *testing.T) {
	t.Parallel()

	em, reader := setupTestMeter(t)

	em.RecordNodes(context.Background(), "Field", 3)
	em.RecordNodes(context.Background(), "Field", 2)

	nodes := findMetric(collectMetrics(t, reader), "codebridge.nodes.total")
	require.NotNil(t, nodes)

	sum, ok := nodes.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(5), sum.DataPoints[0].Value)
}

func TestEngineMetrics_RecordPass(t *testing.T) {
	t.Parallel()

	em, reader := setupTestMeter(t)

	em.RecordPass(context.Background(), "typemap", 10*time.Millisecond, nil)

	rm := collectMetrics(t, reader)
	assert.NotNil(t, findMetric(rm, "codebridge.passes.total"))
	assert.NotNil(t, findMetric(rm, "codebridge.pass.duration.seconds"))
	assert.Nil(t, findMetric(rm, "codebridge.errors.total"), "no error recorded yet")

	em.RecordPass(context.Background(), "model", time.Millisecond, errors.New("boom"))

	assert.NotNil(t, findMetric(collectMetrics(t, reader), "codebridge.errors.total"))
}

func TestEngineMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var em *observability.EngineMetrics

	assert.NotPanics(t, func() {
		em.RecordNodes(context.Background(), "Class", 1)
		em.RecordPass(context.Background(), "model", time.Second, nil)
	})
}
