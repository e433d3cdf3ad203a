package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricNodesTotal   = "codebridge.nodes.total"
	metricPassesTotal  = "codebridge.passes.total"
	metricPassDuration = "codebridge.pass.duration.seconds"
	metricErrorsTotal  = "codebridge.errors.total"

	attrKind   = "kind"
	attrPlugin = "plugin"
	attrStatus = "status"

	statusOK    = "ok"
	statusError = "error"
)

// durationBucketBoundaries covers 1ms to 60s: a pass over a single file is
// sub-millisecond, a whole monorepo takes seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// EngineMetrics holds the OTel instruments of the traversal engine.
// A nil *EngineMetrics records nothing.
type EngineMetrics struct {
	nodesTotal   metric.Int64Counter
	passesTotal  metric.Int64Counter
	passDuration metric.Float64Histogram
	errorsTotal  metric.Int64Counter
}

// NewEngineMetrics creates the engine instruments from the given meter.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	nodes, err := mt.Int64Counter(metricNodesTotal,
		metric.WithDescription("Nodes created from source elements"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNodesTotal, err)
	}

	passes, err := mt.Int64Counter(metricPassesTotal,
		metric.WithDescription("Plugin passes run"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPassesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricPassDuration,
		metric.WithDescription("Plugin pass duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPassDuration, err)
	}

	errs, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Failed plugin passes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	return &EngineMetrics{
		nodesTotal:   nodes,
		passesTotal:  passes,
		passDuration: duration,
		errorsTotal:  errs,
	}, nil
}

// RecordNodes adds count created nodes of kind.
func (em *EngineMetrics) RecordNodes(ctx context.Context, kind string, count int) {
	if em == nil || count == 0 {
		return
	}

	em.nodesTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrKind, kind)))
}

// RecordPass records one completed plugin pass.
func (em *EngineMetrics) RecordPass(ctx context.Context, plugin string, duration time.Duration, err error) {
	if em == nil {
		return
	}

	status := statusOK
	if err != nil {
		status = statusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrPlugin, plugin),
		attribute.String(attrStatus, status),
	)

	em.passesTotal.Add(ctx, 1, attrs)
	em.passDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		em.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrPlugin, plugin)))
	}
}
