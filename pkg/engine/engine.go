// Package engine drives the node pipeline: it creates one node per source
// element and runs the registered plugins over them, one pass per plugin.
//
// Passes are totally ordered. Within a pass every node is handled by exactly
// one worker, and plugins read other nodes through a snapshot taken when the
// pass starts, so a pass only ever observes the results of earlier passes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
	"github.com/Sumatoshi-tech/codebridge/pkg/observability"
	"github.com/Sumatoshi-tech/codebridge/pkg/plugin"
)

var (
	// ErrDuplicatePlugin is returned by [Engine.Register] for a name already registered.
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	// ErrNilNode is returned when a plugin returns no node.
	ErrNilNode = errors.New("plugin returned nil node")
	// ErrSourceMismatch is returned when a plugin returns a node for another source.
	ErrSourceMismatch = errors.New("plugin returned node for a different source")
)

const tracerName = "codebridge/engine"

// Engine runs plugin passes over the nodes of a source model.
type Engine struct {
	plugins []plugin.Plugin
	workers int
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.EngineMetrics
}

// Option configures an [Engine].
type Option func(*Engine)

// WithWorkers bounds the number of nodes processed concurrently within a pass.
// Values below 1 select runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer. Defaults to the global OTel tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithMetrics records engine metrics into m.
func WithMetrics(m *observability.EngineMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New returns an engine without plugins.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Register appends p to the pass order.
func (e *Engine) Register(plugins ...plugin.Plugin) error {
	for _, p := range plugins {
		for _, existing := range e.plugins {
			if existing.Name() == p.Name() {
				return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
			}
		}

		e.plugins = append(e.plugins, p)
	}

	return nil
}

// Plugins returns the registered plugins in pass order.
func (e *Engine) Plugins() []plugin.Plugin {
	return append([]plugin.Plugin(nil), e.plugins...)
}

// Run creates the nodes of classes and runs every registered plugin over
// them. The returned store holds the final node of each source element.
func (e *Engine) Run(ctx context.Context, classes []*model.Class) (*Store, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Run", trace.WithAttributes(
		attribute.Int("classes", len(classes)),
		attribute.Int("plugins", len(e.plugins)),
	))
	defer span.End()

	store, err := e.collect(ctx, classes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("nodes", store.Len()))

	for _, p := range e.plugins {
		err = e.pass(ctx, p, store)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return nil, err
		}
	}

	return store, nil
}

// collect creates one node per element reachable from classes.
func (e *Engine) collect(ctx context.Context, classes []*model.Class) (*Store, error) {
	c := &collector{store: NewStore(), counts: make(map[node.Kind]int)}

	for _, cls := range classes {
		if cls == nil {
			continue
		}

		err := cls.Walk(c)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", cls.QualifiedName(), err)
		}
	}

	for kind, count := range c.counts {
		e.metrics.RecordNodes(ctx, string(kind), count)
	}

	e.logger.DebugContext(ctx, "nodes created", "classes", len(classes), "nodes", c.store.Len())

	return c.store, nil
}

// pass runs p over every node. Plugins read from a snapshot taken before the
// pass; each node is written back by the worker that handled it.
func (e *Engine) pass(ctx context.Context, p plugin.Plugin, store *Store) error {
	ctx, span := e.tracer.Start(ctx, "engine.pass", trace.WithAttributes(
		attribute.String("plugin", p.Name()),
	))
	defer span.End()

	start := time.Now()
	snapshot := store.Snapshot()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, n := range snapshot.Nodes() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return e.enter(gctx, p, n, snapshot, store)
		})
	}

	err := g.Wait()
	elapsed := time.Since(start)

	e.metrics.RecordPass(ctx, p.Name(), elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	e.logger.DebugContext(ctx, "pass complete", "plugin", p.Name(), "nodes", snapshot.Len(), "elapsed", elapsed)

	return nil
}

func (e *Engine) enter(ctx context.Context, p plugin.Plugin, n node.Any, lookup plugin.Lookup, store *Store) error {
	out, err := p.Enter(ctx, n, lookup)
	if err != nil {
		return fmt.Errorf("plugin %s: %s %s: %w", p.Name(), n.Kind(), node.Name(n), err)
	}

	if out == nil {
		return fmt.Errorf("plugin %s: %s %s: %w", p.Name(), n.Kind(), node.Name(n), ErrNilNode)
	}

	if !out.Equal(n) {
		return fmt.Errorf("plugin %s: %s %s: %w", p.Name(), n.Kind(), node.Name(n), ErrSourceMismatch)
	}

	return store.Replace(out)
}

// collector is a model.Visitor creating the node of every element it visits.
type collector struct {
	store  *Store
	counts map[node.Kind]int
}

func (c *collector) add(source any) error {
	n, err := node.Of(source)
	if err != nil {
		return err
	}

	if _, created := c.store.Put(n); created {
		c.counts[n.Kind()]++
	}

	return nil
}

func (c *collector) VisitClass(cls *model.Class) error { return c.add(cls) }

func (c *collector) VisitField(f *model.Field) error { return c.add(f) }

func (c *collector) VisitMethod(m *model.Method) error { return c.add(m) }

func (c *collector) VisitParameter(p *model.Parameter) error { return c.add(p) }

func (c *collector) VisitSignature(s *model.Signature) error {
	if s == nil {
		return nil
	}

	return c.add(s)
}
