package engine_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/codebridge/pkg/engine"
	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
	"github.com/Sumatoshi-tech/codebridge/pkg/observability"
	"github.com/Sumatoshi-tech/codebridge/pkg/plugin"
	"github.com/Sumatoshi-tech/codebridge/pkg/schema"
)

func javaSig(name string, args ...*model.Signature) *model.Signature {
	return &model.Signature{Name: name, Args: args, Language: "Java"}
}

func counterClass() (*model.Class, *model.Field) {
	cls := &model.Class{Name: "Counter", Package: "com.example", Kind: model.KindClass, Language: "Java"}
	field := cls.AddField(&model.Field{Name: "count", Type: javaSig("int")})

	return cls, field
}

func TestRunMapsFieldType(t *testing.T) {
	t.Parallel()

	cls, field := counterClass()

	before, err := node.OfField(field)
	require.NoError(t, err)
	assert.Empty(t, before.Target())

	e := engine.New()
	require.NoError(t, e.Register(plugin.NewTypeMapPlugin(plugin.NewTypeMapper(nil))))

	store, err := e.Run(context.Background(), []*model.Class{cls})
	require.NoError(t, err)

	after, ok := store.Field(field)
	require.True(t, ok)
	assert.Equal(t, "integer", after.Target())
	assert.Same(t, field, after.Source())
	assert.True(t, after.Equal(before))

	assert.Empty(t, before.Target(), "earlier nodes are unaffected")
	assert.Equal(t, "count", field.Name)
	assert.Equal(t, "int", field.Type.String(), "the source element is never modified")
}

func TestRunCreatesOneNodePerElement(t *testing.T) {
	t.Parallel()

	cls, _ := counterClass()
	m := cls.AddMethod(&model.Method{Name: "add", Result: javaSig("void")})
	m.AddParam(&model.Parameter{Name: "delta", Type: javaSig("int")})

	store, err := engine.New().Run(context.Background(), []*model.Class{cls, nil})
	require.NoError(t, err)

	kinds := make([]node.Kind, 0, store.Len())
	for _, n := range store.Nodes() {
		kinds = append(kinds, n.Kind())
	}

	assert.Equal(t, []node.Kind{
		node.KindClass, node.KindField, node.KindType,
		node.KindMethod, node.KindParameter, node.KindType, node.KindType,
	}, kinds)
}

func TestRunPassBarrier(t *testing.T) {
	t.Parallel()

	cls := &model.Class{Name: "Pair", Language: "Java"}
	left := cls.AddField(&model.Field{Name: "left", Type: javaSig("int")})
	right := cls.AddField(&model.Field{Name: "right", Type: javaSig("int")})
	peer := map[*model.Field]*model.Field{left: right, right: left}

	var sawUnset, sawSet atomic.Int32

	first := plugin.Func{ID: "first", Fn: func(_ context.Context, n node.Any, lookup plugin.Lookup) (node.Any, error) {
		fn, ok := n.(node.FieldNode)
		if !ok {
			return n, nil
		}

		other, _ := lookup.Field(peer[fn.Source()])
		if other.Target() == "" {
			sawUnset.Add(1)
		}

		return fn.WithTarget("first"), nil
	}}

	second := plugin.Func{ID: "second", Fn: func(_ context.Context, n node.Any, lookup plugin.Lookup) (node.Any, error) {
		fn, ok := n.(node.FieldNode)
		if !ok {
			return n, nil
		}

		other, _ := lookup.Field(peer[fn.Source()])
		if other.Target() == "first" {
			sawSet.Add(1)
		}

		return fn.WithTarget(fn.Target() + "+second"), nil
	}}

	e := engine.New(engine.WithWorkers(4))
	require.NoError(t, e.Register(first, second))

	store, err := e.Run(context.Background(), []*model.Class{cls})
	require.NoError(t, err)

	assert.Equal(t, int32(2), sawUnset.Load(), "a pass never sees its own writes")
	assert.Equal(t, int32(2), sawSet.Load(), "a pass sees every write of the previous one")

	got, _ := store.Field(left)
	assert.Equal(t, "first+second", got.Target())
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	e := engine.New()
	require.NoError(t, e.Register(plugin.Defaults(plugin.Options{})...))

	err := e.Register(&plugin.ModelPlugin{})
	require.ErrorIs(t, err, engine.ErrDuplicatePlugin)
	assert.Len(t, e.Plugins(), 4)
}

func TestRunPluginErrors(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	other, err := node.OfField(&model.Field{Name: "other"})
	require.NoError(t, err)

	tests := []struct {
		name string
		fn   func(context.Context, node.Any, plugin.Lookup) (node.Any, error)
		want error
	}{
		{"plugin error", func(context.Context, node.Any, plugin.Lookup) (node.Any, error) {
			return nil, errBoom
		}, errBoom},
		{"nil node", func(context.Context, node.Any, plugin.Lookup) (node.Any, error) {
			return nil, nil
		}, engine.ErrNilNode},
		{"foreign node", func(_ context.Context, n node.Any, _ plugin.Lookup) (node.Any, error) {
			if n.Kind() == node.KindField {
				return other, nil
			}

			return n, nil
		}, engine.ErrSourceMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cls, _ := counterClass()

			e := engine.New()
			require.NoError(t, e.Register(plugin.Func{ID: "faulty", Fn: tt.fn}))

			_, err := e.Run(context.Background(), []*model.Class{cls})
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "plugin faulty")
		})
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	cls, _ := counterClass()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := engine.New()
	require.NoError(t, e.Register(plugin.Defaults(plugin.Options{})...))

	_, err := e.Run(ctx, []*model.Class{cls})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunDefaults(t *testing.T) {
	t.Parallel()

	user := &model.Class{Name: "User", Kind: model.KindRecord, Language: "Java"}
	user.AddField(&model.Field{Name: "id", Public: true, Type: javaSig("long")})
	user.AddField(&model.Field{Name: "email", Public: true, Type: javaSig("String")})
	user.AddField(&model.Field{Name: "tags", Public: true, Type: javaSig("List", javaSig("String"))})

	endpoint := &model.Class{
		Name: "UserEndpoint", Kind: model.KindClass, Language: "Java",
		Annotations: []model.Annotation{{Name: "BrowserCallable"}},
	}
	find := endpoint.AddMethod(&model.Method{
		Name: "find", Public: true, Result: javaSig("Optional", javaSig("User")),
	})
	find.AddParam(&model.Parameter{Name: "id", Type: javaSig("long")})

	e := engine.New(engine.WithWorkers(2))
	require.NoError(t, e.Register(plugin.Defaults(plugin.Options{})...))

	store, err := e.Run(context.Background(), []*model.Class{user, endpoint})
	require.NoError(t, err)

	userNode, ok := store.Class(user)
	require.True(t, ok)

	// Type arguments are not declaration sites, so list items keep the
	// plain mapping while the list itself becomes nullable.
	items := schema.Schema{Type: schema.TypeString}
	want := schema.Schema{
		Type: schema.TypeObject,
		Properties: []schema.Property{
			{Name: "id", Schema: schema.Schema{Type: schema.TypeInteger, Format: "int64"}},
			{Name: "email", Schema: schema.Schema{Type: schema.TypeString, Nullable: true}},
			{Name: "tags", Schema: schema.Schema{Type: schema.TypeArray, Items: &items, Nullable: true}},
		},
		Required: []string{"id"},
	}

	if diff := cmp.Diff(want, userNode.Target()); diff != "" {
		t.Errorf("user schema mismatch (-want +got):\n%s", diff)
	}

	findNode, ok := store.Method(find)
	require.True(t, ok)
	assert.Equal(t, "UserEndpoint/find(id: integer) -> User?", findNode.Target().Summary())
}

func TestRunRecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewEngineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	cls, _ := counterClass()

	e := engine.New(engine.WithMetrics(metrics))
	require.NoError(t, e.Register(plugin.Defaults(plugin.Options{})...))

	_, err = e.Run(context.Background(), []*model.Class{cls})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(3), totals["codebridge.nodes.total"])
	assert.Equal(t, int64(4), totals["codebridge.passes.total"])
}
