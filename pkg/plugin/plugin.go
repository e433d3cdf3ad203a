// Package plugin defines the contract between the traversal engine and the
// logic that enriches node targets, together with the built-in plugins.
//
// A plugin sees one node at a time and returns the node to associate with
// the same source afterwards, usually built with the kind's WithTarget.
// Reads of other nodes go through [Lookup], which reflects the state at the
// end of the previous pass.
package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
)

// ErrUnknownPlugin is returned by [ByName] for names without a plugin.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Lookup gives read access to the nodes associated with source elements.
type Lookup interface {
	Class(c *model.Class) (node.ClassNode, bool)
	Method(m *model.Method) (node.MethodNode, bool)
	Field(f *model.Field) (node.FieldNode, bool)
	Parameter(p *model.Parameter) (node.ParameterNode, bool)
	Type(s *model.Signature) (node.TypeNode, bool)
}

// Plugin transforms nodes during one pass of the engine.
type Plugin interface {
	// Name identifies the plugin in configuration, logs and errors.
	Name() string
	// Enter returns the node to associate with n's source after this pass.
	// Returning n unchanged is the common case for kinds a plugin ignores.
	Enter(ctx context.Context, n node.Any, lookup Lookup) (node.Any, error)
}

// Func adapts a function to [Plugin].
type Func struct {
	ID string
	Fn func(ctx context.Context, n node.Any, lookup Lookup) (node.Any, error)
}

// Name returns f.ID.
func (f Func) Name() string { return f.ID }

// Enter calls f.Fn.
func (f Func) Enter(ctx context.Context, n node.Any, lookup Lookup) (node.Any, error) {
	return f.Fn(ctx, n, lookup)
}

// Options configures the built-in plugins.
type Options struct {
	// TypeMap overrides the schema of named types (simple or qualified name).
	TypeMap map[string]TypeOverride
	// EndpointAnnotations marks Java classes whose methods become operations.
	// Defaults to Endpoint and BrowserCallable.
	EndpointAnnotations []string
}

// Built-in plugin names, in default order.
const (
	NameTypeMap     = "typemap"
	NameNullability = "nullability"
	NameModel       = "model"
	NameEndpoint    = "endpoint"
)

// Defaults returns the built-in plugins in their required order.
func Defaults(opts Options) []Plugin {
	mapper := NewTypeMapper(opts.TypeMap)

	annotations := opts.EndpointAnnotations
	if len(annotations) == 0 {
		annotations = []string{"Endpoint", "BrowserCallable"}
	}

	return []Plugin{
		NewTypeMapPlugin(mapper),
		&NullabilityPlugin{},
		&ModelPlugin{},
		NewEndpointPlugin(annotations...),
	}
}

// ByName selects plugins by name in the order names are given.
// An empty names list selects all plugins.
func ByName(plugins []Plugin, names []string) ([]Plugin, error) {
	if len(names) == 0 {
		return plugins, nil
	}

	index := make(map[string]Plugin, len(plugins))
	for _, p := range plugins {
		index[p.Name()] = p
	}

	out := make([]Plugin, 0, len(names))

	for _, name := range names {
		p, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
		}

		out = append(out, p)
	}

	return out, nil
}
