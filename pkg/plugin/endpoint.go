package plugin

import (
	"context"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
	"github.com/Sumatoshi-tech/codebridge/pkg/schema"
)

// EndpointPlugin turns the public instance methods of endpoint classes into
// operations. Java classes qualify through an endpoint annotation; Go
// interfaces always qualify.
type EndpointPlugin struct {
	annotations []string
}

// NewEndpointPlugin returns an endpoint plugin recognizing the given
// annotation names.
func NewEndpointPlugin(annotations ...string) *EndpointPlugin {
	return &EndpointPlugin{annotations: annotations}
}

// Name returns "endpoint".
func (*EndpointPlugin) Name() string { return NameEndpoint }

// Enter fills MethodNode targets of endpoint methods. Parameters and results
// are read from the ParameterNode and TypeNode targets of the previous pass.
func (p *EndpointPlugin) Enter(_ context.Context, n node.Any, lookup Lookup) (node.Any, error) {
	mn, ok := n.(node.MethodNode)
	if !ok {
		return n, nil
	}

	m := mn.Source()
	if !p.isEndpoint(m) {
		return n, nil
	}

	op := schema.Operation{ID: m.Owner.Name + "/" + m.Name}

	for _, param := range m.Params {
		pn, found := lookup.Parameter(param)
		if !found {
			op.Parameters = append(op.Parameters, schema.Parameter{Name: param.Name})

			continue
		}

		op.Parameters = append(op.Parameters, pn.Target())
	}

	op.Result = typeSchema(m.Result, lookup)

	return mn.WithTarget(op), nil
}

func (p *EndpointPlugin) isEndpoint(m *model.Method) bool {
	if m.Owner == nil || m.Static || !m.Public {
		return false
	}

	if m.Owner.Language == langGo {
		return m.Owner.Kind == model.KindInterface
	}

	return hasAny(m.Owner.Annotations, p.annotations)
}
