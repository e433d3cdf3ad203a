package plugin_test

import (
	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
)

// mapLookup is a minimal plugin.Lookup keyed by source identity.
type mapLookup struct {
	nodes map[any]node.Any
}

func newLookup(nodes ...node.Any) *mapLookup {
	l := &mapLookup{nodes: make(map[any]node.Any, len(nodes))}
	for _, n := range nodes {
		l.nodes[node.Key(n)] = n
	}

	return l
}

func lookupAs[N node.Any](l *mapLookup, key any) (N, bool) {
	n, ok := l.nodes[key].(N)

	return n, ok
}

func (l *mapLookup) Class(c *model.Class) (node.ClassNode, bool) {
	return lookupAs[node.ClassNode](l, c)
}

func (l *mapLookup) Method(m *model.Method) (node.MethodNode, bool) {
	return lookupAs[node.MethodNode](l, m)
}

func (l *mapLookup) Field(f *model.Field) (node.FieldNode, bool) {
	return lookupAs[node.FieldNode](l, f)
}

func (l *mapLookup) Parameter(p *model.Parameter) (node.ParameterNode, bool) {
	return lookupAs[node.ParameterNode](l, p)
}

func (l *mapLookup) Type(s *model.Signature) (node.TypeNode, bool) {
	return lookupAs[node.TypeNode](l, s)
}
