package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
)

// ErrUnknownSource is returned by [Store.Replace] for a node whose source
// has no association yet.
var ErrUnknownSource = errors.New("unknown source element")

// Store associates each source element with exactly one node. It is safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	index map[any]int
	nodes []node.Any
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: make(map[any]int)}
}

// Put associates n with its source unless the source already has a node.
// It returns the associated node and whether n was stored. Nodes without a
// source are never stored.
func (s *Store) Put(n node.Any) (node.Any, bool) {
	key := node.Key(n)
	if key == nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.index[key]; ok {
		return s.nodes[idx], false
	}

	s.index[key] = len(s.nodes)
	s.nodes = append(s.nodes, n)

	return n, true
}

// Replace swaps the node associated with n's source for n.
func (s *Store) Replace(n node.Any) error {
	key := node.Key(n)
	if key == nil {
		return fmt.Errorf("%w: nil node", ErrUnknownSource)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[key]
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrUnknownSource, n.Kind(), node.Name(n))
	}

	s.nodes[idx] = n

	return nil
}

// Get returns the node associated with source.
func (s *Store) Get(source any) (node.Any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[source]
	if !ok {
		return nil, false
	}

	return s.nodes[idx], true
}

// Len returns the number of associated sources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.nodes)
}

// Nodes returns all nodes in creation order.
func (s *Store) Nodes() []node.Any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]node.Any(nil), s.nodes...)
}

// Snapshot returns an independent copy of s. Nodes are values, so later
// replacements in either store are invisible to the other.
func (s *Store) Snapshot() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &Store{
		index: make(map[any]int, len(s.index)),
		nodes: append([]node.Any(nil), s.nodes...),
	}

	for k, v := range s.index {
		out.index[k] = v
	}

	return out
}

func get[N node.Any](s *Store, source any) (N, bool) {
	n, ok := s.Get(source)
	if !ok {
		var zero N

		return zero, false
	}

	typed, ok := n.(N)

	return typed, ok
}

// Class returns the node of c.
func (s *Store) Class(c *model.Class) (node.ClassNode, bool) { return get[node.ClassNode](s, c) }

// Method returns the node of m.
func (s *Store) Method(m *model.Method) (node.MethodNode, bool) { return get[node.MethodNode](s, m) }

// Field returns the node of f.
func (s *Store) Field(f *model.Field) (node.FieldNode, bool) { return get[node.FieldNode](s, f) }

// Parameter returns the node of p.
func (s *Store) Parameter(p *model.Parameter) (node.ParameterNode, bool) {
	return get[node.ParameterNode](s, p)
}

// Type returns the node of sig.
func (s *Store) Type(sig *model.Signature) (node.TypeNode, bool) { return get[node.TypeNode](s, sig) }
