// Package node provides the unit of traversal of the transformation pipeline:
// a pairing of one source-model element with its target representation.
//
// The set of node kinds is closed. Every kind is a thin specialization of the
// generic base that fixes its Source and Target types and exposes exactly one
// factory (OfClass, OfMethod, OfField, OfParameter, OfType). Nodes are values:
// they never change after construction, and WithTarget returns a new node
// associated with the same source.
//
// Identity belongs to the source. Two nodes are equal iff they wrap the same
// source-model instance, regardless of their targets.
package node

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a node is constructed without a source.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind identifies a node kind.
type Kind string

// Node kinds.
const (
	KindClass     Kind = "Class"
	KindMethod    Kind = "Method"
	KindField     Kind = "Field"
	KindParameter Kind = "Parameter"
	KindType      Kind = "Type"
)

// Any is implemented by every node kind and only by them.
// Use a type switch to recover the concrete kind.
type Any interface {
	// Kind returns the node kind.
	Kind() Kind
	// Equal reports whether other wraps the same source instance.
	Equal(other Any) bool

	sourceKey() any
}

// Key returns the identity of n's source, suitable as a map key.
// It returns nil for a nil node or a zero-value node.
func Key(n Any) any {
	if n == nil {
		return nil
	}

	return n.sourceKey()
}

// base is the generic contract shared by all kinds. The zero value has no
// source and is not a valid node.
type base[S, T any] struct {
	source *S
	target T
}

// construct is the single checked constructor behind every factory.
func construct[S, T any](kind Kind, source *S, target T) (base[S, T], error) {
	if source == nil {
		return base[S, T]{}, fmt.Errorf("%w: %s node requires a source", ErrInvalidArgument, kind)
	}

	return base[S, T]{source: source, target: target}, nil
}

// Source returns the wrapped source-model element.
func (b base[S, T]) Source() *S {
	return b.source
}

func (b base[S, T]) sourceKey() any {
	if b.source == nil {
		return nil
	}

	return b.source
}

// Equal reports whether other wraps the same source instance. Nodes of
// different kinds are never equal because their sources have different types.
func (b base[S, T]) Equal(other Any) bool {
	if b.source == nil || other == nil {
		return false
	}

	return other.sourceKey() == b.sourceKey()
}
