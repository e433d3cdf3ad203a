package node

import (
	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/schema"
)

// ClassNode pairs a class with its component schema.
type ClassNode struct {
	base[model.Class, schema.Schema]
}

// OfClass returns a ClassNode for source with an empty schema target.
func OfClass(source *model.Class) (ClassNode, error) {
	b, err := construct(KindClass, source, schema.Schema{})

	return ClassNode{b}, err
}

// Kind returns [KindClass].
func (ClassNode) Kind() Kind { return KindClass }

// Target returns a copy of the current schema.
func (n ClassNode) Target() schema.Schema { return n.target.Clone() }

// WithTarget returns a node for the same class with target t.
func (n ClassNode) WithTarget(t schema.Schema) ClassNode {
	n.target = t.Clone()

	return n
}

// MethodNode pairs a method with its operation.
type MethodNode struct {
	base[model.Method, schema.Operation]
}

// OfMethod returns a MethodNode for source with an empty operation target.
func OfMethod(source *model.Method) (MethodNode, error) {
	b, err := construct(KindMethod, source, schema.Operation{})

	return MethodNode{b}, err
}

// Kind returns [KindMethod].
func (MethodNode) Kind() Kind { return KindMethod }

// Target returns a copy of the current operation.
func (n MethodNode) Target() schema.Operation { return n.target.Clone() }

// WithTarget returns a node for the same method with target t.
func (n MethodNode) WithTarget(t schema.Operation) MethodNode {
	n.target = t.Clone()

	return n
}

// FieldNode pairs a field with the name of its target type.
type FieldNode struct {
	base[model.Field, string]
}

// OfField returns a FieldNode for source with target "".
func OfField(source *model.Field) (FieldNode, error) {
	b, err := construct(KindField, source, "")

	return FieldNode{b}, err
}

// Kind returns [KindField].
func (FieldNode) Kind() Kind { return KindField }

// Target returns the current type name.
func (n FieldNode) Target() string { return n.target }

// WithTarget returns a node for the same field with target t.
func (n FieldNode) WithTarget(t string) FieldNode {
	n.target = t

	return n
}

// ParameterNode pairs a method parameter with its operation parameter.
type ParameterNode struct {
	base[model.Parameter, schema.Parameter]
}

// OfParameter returns a ParameterNode for source with an empty parameter target.
func OfParameter(source *model.Parameter) (ParameterNode, error) {
	b, err := construct(KindParameter, source, schema.Parameter{})

	return ParameterNode{b}, err
}

// Kind returns [KindParameter].
func (ParameterNode) Kind() Kind { return KindParameter }

// Target returns a copy of the current parameter.
func (n ParameterNode) Target() schema.Parameter { return n.target.Clone() }

// WithTarget returns a node for the same parameter with target t.
func (n ParameterNode) WithTarget(t schema.Parameter) ParameterNode {
	n.target = t.Clone()

	return n
}

// TypeNode pairs a declaration-site type signature with its schema.
type TypeNode struct {
	base[model.Signature, schema.Schema]
}

// OfType returns a TypeNode for source with an empty schema target.
func OfType(source *model.Signature) (TypeNode, error) {
	b, err := construct(KindType, source, schema.Schema{})

	return TypeNode{b}, err
}

// Kind returns [KindType].
func (TypeNode) Kind() Kind { return KindType }

// Target returns a copy of the current schema.
func (n TypeNode) Target() schema.Schema { return n.target.Clone() }

// WithTarget returns a node for the same signature with target t.
func (n TypeNode) WithTarget(t schema.Schema) TypeNode {
	n.target = t.Clone()

	return n
}
