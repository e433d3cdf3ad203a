package scan

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
)

// nodeText returns the source text spanned by n.
func nodeText(n sitter.Node, src []byte) string {
	if n.IsNull() {
		return ""
	}

	start := n.StartByte()
	end := n.EndByte()

	if start > end || end > uint(len(src)) {
		return ""
	}

	return string(src[start:end])
}

// fieldText returns the text of n's child under the given field name.
func fieldText(n sitter.Node, field string, src []byte) string {
	return nodeText(n.ChildByFieldName(field), src)
}

// eachNamed calls fn for every named child of n in order.
func eachNamed(n sitter.Node, fn func(child sitter.Node)) {
	if n.IsNull() {
		return
	}

	for idx := range n.NamedChildCount() {
		fn(n.NamedChild(idx))
	}
}

// firstNamedOfType returns the first named child of n with the given type.
func firstNamedOfType(n sitter.Node, typ string) sitter.Node {
	if n.IsNull() {
		return sitter.Node{}
	}

	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if child.Type() == typ {
			return child
		}
	}

	return sitter.Node{}
}

// position converts tree-sitter's 0-based points to a 1-based [model.Position].
func position(n sitter.Node) model.Position {
	start := n.StartPoint()
	end := n.EndPoint()

	return model.Position{
		StartLine: uint(start.Row) + 1,
		StartCol:  uint(start.Column) + 1,
		EndLine:   uint(end.Row) + 1,
		EndCol:    uint(end.Column) + 1,
	}
}

// arrayOf wraps elem as an array. An element that already is an array is
// nested as List<elem[]>, which maps to the same schema as a 2-D array.
// The pointer marker of a Go element does not carry over to the slice.
func arrayOf(elem *model.Signature) *model.Signature {
	if elem == nil {
		return nil
	}

	if !elem.Array {
		out := *elem
		out.Array = true
		out.Pointer = false

		return &out
	}

	return &model.Signature{Name: "List", Args: []*model.Signature{elem}}
}

// copySignature returns a shallow copy of sig with its own annotation slice,
// giving every declarator a distinct signature identity.
func copySignature(sig *model.Signature, extra []model.Annotation) *model.Signature {
	if sig == nil {
		return nil
	}

	out := *sig
	out.Annotations = append(append([]model.Annotation(nil), sig.Annotations...), extra...)

	return &out
}
