package node

import (
	"fmt"
	"strconv"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
)

// Of dispatches to the factory of the kind matching source's type.
// A nil source, typed or untyped, or a value that is not a source-model
// element pointer fails with [ErrInvalidArgument].
func Of(source any) (Any, error) {
	switch src := source.(type) {
	case *model.Class:
		return nonNil(OfClass(src))
	case *model.Method:
		return nonNil(OfMethod(src))
	case *model.Field:
		return nonNil(OfField(src))
	case *model.Parameter:
		return nonNil(OfParameter(src))
	case *model.Signature:
		return nonNil(OfType(src))
	case nil:
		return nil, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	default:
		return nil, fmt.Errorf("%w: unsupported source type %T", ErrInvalidArgument, source)
	}
}

// nonNil keeps a failed factory from returning a zero node boxed in [Any].
func nonNil[N Any](n N, err error) (Any, error) {
	if err != nil {
		return nil, err
	}

	return n, nil
}

// Name returns a human-readable path for n's source, such as
// "com.example.User", "User.rename", "User.rename#0(name)" or "User.id".
// Type nodes render their signature.
func Name(n Any) string {
	if Key(n) == nil {
		return ""
	}

	switch v := n.(type) {
	case ClassNode:
		return v.Source().QualifiedName()
	case MethodNode:
		return ownerPrefix(v.Source().Owner) + v.Source().Name
	case FieldNode:
		return ownerPrefix(v.Source().Owner) + v.Source().Name
	case ParameterNode:
		p := v.Source()

		prefix := ""
		if p.Method != nil {
			prefix = ownerPrefix(p.Method.Owner) + p.Method.Name
		}

		return prefix + "#" + strconv.Itoa(p.Index) + "(" + p.Name + ")"
	case TypeNode:
		return v.Source().String()
	default:
		return ""
	}
}

func ownerPrefix(c *model.Class) string {
	if c == nil {
		return ""
	}

	return c.Name + "."
}
