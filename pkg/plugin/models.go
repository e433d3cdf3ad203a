package plugin

import (
	"context"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
	"github.com/Sumatoshi-tech/codebridge/pkg/schema"
)

// ModelPlugin builds component schemas for classes and parameter descriptions
// for methods. It reads TypeNode targets, so it must run after the type map
// and nullability passes.
type ModelPlugin struct{}

// Name returns "model".
func (*ModelPlugin) Name() string { return NameModel }

// Enter fills ClassNode and ParameterNode targets; other kinds pass through.
func (*ModelPlugin) Enter(_ context.Context, n node.Any, lookup Lookup) (node.Any, error) {
	switch v := n.(type) {
	case node.ClassNode:
		return v.WithTarget(classSchema(v.Source(), lookup)), nil
	case node.ParameterNode:
		p := v.Source()
		s := typeSchema(p.Type, lookup)

		return v.WithTarget(schema.Parameter{Name: p.Name, Schema: s, Required: !s.Nullable}), nil
	default:
		return n, nil
	}
}

func classSchema(c *model.Class, lookup Lookup) schema.Schema {
	if c.Kind == model.KindEnum {
		return schema.Schema{Type: schema.TypeString, Enum: append([]string(nil), c.Constants...)}
	}

	out := schema.Schema{Type: schema.TypeObject}

	for _, f := range c.Fields {
		name, omitEmpty, ok := propertyName(c, f)
		if !ok {
			continue
		}

		s := typeSchema(f.Type, lookup)
		out.Properties = append(out.Properties, schema.Property{Name: name, Schema: s})

		if !s.Nullable && !omitEmpty {
			out.Required = append(out.Required, name)
		}
	}

	return out
}

// propertyName returns the serialized name of f, whether the serializer may
// omit it, and false when f is not serialized at all.
func propertyName(c *model.Class, f *model.Field) (string, bool, bool) {
	if f.Static {
		return "", false, false
	}

	if c.Language == langGo {
		if !f.Public {
			return "", false, false
		}

		tag, ok := model.FindAnnotation(f.Annotations, "json")
		if !ok {
			return f.Name, false, true
		}

		name, opts, _ := strings.Cut(tag.Value, ",")
		if name == "-" && opts == "" {
			return "", false, false
		}

		if name == "" {
			name = f.Name
		}

		return name, strings.Contains(opts, "omitempty"), true
	}

	if model.HasAnnotation(f.Annotations, "JsonIgnore") {
		return "", false, false
	}

	if ann, ok := model.FindAnnotation(f.Annotations, "JsonProperty"); ok {
		if name := annotationString(ann.Value); name != "" {
			return name, false, true
		}
	}

	return f.Name, false, true
}

// annotationString extracts the string literal from annotation arguments of
// the form `"x"` or `value = "x"`.
func annotationString(args string) string {
	if _, v, ok := strings.Cut(args, "="); ok {
		args = v
	}

	args = strings.TrimSpace(args)

	s, err := strconv.Unquote(args)
	if err != nil {
		return ""
	}

	return s
}

func typeSchema(sig *model.Signature, lookup Lookup) schema.Schema {
	if sig == nil {
		return schema.Schema{}
	}

	tn, ok := lookup.Type(sig)
	if !ok {
		return schema.Schema{}
	}

	return tn.Target()
}
