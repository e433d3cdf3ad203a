// Package schema defines the target representation accumulated by plugins:
// OpenAPI-flavoured schema, parameter and operation fragments.
//
// All types are values. Anything that holds slices or pointers offers a
// Clone so a node's target is never shared with another node or plugin.
package schema

// Schema type names.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// componentsPrefix is the reference prefix for named component schemas.
const componentsPrefix = "#/components/schemas/"

// Schema describes the shape of a value.
type Schema struct {
	Type                 string     `json:"type,omitempty"`
	Format               string     `json:"format,omitempty"`
	Ref                  string     `json:"$ref,omitempty"`
	Nullable             bool       `json:"nullable,omitempty"`
	Items                *Schema    `json:"items,omitempty"`
	AdditionalProperties *Schema    `json:"additionalProperties,omitempty"`
	Properties           []Property `json:"properties,omitempty"`
	Required             []string   `json:"required,omitempty"`
	Enum                 []string   `json:"enum,omitempty"`
}

// Property is a named member of an object schema.
type Property struct {
	Name   string `json:"name"`
	Schema Schema `json:"schema"`
}

// Parameter is a named operation input.
type Parameter struct {
	Name     string `json:"name"`
	Schema   Schema `json:"schema"`
	Required bool   `json:"required,omitempty"`
}

// Operation is a callable endpoint method.
type Operation struct {
	ID         string      `json:"operationId,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
	Result     Schema      `json:"result"`
}

// Ref returns a schema referencing the named component.
func Ref(name string) Schema {
	return Schema{Ref: componentsPrefix + name}
}

// RefName returns the component name of a reference schema, or "".
func (s Schema) RefName() string {
	if len(s.Ref) <= len(componentsPrefix) || s.Ref[:len(componentsPrefix)] != componentsPrefix {
		return ""
	}

	return s.Ref[len(componentsPrefix):]
}

// IsZero reports whether s carries no information.
func (s Schema) IsZero() bool {
	return s.Type == "" && s.Ref == "" && s.Items == nil && s.AdditionalProperties == nil &&
		len(s.Properties) == 0 && len(s.Enum) == 0
}

// Summary renders a compact one-line description such as "array<integer>?"
// where a trailing "?" marks nullable.
func (s Schema) Summary() string {
	var out string

	switch {
	case s.Ref != "":
		out = s.RefName()
	case s.Type == TypeArray && s.Items != nil:
		out = "array<" + s.Items.Summary() + ">"
	case s.Type == TypeObject && s.AdditionalProperties != nil:
		out = "map<" + s.AdditionalProperties.Summary() + ">"
	case s.Type == TypeObject && len(s.Properties) > 0:
		out = "object{"

		for i, p := range s.Properties {
			if i > 0 {
				out += ", "
			}

			out += p.Name
		}

		out += "}"
	case len(s.Enum) > 0:
		out = "enum"
	case s.Type == "":
		out = "void"
	default:
		out = s.Type
	}

	if s.Nullable {
		out += "?"
	}

	return out
}

// Clone returns a deep copy of s.
func (s Schema) Clone() Schema {
	out := s

	if s.Items != nil {
		items := s.Items.Clone()
		out.Items = &items
	}

	if s.AdditionalProperties != nil {
		extra := s.AdditionalProperties.Clone()
		out.AdditionalProperties = &extra
	}

	if s.Properties != nil {
		out.Properties = make([]Property, len(s.Properties))
		for i, p := range s.Properties {
			out.Properties[i] = Property{Name: p.Name, Schema: p.Schema.Clone()}
		}
	}

	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}

	if s.Enum != nil {
		out.Enum = append([]string(nil), s.Enum...)
	}

	return out
}

// Clone returns a deep copy of p.
func (p Parameter) Clone() Parameter {
	p.Schema = p.Schema.Clone()

	return p
}

// Clone returns a deep copy of op.
func (op Operation) Clone() Operation {
	out := op
	out.Result = op.Result.Clone()

	if op.Parameters != nil {
		out.Parameters = make([]Parameter, len(op.Parameters))
		for i, p := range op.Parameters {
			out.Parameters[i] = p.Clone()
		}
	}

	return out
}

// Summary renders the operation as "id(a: integer, b: string?) -> User".
func (op Operation) Summary() string {
	out := op.ID + "("

	for i, p := range op.Parameters {
		if i > 0 {
			out += ", "
		}

		out += p.Name + ": " + p.Schema.Summary()
	}

	return out + ") -> " + op.Result.Summary()
}
