// Package model defines the source model: the structural description of the
// program elements (classes, methods, fields, parameters and type signatures)
// that feed the node pipeline.
//
// Model values are always handled by pointer. Two elements are the same
// element iff their pointers are equal; names are not identities.
package model

import "strings"

// ClassKind labels the declaration form of a [Class].
type ClassKind string

// Class kinds.
const (
	KindClass     ClassKind = "class"
	KindInterface ClassKind = "interface"
	KindRecord    ClassKind = "record"
	KindEnum      ClassKind = "enum"
	KindStruct    ClassKind = "struct"
)

// Position is the 1-based line/column span of a declaration.
type Position struct {
	StartLine uint `json:"start_line,omitempty"`
	StartCol  uint `json:"start_col,omitempty"`
	EndLine   uint `json:"end_line,omitempty"`
	EndCol    uint `json:"end_col,omitempty"`
}

// Annotation is a declaration annotation or, for Go, a struct tag key.
// Value holds the single argument text, if any.
type Annotation struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Class is a type declaration with its members.
type Class struct {
	Name        string       `json:"name"`
	Package     string       `json:"package,omitempty"`
	Kind        ClassKind    `json:"kind"`
	Language    string       `json:"language,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Fields      []*Field     `json:"fields,omitempty"`
	Methods     []*Method    `json:"methods,omitempty"`
	Constants   []string     `json:"constants,omitempty"`
	Pos         Position     `json:"pos"`
}

// QualifiedName returns Package.Name, or Name when the package is unknown.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}

	return c.Package + "." + c.Name
}

// AddField appends a field owned by c and returns it.
func (c *Class) AddField(f *Field) *Field {
	f.Owner = c
	c.Fields = append(c.Fields, f)

	return f
}

// AddMethod appends a method owned by c and returns it.
func (c *Class) AddMethod(m *Method) *Method {
	m.Owner = c
	c.Methods = append(c.Methods, m)

	return m
}

// Method is a method declaration. Result is nil for constructors-like
// declarations and for methods without a declared return type.
type Method struct {
	Name        string       `json:"name"`
	Owner       *Class       `json:"-"`
	Params      []*Parameter `json:"params,omitempty"`
	Result      *Signature   `json:"result,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Static      bool         `json:"static,omitempty"`
	Public      bool         `json:"public,omitempty"`
	Pos         Position     `json:"pos"`
}

// AddParam appends a parameter bound to m, assigning its index.
func (m *Method) AddParam(p *Parameter) *Parameter {
	p.Method = m
	p.Index = len(m.Params)
	m.Params = append(m.Params, p)

	return p
}

// Field is a member variable declaration. One declarator is one Field.
type Field struct {
	Name        string       `json:"name"`
	Owner       *Class       `json:"-"`
	Type        *Signature   `json:"type"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Static      bool         `json:"static,omitempty"`
	Public      bool         `json:"public,omitempty"`
	Pos         Position     `json:"pos"`
}

// Parameter is a formal parameter of a method.
type Parameter struct {
	Name        string       `json:"name"`
	Method      *Method      `json:"-"`
	Index       int          `json:"index"`
	Type        *Signature   `json:"type"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Variadic    bool         `json:"variadic,omitempty"`
}

// Signature is a type reference as written at a declaration site:
// a name, optional type arguments, and array/slice or pointer markers.
type Signature struct {
	Name        string       `json:"name"`
	Args        []*Signature `json:"args,omitempty"`
	Array       bool         `json:"array,omitempty"`
	Pointer     bool         `json:"pointer,omitempty"`
	Language    string       `json:"language,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// String renders the signature in Java-like form, e.g. "Map<String, List<Integer>>"
// or "int[]". Pointers render with a leading "*".
func (s *Signature) String() string {
	if s == nil {
		return ""
	}

	var sb strings.Builder

	if s.Pointer {
		sb.WriteByte('*')
	}

	sb.WriteString(s.Name)

	if len(s.Args) > 0 {
		sb.WriteByte('<')

		for i, arg := range s.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(arg.String())
		}

		sb.WriteByte('>')
	}

	if s.Array {
		sb.WriteString("[]")
	}

	return sb.String()
}

// SimpleName returns the last dot-separated segment of the signature name.
func (s *Signature) SimpleName() string {
	return simpleName(s.Name)
}

// HasAnnotation reports whether list contains an annotation whose simple or
// qualified name equals name.
func HasAnnotation(list []Annotation, name string) bool {
	_, ok := FindAnnotation(list, name)

	return ok
}

// FindAnnotation returns the first annotation in list matching name.
// "javax.annotation.Nonnull" matches both "Nonnull" and the qualified name.
func FindAnnotation(list []Annotation, name string) (Annotation, bool) {
	want := simpleName(name)

	for _, ann := range list {
		if ann.Name == name || simpleName(ann.Name) == want {
			return ann, true
		}
	}

	return Annotation{}, false
}

func simpleName(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}

	return name
}
