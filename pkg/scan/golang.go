package scan

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
)

// Go tree-sitter node types.
const (
	goPackageClause   = "package_clause"
	goTypeDecl        = "type_declaration"
	goTypeSpec        = "type_spec"
	goMethodDecl      = "method_declaration"
	goStructType      = "struct_type"
	goInterfaceType   = "interface_type"
	goFieldDeclList   = "field_declaration_list"
	goFieldDecl       = "field_declaration"
	goFieldIdent      = "field_identifier"
	goMethodElem      = "method_elem"
	goMethodSpec      = "method_spec"
	goParamDecl       = "parameter_declaration"
	goVariadicParam   = "variadic_parameter_declaration"
	goIdentifier      = "identifier"
	goPointerType     = "pointer_type"
	goSliceType       = "slice_type"
	goArrayType       = "array_type"
	goMapType         = "map_type"
	goGenericType     = "generic_type"
	goParameterList   = "parameter_list"
	goTypeArgs        = "type_arguments"
	goPackageIdent    = "package_identifier"
	goTagKeyJSON      = "json"
	goErrorType       = "error"
	goVoid            = "void"
	goMapName         = "map"
	goAnonymousStruct = "object"
)

type goExtractor struct {
	src     []byte
	pkg     string
	classes []*model.Class
	byName  map[string]*model.Class
	pending map[string][]*model.Method
}

func extractGo(root sitter.Node, src []byte) []*model.Class {
	x := &goExtractor{
		src:     src,
		byName:  make(map[string]*model.Class),
		pending: make(map[string][]*model.Method),
	}

	eachNamed(root, func(child sitter.Node) {
		switch child.Type() {
		case goPackageClause:
			x.pkg = nodeText(firstNamedOfType(child, goPackageIdent), src)
		case goTypeDecl:
			eachNamed(child, func(spec sitter.Node) {
				if spec.Type() == goTypeSpec {
					x.typeSpec(spec)
				}
			})
		case goMethodDecl:
			x.method(child)
		}
	})

	// Methods declared before their receiver type.
	for name, methods := range x.pending {
		cls, ok := x.byName[name]
		if !ok {
			continue
		}

		for _, m := range methods {
			cls.AddMethod(m)
		}
	}

	return x.classes
}

func (x *goExtractor) typeSpec(spec sitter.Node) {
	typ := spec.ChildByFieldName("type")

	var kind model.ClassKind

	switch typ.Type() {
	case goStructType:
		kind = model.KindStruct
	case goInterfaceType:
		kind = model.KindInterface
	default:
		return
	}

	cls := &model.Class{
		Name:    fieldText(spec, "name", x.src),
		Package: x.pkg,
		Kind:    kind,
		Pos:     position(spec),
	}
	x.classes = append(x.classes, cls)
	x.byName[cls.Name] = cls

	if kind == model.KindStruct {
		eachNamed(firstNamedOfType(typ, goFieldDeclList), func(decl sitter.Node) {
			if decl.Type() == goFieldDecl {
				x.structField(cls, decl)
			}
		})

		return
	}

	eachNamed(typ, func(elem sitter.Node) {
		if elem.Type() != goMethodElem && elem.Type() != goMethodSpec {
			return
		}

		name := fieldText(elem, "name", x.src)
		m := cls.AddMethod(&model.Method{
			Name:   name,
			Public: exported(name),
			Pos:    position(elem),
		})
		x.signatureOf(m, elem)
	})
}

// structField records one Field per declared name. Embedded fields are skipped.
func (x *goExtractor) structField(cls *model.Class, decl sitter.Node) {
	typ := x.signature(decl.ChildByFieldName("type"))

	var anns []model.Annotation

	if tag := fieldText(decl, "tag", x.src); tag != "" {
		if unquoted, err := strconv.Unquote(tag); err == nil {
			tag = unquoted
		}

		if value, ok := reflect.StructTag(tag).Lookup(goTagKeyJSON); ok {
			anns = append(anns, model.Annotation{Name: goTagKeyJSON, Value: value})
		}
	}

	eachNamed(decl, func(child sitter.Node) {
		if child.Type() != goFieldIdent {
			return
		}

		name := nodeText(child, x.src)
		cls.AddField(&model.Field{
			Name:        name,
			Type:        copySignature(typ, nil),
			Annotations: anns,
			Public:      exported(name),
			Pos:         position(child),
		})
	})
}

func (x *goExtractor) method(decl sitter.Node) {
	receiver := x.receiverName(decl.ChildByFieldName("receiver"))
	if receiver == "" {
		return
	}

	name := fieldText(decl, "name", x.src)
	m := &model.Method{
		Name:   name,
		Public: exported(name),
		Pos:    position(decl),
	}
	x.signatureOf(m, decl)

	if cls, ok := x.byName[receiver]; ok {
		cls.AddMethod(m)

		return
	}

	x.pending[receiver] = append(x.pending[receiver], m)
}

func (x *goExtractor) receiverName(list sitter.Node) string {
	var name string

	eachNamed(list, func(p sitter.Node) {
		if p.Type() != goParamDecl || name != "" {
			return
		}

		sig := x.signature(p.ChildByFieldName("type"))
		if sig != nil {
			name = sig.Name
		}
	})

	return name
}

// signatureOf fills m's parameters and result from a method declaration or
// an interface method element.
func (x *goExtractor) signatureOf(m *model.Method, n sitter.Node) {
	eachNamed(n.ChildByFieldName("parameters"), func(p sitter.Node) {
		variadic := p.Type() == goVariadicParam
		if p.Type() != goParamDecl && !variadic {
			return
		}

		sig := x.signature(p.ChildByFieldName("type"))
		if variadic {
			sig = arrayOf(sig)
		}

		var names []string

		eachNamed(p, func(child sitter.Node) {
			if child.Type() == goIdentifier {
				names = append(names, nodeText(child, x.src))
			}
		})

		if len(names) == 0 {
			names = []string{"arg" + strconv.Itoa(len(m.Params))}
		}

		for _, name := range names {
			m.AddParam(&model.Parameter{Name: name, Type: copySignature(sig, nil), Variadic: variadic})
		}
	})

	m.Result = x.result(n.ChildByFieldName("result"))
}

// result picks the first non-error result type; a method returning only an
// error, or nothing, returns void.
func (x *goExtractor) result(n sitter.Node) *model.Signature {
	if n.IsNull() {
		return &model.Signature{Name: goVoid}
	}

	if n.Type() != goParameterList {
		if sig := x.signature(n); sig != nil && sig.Name != goErrorType {
			return sig
		}

		return &model.Signature{Name: goVoid}
	}

	var out *model.Signature

	eachNamed(n, func(p sitter.Node) {
		if out != nil || p.Type() != goParamDecl {
			return
		}

		if sig := x.signature(p.ChildByFieldName("type")); sig != nil && sig.Name != goErrorType {
			out = sig
		}
	})

	if out == nil {
		return &model.Signature{Name: goVoid}
	}

	return out
}

// signature converts a Go type node into a [model.Signature]. Slices and
// arrays become Array signatures, maps become map<K, V>, pointers set Pointer.
func (x *goExtractor) signature(n sitter.Node) *model.Signature {
	if n.IsNull() {
		return nil
	}

	switch n.Type() {
	case goPointerType:
		var elem *model.Signature

		eachNamed(n, func(child sitter.Node) {
			elem = x.signature(child)
		})

		if elem == nil {
			return nil
		}

		out := *elem
		out.Pointer = true

		return &out
	case goSliceType, goArrayType:
		return arrayOf(x.signature(n.ChildByFieldName("element")))
	case goMapType:
		return &model.Signature{
			Name: goMapName,
			Args: []*model.Signature{
				x.signature(n.ChildByFieldName("key")),
				x.signature(n.ChildByFieldName("value")),
			},
		}
	case goGenericType:
		sig := &model.Signature{Name: fieldText(n, "type", x.src)}

		eachNamed(n.ChildByFieldName("type_arguments"), func(arg sitter.Node) {
			if argSig := x.signature(arg); argSig != nil {
				sig.Args = append(sig.Args, argSig)
			}
		})

		if len(sig.Args) == 0 {
			eachNamed(firstNamedOfType(n, goTypeArgs), func(arg sitter.Node) {
				if argSig := x.signature(arg); argSig != nil {
					sig.Args = append(sig.Args, argSig)
				}
			})
		}

		return sig
	case goStructType:
		return &model.Signature{Name: goAnonymousStruct}
	case goInterfaceType:
		return &model.Signature{Name: "any"}
	default:
		return &model.Signature{Name: strings.TrimSpace(nodeText(n, x.src))}
	}
}

func exported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)

	return unicode.IsUpper(r)
}
