package scan

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
)

// Java tree-sitter node types.
const (
	javaPackageDecl     = "package_declaration"
	javaClassDecl       = "class_declaration"
	javaInterfaceDecl   = "interface_declaration"
	javaRecordDecl      = "record_declaration"
	javaEnumDecl        = "enum_declaration"
	javaFieldDecl       = "field_declaration"
	javaConstantDecl    = "constant_declaration"
	javaMethodDecl      = "method_declaration"
	javaEnumConstant    = "enum_constant"
	javaEnumBodyDecls   = "enum_body_declarations"
	javaModifiers       = "modifiers"
	javaMarkerAnnot     = "marker_annotation"
	javaAnnotation      = "annotation"
	javaVarDeclarator   = "variable_declarator"
	javaFormalParam     = "formal_parameter"
	javaSpreadParam     = "spread_parameter"
	javaGenericType     = "generic_type"
	javaArrayType       = "array_type"
	javaAnnotatedType   = "annotated_type"
	javaTypeArguments   = "type_arguments"
	javaWildcard        = "wildcard"
	javaVoidType        = "void_type"
	javaScopedTypeIdent = "scoped_type_identifier"
	javaTypeIdent       = "type_identifier"
)

const javaObject = "Object"

var javaClassKinds = map[string]model.ClassKind{
	javaClassDecl:     model.KindClass,
	javaInterfaceDecl: model.KindInterface,
	javaRecordDecl:    model.KindRecord,
	javaEnumDecl:      model.KindEnum,
}

type javaExtractor struct {
	src     []byte
	pkg     string
	classes []*model.Class
}

type javaModifierSet struct {
	annotations []model.Annotation
	public      bool
	private     bool
	static      bool
}

func extractJava(root sitter.Node, src []byte) []*model.Class {
	x := &javaExtractor{src: src}

	eachNamed(root, func(child sitter.Node) {
		switch child.Type() {
		case javaPackageDecl:
			eachNamed(child, func(part sitter.Node) {
				if part.Type() == "scoped_identifier" || part.Type() == "identifier" {
					x.pkg = nodeText(part, src)
				}
			})
		default:
			if _, ok := javaClassKinds[child.Type()]; ok {
				x.declaration(child, "")
			}
		}
	})

	return x.classes
}

// declaration records a type declaration and, recursively, its nested types.
// Nested types are named Outer.Inner and follow their enclosing type.
func (x *javaExtractor) declaration(n sitter.Node, outer string) {
	name := fieldText(n, "name", x.src)
	if outer != "" {
		name = outer + "." + name
	}

	mods := x.modifiers(n)
	cls := &model.Class{
		Name:        name,
		Package:     x.pkg,
		Kind:        javaClassKinds[n.Type()],
		Annotations: mods.annotations,
		Pos:         position(n),
	}
	x.classes = append(x.classes, cls)

	if n.Type() == javaRecordDecl {
		eachNamed(n.ChildByFieldName("parameters"), func(component sitter.Node) {
			if component.Type() != javaFormalParam {
				return
			}

			cmods := x.modifiers(component)
			cls.AddField(&model.Field{
				Name:        fieldText(component, "name", x.src),
				Type:        copySignature(x.signature(component.ChildByFieldName("type")), cmods.annotations),
				Annotations: cmods.annotations,
				Public:      true,
				Pos:         position(component),
			})
		})
	}

	x.body(cls, n.ChildByFieldName("body"), cls.Kind == model.KindInterface)
}

func (x *javaExtractor) body(cls *model.Class, body sitter.Node, implicitPublic bool) {
	eachNamed(body, func(member sitter.Node) {
		switch member.Type() {
		case javaFieldDecl, javaConstantDecl:
			x.fields(cls, member, implicitPublic)
		case javaMethodDecl:
			x.method(cls, member, implicitPublic)
		case javaEnumConstant:
			cls.Constants = append(cls.Constants, fieldText(member, "name", x.src))
		case javaEnumBodyDecls:
			x.body(cls, member, false)
		default:
			if _, ok := javaClassKinds[member.Type()]; ok {
				x.declaration(member, cls.Name)
			}
		}
	})
}

func (x *javaExtractor) fields(cls *model.Class, n sitter.Node, implicitPublic bool) {
	mods := x.modifiers(n)
	typ := x.signature(n.ChildByFieldName("type"))

	eachNamed(n, func(decl sitter.Node) {
		if decl.Type() != javaVarDeclarator {
			return
		}

		sig := x.withDimensions(copySignature(typ, mods.annotations), decl.ChildByFieldName("dimensions"))

		cls.AddField(&model.Field{
			Name:        fieldText(decl, "name", x.src),
			Type:        sig,
			Annotations: mods.annotations,
			Static:      mods.static || implicitPublic,
			Public:      mods.public || implicitPublic,
			Pos:         position(decl),
		})
	})
}

func (x *javaExtractor) method(cls *model.Class, n sitter.Node, implicitPublic bool) {
	mods := x.modifiers(n)
	m := cls.AddMethod(&model.Method{
		Name:        fieldText(n, "name", x.src),
		Annotations: mods.annotations,
		Static:      mods.static,
		Public:      mods.public || (implicitPublic && !mods.private),
		Pos:         position(n),
	})

	// Declaration annotations such as @Nonnull on a method describe its result.
	m.Result = copySignature(x.signature(n.ChildByFieldName("type")), mods.annotations)

	eachNamed(n.ChildByFieldName("parameters"), func(p sitter.Node) {
		switch p.Type() {
		case javaFormalParam:
			pmods := x.modifiers(p)

			sig := x.withDimensions(
				copySignature(x.signature(p.ChildByFieldName("type")), pmods.annotations),
				p.ChildByFieldName("dimensions"),
			)

			m.AddParam(&model.Parameter{
				Name:        fieldText(p, "name", x.src),
				Type:        sig,
				Annotations: pmods.annotations,
			})
		case javaSpreadParam:
			x.spreadParam(m, p)
		}
	})
}

// spreadParam handles "T... values": the type child is unnamed in the grammar.
func (x *javaExtractor) spreadParam(m *model.Method, p sitter.Node) {
	var (
		pmods javaModifierSet
		sig   *model.Signature
		name  string
	)

	eachNamed(p, func(child sitter.Node) {
		switch child.Type() {
		case javaModifiers:
			pmods = x.modifierSet(child)
		case javaVarDeclarator:
			name = fieldText(child, "name", x.src)
		default:
			sig = x.signature(child)
		}
	})

	m.AddParam(&model.Parameter{
		Name:        name,
		Type:        arrayOf(copySignature(sig, pmods.annotations)),
		Annotations: pmods.annotations,
		Variadic:    true,
	})
}

func (x *javaExtractor) modifiers(n sitter.Node) javaModifierSet {
	return x.modifierSet(firstNamedOfType(n, javaModifiers))
}

func (x *javaExtractor) modifierSet(mods sitter.Node) javaModifierSet {
	var set javaModifierSet

	if mods.IsNull() {
		return set
	}

	eachNamed(mods, func(child sitter.Node) {
		if ann, ok := x.annotation(child); ok {
			set.annotations = append(set.annotations, ann)
		}
	})

	for _, word := range strings.Fields(nodeText(mods, x.src)) {
		switch word {
		case "public":
			set.public = true
		case "private":
			set.private = true
		case "static":
			set.static = true
		}
	}

	return set
}

func (x *javaExtractor) annotation(n sitter.Node) (model.Annotation, bool) {
	switch n.Type() {
	case javaMarkerAnnot:
		return model.Annotation{Name: fieldText(n, "name", x.src)}, true
	case javaAnnotation:
		args := fieldText(n, "arguments", x.src)
		args = strings.TrimSuffix(strings.TrimPrefix(args, "("), ")")

		return model.Annotation{Name: fieldText(n, "name", x.src), Value: strings.TrimSpace(args)}, true
	default:
		return model.Annotation{}, false
	}
}

// signature converts a Java type node into a [model.Signature].
func (x *javaExtractor) signature(n sitter.Node) *model.Signature {
	if n.IsNull() {
		return nil
	}

	switch n.Type() {
	case javaVoidType:
		return &model.Signature{Name: "void"}
	case javaGenericType:
		sig := &model.Signature{}

		eachNamed(n, func(child sitter.Node) {
			switch child.Type() {
			case javaTypeIdent, javaScopedTypeIdent:
				sig.Name = nodeText(child, x.src)
			case javaTypeArguments:
				eachNamed(child, func(arg sitter.Node) {
					if argSig := x.signature(arg); argSig != nil {
						sig.Args = append(sig.Args, argSig)
					}
				})
			}
		})

		return sig
	case javaArrayType:
		return x.withDimensions(x.signature(n.ChildByFieldName("element")), n.ChildByFieldName("dimensions"))
	case javaAnnotatedType:
		var (
			anns []model.Annotation
			sig  *model.Signature
		)

		eachNamed(n, func(child sitter.Node) {
			if ann, ok := x.annotation(child); ok {
				anns = append(anns, ann)

				return
			}

			sig = x.signature(child)
		})

		return copySignature(sig, anns)
	case javaWildcard:
		var bound *model.Signature

		eachNamed(n, func(child sitter.Node) {
			if child.Type() != "super" {
				bound = x.signature(child)
			}
		})

		if bound == nil {
			return &model.Signature{Name: javaObject}
		}

		return bound
	default:
		return &model.Signature{Name: nodeText(n, x.src)}
	}
}

// withDimensions applies one array level per "[]" pair in dims, so both
// "int[][] a" and "int a[][]" nest twice.
func (x *javaExtractor) withDimensions(sig *model.Signature, dims sitter.Node) *model.Signature {
	for range strings.Count(nodeText(dims, x.src), "[") {
		sig = arrayOf(sig)
	}

	return sig
}
