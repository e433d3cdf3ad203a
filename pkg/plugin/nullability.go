package plugin

import (
	"context"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
)

var (
	nullableAnnotations = []string{"Nullable", "CheckForNull"}
	nonNullAnnotations  = []string{"Nonnull", "NonNull", "NotNull", "NotBlank", "NotEmpty"}
)

var javaPrimitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// Nullable reports whether values of sig may be absent.
//
// Optional is always nullable. Otherwise explicit annotations win, then Java
// reference types are nullable and primitives are not; Go values are nullable
// only behind a pointer or as any.
func Nullable(sig *model.Signature) bool {
	if sig == nil || sig.Name == "void" {
		return false
	}

	if isOptional(sig) {
		return true
	}

	if hasAny(sig.Annotations, nullableAnnotations) {
		return true
	}

	if hasAny(sig.Annotations, nonNullAnnotations) {
		return false
	}

	if sig.Language == langGo {
		return sig.Pointer || sig.Name == "any" || sig.Name == "interface{}"
	}

	return sig.Array || !javaPrimitives[sig.Name]
}

func isOptional(sig *model.Signature) bool {
	return sig.SimpleName() == "Optional"
}

func hasAny(list []model.Annotation, names []string) bool {
	for _, name := range names {
		if model.HasAnnotation(list, name) {
			return true
		}
	}

	return false
}

// NullabilityPlugin marks TypeNode schemas nullable. It must run after the
// type map, whose schemas it refines.
type NullabilityPlugin struct{}

// Name returns "nullability".
func (*NullabilityPlugin) Name() string { return NameNullability }

// Enter sets Nullable on TypeNode targets; other kinds pass through.
// Optional signatures are nullable even when annotated non-null. Any other
// schema already nullable through an override stays nullable unless the
// signature is annotated non-null.
func (*NullabilityPlugin) Enter(_ context.Context, n node.Any, _ Lookup) (node.Any, error) {
	tn, ok := n.(node.TypeNode)
	if !ok {
		return n, nil
	}

	sig := tn.Source()
	target := tn.Target()

	switch {
	case isOptional(sig):
		target.Nullable = true
	case hasAny(sig.Annotations, nonNullAnnotations):
		target.Nullable = false
	case target.Nullable:
	default:
		target.Nullable = Nullable(sig)
	}

	return tn.WithTarget(target), nil
}
