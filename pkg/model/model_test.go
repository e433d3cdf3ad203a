package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
)

func TestSignatureString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  *model.Signature
		want string
	}{
		{"nil", nil, ""},
		{"simple", &model.Signature{Name: "String"}, "String"},
		{"array", &model.Signature{Name: "int", Array: true}, "int[]"},
		{"pointer", &model.Signature{Name: "User", Pointer: true}, "*User"},
		{
			"nested generics",
			&model.Signature{Name: "Map", Args: []*model.Signature{
				{Name: "String"},
				{Name: "List", Args: []*model.Signature{{Name: "Integer"}}},
			}},
			"Map<String, List<Integer>>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.sig.String())
		})
	}
}

func TestFindAnnotation(t *testing.T) {
	t.Parallel()

	list := []model.Annotation{
		{Name: "javax.annotation.Nonnull"},
		{Name: "JsonProperty", Value: `"id"`},
	}

	assert.True(t, model.HasAnnotation(list, "Nonnull"))
	assert.True(t, model.HasAnnotation(list, "javax.annotation.Nonnull"))
	assert.True(t, model.HasAnnotation(list, "com.fasterxml.jackson.annotation.JsonProperty"))
	assert.False(t, model.HasAnnotation(list, "Nullable"))

	ann, ok := model.FindAnnotation(list, "JsonProperty")
	require.True(t, ok)
	assert.Equal(t, `"id"`, ann.Value)
}

func TestClassBuildersSetOwners(t *testing.T) {
	t.Parallel()

	cls := &model.Class{Name: "User", Package: "com.example", Kind: model.KindClass}
	field := cls.AddField(&model.Field{Name: "id"})
	method := cls.AddMethod(&model.Method{Name: "rename"})
	first := method.AddParam(&model.Parameter{Name: "first"})
	second := method.AddParam(&model.Parameter{Name: "second"})

	assert.Same(t, cls, field.Owner)
	assert.Same(t, cls, method.Owner)
	assert.Same(t, method, first.Method)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, "com.example.User", cls.QualifiedName())
}

type recordingVisitor struct {
	order  []string
	failAt string
}

var errStop = errors.New("stop")

func (r *recordingVisitor) record(label string) error {
	r.order = append(r.order, label)
	if label == r.failAt {
		return errStop
	}

	return nil
}

func (r *recordingVisitor) VisitClass(c *model.Class) error { return r.record("class:" + c.Name) }
func (r *recordingVisitor) VisitField(f *model.Field) error { return r.record("field:" + f.Name) }
func (r *recordingVisitor) VisitMethod(m *model.Method) error {
	return r.record("method:" + m.Name)
}

func (r *recordingVisitor) VisitParameter(p *model.Parameter) error {
	return r.record("param:" + p.Name)
}

func (r *recordingVisitor) VisitSignature(s *model.Signature) error {
	return r.record("type:" + s.String())
}

func sampleClass() *model.Class {
	cls := &model.Class{Name: "Counter", Kind: model.KindClass}
	cls.AddField(&model.Field{Name: "count", Type: &model.Signature{Name: "int"}})
	m := cls.AddMethod(&model.Method{Name: "add", Result: &model.Signature{Name: "void"}})
	m.AddParam(&model.Parameter{Name: "delta", Type: &model.Signature{Name: "int"}})

	return cls
}

func TestClassWalkOrder(t *testing.T) {
	t.Parallel()

	v := &recordingVisitor{}
	require.NoError(t, sampleClass().Walk(v))

	assert.Equal(t, []string{
		"class:Counter",
		"field:count",
		"type:int",
		"method:add",
		"param:delta",
		"type:int",
		"type:void",
	}, v.order)
}

func TestClassWalkStopsOnError(t *testing.T) {
	t.Parallel()

	v := &recordingVisitor{failAt: "method:add"}
	err := sampleClass().Walk(v)

	require.ErrorIs(t, err, errStop)
	assert.Equal(t, "method:add", v.order[len(v.order)-1])
}
