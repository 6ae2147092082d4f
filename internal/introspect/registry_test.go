package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/model"
)

var (
	idBase    = model.NewTypeID("app", "Base")
	idDerived = model.NewTypeID("app", "Derived")
	idMarker  = model.NewTypeID("app", "Marker")
	idString  = model.Builtin("string")
)

func overrideSchema(inherited bool) Schema {
	return Schema{
		Annotations: []model.AnnotationType{{ID: idMarker, Inherited: inherited}},
		Types: []TypeDef{
			// Derived is declared first to exercise out-of-order base linking.
			{
				ID:   idDerived,
				Base: idBase,
				Properties: []PropertyDef{
					{Name: "Name", ReturnType: idString, Getter: model.VisibilityPublic},
				},
			},
			{
				ID: idBase,
				Properties: []PropertyDef{
					{
						Name:        "Name",
						ReturnType:  idString,
						Getter:      model.VisibilityPublic,
						Modifiers:   model.ModifierVirtual,
						Annotations: []AnnotationRef{{Type: idMarker, Value: "payload"}},
					},
				},
			},
		},
	}
}

func TestBuild_ResolvesBasesAndAnnotations(t *testing.T) {
	reg, err := Build(overrideSchema(true))
	require.NoError(t, err)

	derived, ok := reg.Type(idDerived)
	require.True(t, ok)
	base, ok := reg.Type(idBase)
	require.True(t, ok)

	assert.Same(t, base, reg.BaseType(derived))
	assert.Nil(t, reg.BaseType(base))

	props := reg.DeclaredProperties(base)
	require.Len(t, props, 1)
	anns := reg.ExplicitAnnotations(base, props[0])
	require.Len(t, anns, 1)
	assert.Equal(t, idMarker, anns[0].Type)
	assert.True(t, anns[0].Inherited, "instance carries the definition's flag")
	assert.Equal(t, "payload", anns[0].Value)

	assert.Empty(t, reg.ExplicitAnnotations(derived, reg.DeclaredProperties(derived)[0]))
	assert.True(t, reg.Inherited(idMarker))
	assert.False(t, reg.Inherited(model.NewTypeID("app", "Unknown")))
}

func TestBuild_ModulesInRegistrationOrder(t *testing.T) {
	s := Schema{Types: []TypeDef{
		{ID: model.NewTypeID("b", "X")},
		{ID: model.NewTypeID("a", "Y")},
		{ID: model.NewTypeID("b", "Z")},
	}}
	reg, err := Build(s)
	require.NoError(t, err)

	require.Len(t, reg.Modules(), 2)
	assert.Equal(t, "b", reg.Modules()[0].Name)
	assert.Equal(t, "a", reg.Modules()[1].Name)

	mod, ok := reg.Module("b")
	require.True(t, ok)
	types := reg.ModuleTypes(mod)
	require.Len(t, types, 2)
	assert.Equal(t, "b.X", types[0].ID.String())
	assert.Equal(t, "b.Z", types[1].ID.String())

	assert.Nil(t, reg.ModuleTypes(nil))
	_, ok = reg.Module("missing")
	assert.False(t, ok)
}

func TestBuild_Lookup(t *testing.T) {
	reg, err := Build(overrideSchema(false))
	require.NoError(t, err)

	typ, ok := reg.Lookup("app.Base")
	require.True(t, ok)
	assert.Equal(t, idBase, typ.ID)

	_, ok = reg.Lookup("app.Nope")
	assert.False(t, ok)

	assert.Len(t, reg.Types(), 2)
	assert.Equal(t, idDerived, reg.Types()[0].ID)
}

func TestBuild_RejectsInvalidSchema(t *testing.T) {
	s := Schema{
		Types: []TypeDef{
			{ID: idDerived, Base: idBase},
		},
	}
	_, err := Build(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(ErrCodeUnknownBase))
}

func TestCheck_Problems(t *testing.T) {
	a := model.NewTypeID("m", "A")
	b := model.NewTypeID("m", "B")
	c := model.NewTypeID("m", "C")

	tests := []struct {
		name   string
		schema Schema
		codes  []SchemaErrorCode
	}{
		{
			name:   "valid",
			schema: overrideSchema(true),
			codes:  nil,
		},
		{
			name: "duplicate type",
			schema: Schema{Types: []TypeDef{{ID: a}, {ID: a}}},
			codes:  []SchemaErrorCode{ErrCodeDuplicateType},
		},
		{
			name: "duplicate annotation",
			schema: Schema{Annotations: []model.AnnotationType{{ID: idMarker}, {ID: idMarker}}},
			codes:  []SchemaErrorCode{ErrCodeDuplicateAnnotation},
		},
		{
			name: "duplicate property",
			schema: Schema{Types: []TypeDef{{ID: a, Properties: []PropertyDef{
				{Name: "X", Getter: model.VisibilityPublic},
				{Name: "X", Getter: model.VisibilityPublic},
			}}}},
			codes: []SchemaErrorCode{ErrCodeDuplicateProperty},
		},
		{
			name: "no accessor",
			schema: Schema{Types: []TypeDef{{ID: a, Properties: []PropertyDef{{Name: "X"}}}}},
			codes:  []SchemaErrorCode{ErrCodeNoAccessor},
		},
		{
			name: "unknown annotation",
			schema: Schema{Types: []TypeDef{{ID: a, Properties: []PropertyDef{
				{Name: "X", Getter: model.VisibilityPublic, Annotations: []AnnotationRef{{Type: idMarker}}},
			}}}},
			codes: []SchemaErrorCode{ErrCodeUnknownAnnotation},
		},
		{
			name: "self loop",
			schema: Schema{Types: []TypeDef{{ID: a, Base: a}}},
			codes:  []SchemaErrorCode{ErrCodeBaseCycle},
		},
		{
			name: "three cycle",
			schema: Schema{Types: []TypeDef{
				{ID: a, Base: b},
				{ID: b, Base: c},
				{ID: c, Base: a},
			}},
			codes: []SchemaErrorCode{ErrCodeBaseCycle},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Check(tt.schema)
			var codes []SchemaErrorCode
			for _, p := range problems {
				codes = append(codes, p.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestCheck_CyclePath(t *testing.T) {
	a := model.NewTypeID("m", "A")
	b := model.NewTypeID("m", "B")
	s := Schema{Types: []TypeDef{{ID: b, Base: a}, {ID: a, Base: b}}}

	problems := Check(s)
	require.Len(t, problems, 1)
	assert.Equal(t, a, problems[0].Type)
	assert.Contains(t, problems[0].Error(), "m.A → m.B → m.A")
}

func TestSchemaError_Format(t *testing.T) {
	e := &SchemaError{Code: ErrCodeNoAccessor, Type: idBase, Property: "Name", Message: "x"}
	assert.Equal(t, "NO_ACCESSOR: app.Base.Name: x", e.Error())

	e = &SchemaError{Code: ErrCodeDuplicateType, Type: idBase, Message: "y"}
	assert.Equal(t, "DUPLICATE_TYPE: app.Base: y", e.Error())

	e = &SchemaError{Code: ErrCodeDuplicateAnnotation, Message: "z"}
	assert.Equal(t, "DUPLICATE_ANNOTATION: z", e.Error())
}
