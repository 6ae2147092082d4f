package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/model"
)

func TestSchemaResolvesReferences(t *testing.T) {
	spec := validSpec()
	spec.Modules = append(spec.Modules, ModuleSpec{
		Name: "orders",
		Types: []TypeSpec{{Name: "Order", Properties: []PropertySpec{
			{Name: "Item", Type: "shop.Product", Get: "public", Annotations: []AnnotationUse{{Ref: "shop.Required", Value: "x"}}},
			{Name: "Count", Type: "int", Get: "public"},
		}}},
	})

	s, err := Schema(spec)
	require.NoError(t, err)

	require.Len(t, s.Annotations, 1)
	assert.Equal(t, model.AnnotationType{ID: model.NewTypeID("shop", "Required"), Inherited: true}, s.Annotations[0])

	require.Len(t, s.Types, 3)
	product := s.Types[1]
	assert.Equal(t, model.NewTypeID("shop", "Product"), product.ID)
	assert.Equal(t, model.NewTypeID("shop", "Entity"), product.Base)
	assert.Equal(t, model.VisibilityPublic, product.Properties[1].Getter)
	assert.Equal(t, model.VisibilityInternal, product.Properties[1].Setter)
	assert.Equal(t, model.ModifierVirtual, product.Properties[0].Modifiers)

	order := s.Types[2]
	assert.Equal(t, model.NewTypeID("shop", "Product"), order.Properties[0].ReturnType)
	assert.Equal(t, model.NewTypeID("shop", "Required"), order.Properties[0].Annotations[0].Type)
	assert.Equal(t, "x", order.Properties[0].Annotations[0].Value)
	assert.Equal(t, model.Builtin("int"), order.Properties[1].ReturnType)
}

func TestSchemaUnqualifiedFallsBackToBuiltin(t *testing.T) {
	spec := &ModelSpec{Modules: []ModuleSpec{{
		Name: "m",
		Types: []TypeSpec{{Name: "T", Properties: []PropertySpec{
			{Name: "A", Type: "Widget", Get: "public"},
			{Name: "B", Type: "T", Get: "public"},
		}}},
	}}}

	s, err := Schema(spec)
	require.NoError(t, err)

	assert.Equal(t, model.Builtin("Widget"), s.Types[0].Properties[0].ReturnType)
	assert.Equal(t, model.NewTypeID("m", "T"), s.Types[0].Properties[1].ReturnType)
}

func TestSchemaReturnsValidationErrors(t *testing.T) {
	spec := validSpec()
	spec.Modules[0].Types[1].Base = "Thing"

	_, err := Schema(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrUnknownBase)
}

func TestBuildRegistry(t *testing.T) {
	reg, err := BuildRegistry(validSpec())
	require.NoError(t, err)

	product, ok := reg.Lookup("shop.Product")
	require.True(t, ok)
	require.NotNil(t, product.Base)
	assert.Equal(t, "Entity", product.Base.ID.Name)
	assert.True(t, reg.Inherited(model.NewTypeID("shop", "Required")))
}
