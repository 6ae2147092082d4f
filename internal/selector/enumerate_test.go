package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/testutil"
)

func TestEnumerate_EffectiveVisibility(t *testing.T) {
	reg := testutil.MustBuild(t, testutil.SixPropertySchema())
	eng := New(reg)

	members, err := eng.Type(testutil.MustType(t, reg, "Widget")).Members()
	require.NoError(t, err)

	got := make(map[string]model.Visibility, len(members))
	for _, m := range members {
		got[m.Name] = m.Visibility
	}
	assert.Equal(t, map[string]model.Visibility{
		"Name":   model.VisibilityPublic,
		"Count":  model.VisibilityPublic, // public get, private set
		"Label":  model.VisibilityProtected,
		"Size":   model.VisibilityInternal,
		"Depth":  model.VisibilityProtected, // private get, protected set
		"Weight": model.VisibilityPrivate,
	}, got)
}

func TestEnumerate_OverrideChain(t *testing.T) {
	reg := testutil.MustBuild(t, testutil.ShopSchema())
	eng := New(reg)

	members, err := eng.Type(testutil.MustType(t, reg, "Book")).Members()
	require.NoError(t, err)
	require.Equal(t, "ID", members[0].Name)

	id := members[0]
	require.NotNil(t, id.Overrides)
	assert.Equal(t, testutil.ID("Product"), id.Overrides.Declaring.ID)
	require.NotNil(t, id.Overrides.Overrides)
	assert.Equal(t, testutil.ID("Entity"), id.Overrides.Overrides.Declaring.ID)
	assert.Nil(t, id.Overrides.Overrides.Overrides)

	// Isbn is new on Book.
	assert.Equal(t, "Isbn", members[2].Name)
	assert.Nil(t, members[2].Overrides)
}

func TestEnumerate_SkipsAncestorsThatDoNotDeclare(t *testing.T) {
	s := testutil.ShopSchema()
	// Drop Product.Code so Book.Code links straight to Entity.Code.
	props := s.Types[1].Properties
	s.Types[1].Properties = append(props[:1:1], props[2:]...)
	reg := testutil.MustBuild(t, s)
	eng := New(reg)

	members, err := eng.Type(testutil.MustType(t, reg, "Book")).Members()
	require.NoError(t, err)

	code := members[1]
	require.Equal(t, "Code", code.Name)
	require.NotNil(t, code.Overrides)
	assert.Equal(t, testutil.ID("Entity"), code.Overrides.Declaring.ID)
}

func TestEnumerate_SharedDescriptors(t *testing.T) {
	reg := testutil.MustBuild(t, testutil.ShopSchema())
	eng := New(reg)

	products, err := eng.Type(testutil.MustType(t, reg, "Product")).Members()
	require.NoError(t, err)
	books, err := eng.Type(testutil.MustType(t, reg, "Book")).Members()
	require.NoError(t, err)

	assert.Same(t, products[0], books[0].Overrides)
}

func TestEnumerate_SmallCacheStillLinksOverrides(t *testing.T) {
	reg := testutil.MustBuild(t, testutil.ShopSchema())
	eng := New(reg, WithCacheSize(1))
	mod, _ := reg.Module(testutil.FixtureModule)

	members, err := eng.Module(mod).ThatAreDecoratedWithOrInherit(testutil.ID("Required")).Members()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Entity.ID", "Product.ID", "Product.Name", "Book.ID", "Order.Total",
	}, testutil.Names(members))
}

func TestEnumerate_ExplicitAnnotationsOnly(t *testing.T) {
	reg := testutil.MustBuild(t, testutil.OverrideSchema(true))
	eng := New(reg)

	members, err := eng.Type(testutil.MustType(t, reg, "Derived")).Members()
	require.NoError(t, err)
	require.Len(t, members, 1)

	assert.Empty(t, members[0].Annotations)
	require.NotNil(t, members[0].Overrides)
	require.Len(t, members[0].Overrides.Annotations, 1)
	assert.True(t, members[0].Overrides.Annotations[0].Inherited)
}

// cyclicIntrospector reports a base chain A → B → A that a Registry would
// refuse to build.
type cyclicIntrospector struct {
	a, b *model.Type
}

func newCyclicIntrospector(sharedName bool) *cyclicIntrospector {
	a := &model.Type{ID: model.NewTypeID("loop", "A")}
	b := &model.Type{ID: model.NewTypeID("loop", "B")}
	a.Base, b.Base = b, a

	a.Properties = []model.Property{{Name: "X", ReturnType: model.Builtin("int"), Getter: model.VisibilityPublic}}
	name := "Y"
	if sharedName {
		name = "X"
	}
	b.Properties = []model.Property{{Name: name, ReturnType: model.Builtin("int"), Getter: model.VisibilityPublic}}
	return &cyclicIntrospector{a: a, b: b}
}

func (c *cyclicIntrospector) DeclaredProperties(t *model.Type) []model.Property { return t.Properties }
func (c *cyclicIntrospector) BaseType(t *model.Type) *model.Type               { return t.Base }
func (c *cyclicIntrospector) ExplicitAnnotations(_ *model.Type, p model.Property) []model.Annotation {
	return p.Annotations
}
func (c *cyclicIntrospector) Inherited(model.TypeID) bool { return false }
func (c *cyclicIntrospector) ModuleTypes(*model.Module) []*model.Type {
	return []*model.Type{c.a, c.b}
}

func TestEnumerate_CyclicBaseIsInvalidInput(t *testing.T) {
	for _, shared := range []bool{true, false} {
		intro := newCyclicIntrospector(shared)
		eng := New(intro)

		_, err := eng.Type(intro.a).Members()
		require.Error(t, err, "sharedName=%v", shared)

		var se *Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, ErrCodeInvalidInput, se.Code)
		assert.Equal(t, "base", se.Param)
	}
}
