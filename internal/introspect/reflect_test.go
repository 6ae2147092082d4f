package introspect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/model"
)

type animal struct {
	Name     string `annotate:"Marker"`
	Legs     int    `propsel:"get=public,set=protected,virtual"`
	Born     time.Time
	internal string
	Skipped  bool `propsel:"-"`
}

type dog struct {
	animal
	Name  string
	Owner *person
	Tags  []string `annotate:"Tagged"`
}

type person struct {
	Email string `propsel:"get=internal,set=private,static"`
}

func TestSchemaFromGo(t *testing.T) {
	anns := []model.AnnotationType{{ID: model.NewTypeID("zoo", "Marker"), Inherited: true}}
	s, err := SchemaFromGo("zoo", anns, animal{}, &dog{}, person{})
	require.NoError(t, err)
	require.Len(t, s.Types, 3)

	a := s.Types[0]
	assert.Equal(t, model.NewTypeID("zoo", "animal"), a.ID)
	assert.True(t, a.Base.IsZero())
	require.Len(t, a.Properties, 4, "skipped field is not a property")

	assert.Equal(t, "Name", a.Properties[0].Name)
	assert.Equal(t, model.Builtin("string"), a.Properties[0].ReturnType)
	assert.Equal(t, []AnnotationRef{{Type: model.NewTypeID("zoo", "Marker")}}, a.Properties[0].Annotations)

	legs := a.Properties[1]
	assert.Equal(t, model.VisibilityPublic, legs.Getter)
	assert.Equal(t, model.VisibilityProtected, legs.Setter)
	assert.True(t, legs.Modifiers.Has(model.ModifierVirtual))

	assert.Equal(t, model.NewTypeID("time", "Time"), a.Properties[2].ReturnType)

	priv := a.Properties[3]
	assert.Equal(t, "internal", priv.Name)
	assert.Equal(t, model.VisibilityPrivate, priv.Getter)

	d := s.Types[1]
	assert.Equal(t, model.NewTypeID("zoo", "animal"), d.Base)
	require.Len(t, d.Properties, 3)
	assert.Equal(t, "Name", d.Properties[0].Name)
	assert.Equal(t, model.Builtin("*introspect.person"), d.Properties[1].ReturnType)
	// Undeclared annotation names fall back to a module-less identity.
	assert.Equal(t, model.Builtin("Tagged"), d.Properties[2].Annotations[0].Type)

	p := s.Types[2]
	assert.Equal(t, model.VisibilityInternal, p.Properties[0].Getter)
	assert.True(t, p.Properties[0].Modifiers.Has(model.ModifierStatic))
}

func TestSchemaFromGo_BuildsOverrideChain(t *testing.T) {
	anns := []model.AnnotationType{
		{ID: model.NewTypeID("zoo", "Marker"), Inherited: true},
		{ID: model.Builtin("Tagged")},
	}
	s, err := SchemaFromGo("zoo", anns, animal{}, dog{}, person{})
	require.NoError(t, err)

	reg, err := Build(s)
	require.NoError(t, err)

	d, ok := reg.Lookup("zoo.dog")
	require.True(t, ok)
	require.NotNil(t, d.Base)
	assert.Equal(t, "zoo.animal", d.Base.ID.String())
}

func TestSchemaFromGo_Errors(t *testing.T) {
	_, err := SchemaFromGo("zoo", nil, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a struct")

	_, err = SchemaFromGo("zoo", nil, struct{ X int }{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anonymous")

	type bad struct {
		X int `propsel:"get=everyone"`
	}
	_, err = SchemaFromGo("zoo", nil, bad{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.X")

	type badOpt struct {
		X int `propsel:"sealed"`
	}
	_, err = SchemaFromGo("zoo", nil, badOpt{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sealed")
}
