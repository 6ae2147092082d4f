// Package testutil provides shared fixtures for propsel tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
)

// FixtureModule is the module every fixture type is declared in.
const FixtureModule = "fixture"

var (
	String  = model.Builtin("string")
	Int     = model.Builtin("int")
	Decimal = model.Builtin("decimal")
)

// ID returns the fixture identity for name.
func ID(name string) model.TypeID {
	return model.NewTypeID(FixtureModule, name)
}

// OverrideSchema declares Base.Value annotated with Marker and Derived.Value
// overriding it without re-declaring Marker. inherited sets Marker's
// inheritance flag.
func OverrideSchema(inherited bool) introspect.Schema {
	return introspect.Schema{
		Annotations: []model.AnnotationType{
			{ID: ID("Marker"), Inherited: inherited},
		},
		Types: []introspect.TypeDef{
			{
				ID: ID("Base"),
				Properties: []introspect.PropertyDef{
					{
						Name:        "Value",
						ReturnType:  String,
						Getter:      model.VisibilityPublic,
						Modifiers:   model.ModifierVirtual,
						Annotations: []introspect.AnnotationRef{{Type: ID("Marker")}},
					},
				},
			},
			{
				ID:   ID("Derived"),
				Base: ID("Base"),
				Properties: []introspect.PropertyDef{
					{Name: "Value", ReturnType: String, Getter: model.VisibilityPublic, Modifiers: model.ModifierVirtual},
				},
			},
		},
	}
}

// SixPropertySchema declares Widget with two string and four int
// properties across every visibility.
func SixPropertySchema() introspect.Schema {
	return introspect.Schema{
		Types: []introspect.TypeDef{
			{
				ID: ID("Widget"),
				Properties: []introspect.PropertyDef{
					{Name: "Name", ReturnType: String, Getter: model.VisibilityPublic, Setter: model.VisibilityPublic},
					{Name: "Count", ReturnType: Int, Getter: model.VisibilityPublic, Setter: model.VisibilityPrivate},
					{Name: "Label", ReturnType: String, Getter: model.VisibilityProtected},
					{Name: "Size", ReturnType: Int, Getter: model.VisibilityInternal},
					{Name: "Depth", ReturnType: Int, Getter: model.VisibilityPrivate, Setter: model.VisibilityProtected},
					{Name: "Weight", ReturnType: Int, Setter: model.VisibilityPrivate},
				},
			},
		},
	}
}

// ShopSchema declares a three-level hierarchy mixing every filter
// dimension: Entity → Product → Book, plus an unrelated Order type.
//
// Required is inheritable; Obsolete is not.
func ShopSchema() introspect.Schema {
	required := []introspect.AnnotationRef{{Type: ID("Required")}}
	obsolete := []introspect.AnnotationRef{{Type: ID("Obsolete"), Value: "use Sku"}}

	return introspect.Schema{
		Annotations: []model.AnnotationType{
			{ID: ID("Required"), Inherited: true},
			{ID: ID("Obsolete"), Inherited: false},
		},
		Types: []introspect.TypeDef{
			{
				ID: ID("Entity"),
				Properties: []introspect.PropertyDef{
					{Name: "ID", ReturnType: Int, Getter: model.VisibilityPublic, Modifiers: model.ModifierVirtual, Annotations: required},
					{Name: "Code", ReturnType: String, Getter: model.VisibilityProtected, Modifiers: model.ModifierVirtual, Annotations: obsolete},
					{Name: "Kind", ReturnType: String, Getter: model.VisibilityPublic, Modifiers: model.ModifierAbstract | model.ModifierVirtual},
				},
			},
			{
				ID:   ID("Product"),
				Base: ID("Entity"),
				Properties: []introspect.PropertyDef{
					{Name: "ID", ReturnType: Int, Getter: model.VisibilityPublic, Modifiers: model.ModifierVirtual},
					{Name: "Code", ReturnType: String, Getter: model.VisibilityProtected, Modifiers: model.ModifierVirtual},
					{Name: "Kind", ReturnType: String, Getter: model.VisibilityPublic, Modifiers: model.ModifierVirtual},
					{Name: "Name", ReturnType: String, Getter: model.VisibilityPublic, Setter: model.VisibilityInternal, Annotations: required},
					{Name: "Price", ReturnType: Decimal, Getter: model.VisibilityInternal},
					{Name: "Registry", ReturnType: String, Getter: model.VisibilityPublic, Modifiers: model.ModifierStatic},
				},
			},
			{
				ID:   ID("Book"),
				Base: ID("Product"),
				Properties: []introspect.PropertyDef{
					{Name: "ID", ReturnType: Int, Getter: model.VisibilityPublic},
					{Name: "Code", ReturnType: String, Getter: model.VisibilityPublic, Annotations: obsolete},
					{Name: "Isbn", ReturnType: String, Getter: model.VisibilityPublic, Setter: model.VisibilityPrivate},
					{Name: "Pages", ReturnType: Int, Getter: model.VisibilityPrivate},
				},
			},
			{
				ID: ID("Order"),
				Properties: []introspect.PropertyDef{
					{Name: "Total", ReturnType: Decimal, Getter: model.VisibilityPublic, Annotations: required},
					{Name: "Product", ReturnType: ID("Product"), Getter: model.VisibilityPublic},
				},
			},
		},
	}
}

// MustBuild builds s or fails the test.
func MustBuild(t testing.TB, s introspect.Schema) *introspect.Registry {
	t.Helper()
	reg, err := introspect.Build(s)
	require.NoError(t, err)
	return reg
}

// MustType looks up a fixture type by name or fails the test.
func MustType(t testing.TB, reg *introspect.Registry, name string) *model.Type {
	t.Helper()
	typ, ok := reg.Type(ID(name))
	require.True(t, ok, "fixture type %s not registered", name)
	return typ
}

// Names renders members as "Type.Name" for compact assertions.
func Names(members []*model.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Declaring.ID.Name + "." + m.Name
	}
	return out
}
