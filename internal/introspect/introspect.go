package introspect

import "github.com/roach88/propsel/internal/model"

// Introspector enumerates declared members, base types and annotation
// metadata for the selector.
//
// Implementations must return declared-only members in declaration order and
// explicit-only annotations per site.
type Introspector interface {
	// DeclaredProperties returns the properties declared directly on t.
	DeclaredProperties(t *model.Type) []model.Property

	// BaseType returns t's base type, or nil for a root type.
	BaseType(t *model.Type) *model.Type

	// ExplicitAnnotations returns the annotations attached at p's own
	// declaration site on t.
	ExplicitAnnotations(t *model.Type, p model.Property) []model.Annotation

	// Inherited reports the inheritance flag of an annotation type.
	// Unknown annotation types are not inherited.
	Inherited(annotation model.TypeID) bool

	// ModuleTypes returns every type declared in m, in registration order.
	ModuleTypes(m *model.Module) []*model.Type
}
