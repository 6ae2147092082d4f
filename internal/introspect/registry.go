package introspect

import (
	"errors"

	"github.com/roach88/propsel/internal/model"
)

// Registry is an immutable registration table of types and annotation
// definitions. It implements Introspector.
type Registry struct {
	schema      Schema
	types       map[model.TypeID]*model.Type
	order       []*model.Type
	modules     []*model.Module
	byModule    map[string][]*model.Type
	annotations map[model.TypeID]model.AnnotationType
}

var _ Introspector = (*Registry)(nil)

// Build validates s and resolves it into a Registry.
//
// All problems reported by Check are returned joined into one error.
// Annotation instances receive the inheritance flag of their definition.
func Build(s Schema) (*Registry, error) {
	if problems := Check(s); len(problems) > 0 {
		errs := make([]error, len(problems))
		for i, p := range problems {
			errs[i] = p
		}
		return nil, errors.Join(errs...)
	}

	r := &Registry{
		schema:      s,
		types:       make(map[model.TypeID]*model.Type, len(s.Types)),
		byModule:    make(map[string][]*model.Type),
		annotations: make(map[model.TypeID]model.AnnotationType, len(s.Annotations)),
	}
	for _, a := range s.Annotations {
		r.annotations[a.ID] = a
	}

	// First pass allocates every descriptor so bases can be linked in any
	// declaration order.
	for _, td := range s.Types {
		t := &model.Type{ID: td.ID}
		r.types[td.ID] = t
		r.order = append(r.order, t)

		if _, seen := r.byModule[td.ID.Module]; !seen {
			r.modules = append(r.modules, &model.Module{Name: td.ID.Module})
		}
		r.byModule[td.ID.Module] = append(r.byModule[td.ID.Module], t)
	}

	for _, td := range s.Types {
		t := r.types[td.ID]
		if !td.Base.IsZero() {
			t.Base = r.types[td.Base]
		}
		t.Properties = make([]model.Property, len(td.Properties))
		for i, pd := range td.Properties {
			t.Properties[i] = r.resolveProperty(pd)
		}
	}

	return r, nil
}

func (r *Registry) resolveProperty(pd PropertyDef) model.Property {
	p := model.Property{
		Name:       pd.Name,
		ReturnType: pd.ReturnType,
		Getter:     pd.Getter,
		Setter:     pd.Setter,
		Modifiers:  pd.Modifiers,
	}
	if len(pd.Annotations) > 0 {
		p.Annotations = make([]model.Annotation, len(pd.Annotations))
		for i, ref := range pd.Annotations {
			p.Annotations[i] = model.Annotation{
				Type:      ref.Type,
				Inherited: r.annotations[ref.Type].Inherited,
				Value:     ref.Value,
			}
		}
	}
	return p
}

// DeclaredProperties implements Introspector.
func (r *Registry) DeclaredProperties(t *model.Type) []model.Property {
	if t == nil {
		return nil
	}
	return t.Properties
}

// BaseType implements Introspector.
func (r *Registry) BaseType(t *model.Type) *model.Type {
	if t == nil {
		return nil
	}
	return t.Base
}

// ExplicitAnnotations implements Introspector.
func (r *Registry) ExplicitAnnotations(_ *model.Type, p model.Property) []model.Annotation {
	return p.Annotations
}

// Inherited implements Introspector.
func (r *Registry) Inherited(annotation model.TypeID) bool {
	return r.annotations[annotation].Inherited
}

// ModuleTypes implements Introspector.
func (r *Registry) ModuleTypes(m *model.Module) []*model.Type {
	if m == nil {
		return nil
	}
	return r.byModule[m.Name]
}

// Type returns the descriptor registered under id.
func (r *Registry) Type(id model.TypeID) (*model.Type, bool) {
	t, ok := r.types[id]
	return t, ok
}

// Lookup resolves a "module.Name" reference to a registered type.
func (r *Registry) Lookup(ref string) (*model.Type, bool) {
	return r.Type(model.ParseTypeID(ref))
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []*model.Type {
	return r.order
}

// Module returns the module with the given name, if any type declares it.
func (r *Registry) Module(name string) (*model.Module, bool) {
	for _, m := range r.modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Modules returns every module in first-registration order.
func (r *Registry) Modules() []*model.Module {
	return r.modules
}

// AnnotationType returns the definition registered under id.
func (r *Registry) AnnotationType(id model.TypeID) (model.AnnotationType, bool) {
	a, ok := r.annotations[id]
	return a, ok
}

// Schema returns the schema r was built from.
func (r *Registry) Schema() Schema {
	return r.schema
}
