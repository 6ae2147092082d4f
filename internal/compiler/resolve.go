package compiler

import (
	"errors"
	"strings"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
)

// resolver maps references as written to identities.
type resolver struct {
	types       map[string]map[string]bool
	annotations map[string]map[string]bool
}

func newResolver(spec *ModelSpec) *resolver {
	r := &resolver{
		types:       make(map[string]map[string]bool),
		annotations: make(map[string]map[string]bool),
	}
	for _, mod := range spec.Modules {
		if r.types[mod.Name] == nil {
			r.types[mod.Name] = make(map[string]bool)
			r.annotations[mod.Name] = make(map[string]bool)
		}
		for _, t := range mod.Types {
			r.types[mod.Name][t.Name] = true
		}
		for _, a := range mod.Annotations {
			r.annotations[mod.Name][a.Name] = true
		}
	}
	return r
}

func (r *resolver) typeRef(module, ref string) model.TypeID {
	return resolveRef(r.types, module, ref)
}

func (r *resolver) annotationRef(module, ref string) model.TypeID {
	return resolveRef(r.annotations, module, ref)
}

func resolveRef(declared map[string]map[string]bool, module, ref string) model.TypeID {
	if strings.Contains(ref, ".") {
		return model.ParseTypeID(ref)
	}
	if declared[module][ref] {
		return model.NewTypeID(module, ref)
	}
	return model.Builtin(ref)
}

// Schema validates spec and resolves it into an introspection schema.
// Validation problems are returned joined into one error.
func Schema(spec *ModelSpec) (introspect.Schema, error) {
	if errs := Validate(spec); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return introspect.Schema{}, errors.Join(joined...)
	}
	return resolveSchema(spec), nil
}

// BuildRegistry validates, resolves and registers spec.
func BuildRegistry(spec *ModelSpec) (*introspect.Registry, error) {
	s, err := Schema(spec)
	if err != nil {
		return nil, err
	}
	return introspect.Build(s)
}

// resolveSchema converts spec without validating it. Unparseable
// visibilities become VisibilityNone.
func resolveSchema(spec *ModelSpec) introspect.Schema {
	r := newResolver(spec)
	var s introspect.Schema

	for _, mod := range spec.Modules {
		for _, a := range mod.Annotations {
			s.Annotations = append(s.Annotations, model.AnnotationType{
				ID:        model.NewTypeID(mod.Name, a.Name),
				Inherited: a.Inherited,
			})
		}

		for _, t := range mod.Types {
			td := introspect.TypeDef{ID: model.NewTypeID(mod.Name, t.Name)}
			if t.Base != "" {
				td.Base = r.typeRef(mod.Name, t.Base)
			}
			for _, p := range t.Properties {
				td.Properties = append(td.Properties, resolveProperty(r, mod.Name, p))
			}
			s.Types = append(s.Types, td)
		}
	}

	return s
}

func resolveProperty(r *resolver, module string, p PropertySpec) introspect.PropertyDef {
	getter, _ := model.ParseVisibility(p.Get)
	setter, _ := model.ParseVisibility(p.Set)

	pd := introspect.PropertyDef{
		Name:       p.Name,
		ReturnType: r.typeRef(module, p.Type),
		Getter:     getter,
		Setter:     setter,
	}
	if p.Static {
		pd.Modifiers |= model.ModifierStatic
	}
	if p.Virtual {
		pd.Modifiers |= model.ModifierVirtual
	}
	if p.Abstract {
		pd.Modifiers |= model.ModifierAbstract
	}
	for _, use := range p.Annotations {
		pd.Annotations = append(pd.Annotations, introspect.AnnotationRef{
			Type:  r.annotationRef(module, use.Ref),
			Value: use.Value,
		})
	}
	return pd
}
