package introspect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/propsel/internal/model"
)

// Struct tags read by SchemaFromGo.
//
//	propsel:"-"                           skip the field
//	propsel:"get=public,set=private"      accessor visibility
//	propsel:"virtual,abstract,static"     modifiers
//	annotate:"Required,other.Marker"      annotations at this field
const (
	TagProperty   = "propsel"
	TagAnnotation = "annotate"
)

// SchemaFromGo builds a Schema from Go struct types.
//
// Each sample (a struct value or pointer to one) becomes a type in module.
// The first embedded struct field whose type is also a sample is the base
// type; any other embedded fields are ignored. Every remaining field is a
// property in field order. Exported fields default to public accessors and
// unexported fields to private ones; a field redeclaring a name from the
// embedded base overrides it, mirroring Go's field shadowing.
//
// Return types of sample structs resolve into module; other named types keep
// their package-qualified name and unnamed types use their Go spelling.
func SchemaFromGo(module string, annotations []model.AnnotationType, samples ...any) (Schema, error) {
	s := Schema{Annotations: annotations}

	local := make(map[reflect.Type]model.TypeID, len(samples))
	structs := make([]reflect.Type, 0, len(samples))
	for i, sample := range samples {
		rt := reflect.TypeOf(sample)
		for rt != nil && rt.Kind() == reflect.Pointer {
			rt = rt.Elem()
		}
		if rt == nil || rt.Kind() != reflect.Struct {
			return Schema{}, fmt.Errorf("sample %d: %T is not a struct", i, sample)
		}
		if rt.Name() == "" {
			return Schema{}, fmt.Errorf("sample %d: anonymous struct types cannot be registered", i)
		}
		if _, dup := local[rt]; dup {
			continue
		}
		local[rt] = model.NewTypeID(module, rt.Name())
		structs = append(structs, rt)
	}

	known := make(map[string]bool, len(annotations))
	for _, a := range annotations {
		known[a.ID.String()] = true
	}

	for _, rt := range structs {
		td := TypeDef{ID: local[rt]}
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if f.Anonymous {
				if base, ok := local[derefStruct(f.Type)]; ok && td.Base.IsZero() {
					td.Base = base
				}
				continue
			}
			if f.Tag.Get(TagProperty) == "-" {
				continue
			}
			pd, err := propertyFromField(f, local, func(ref string) model.TypeID {
				return resolveAnnotationRef(module, ref, known)
			})
			if err != nil {
				return Schema{}, fmt.Errorf("%s.%s: %w", rt.Name(), f.Name, err)
			}
			td.Properties = append(td.Properties, pd)
		}
		s.Types = append(s.Types, td)
	}

	return s, nil
}

func derefStruct(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func propertyFromField(f reflect.StructField, local map[reflect.Type]model.TypeID, resolve func(string) model.TypeID) (PropertyDef, error) {
	pd := PropertyDef{
		Name:       f.Name,
		ReturnType: goTypeID(f.Type, local),
		Getter:     model.VisibilityPrivate,
		Setter:     model.VisibilityPrivate,
	}
	if f.IsExported() {
		pd.Getter = model.VisibilityPublic
		pd.Setter = model.VisibilityPublic
	}

	if tag := f.Tag.Get(TagProperty); tag != "" {
		for _, opt := range strings.Split(tag, ",") {
			key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
			switch key {
			case "get", "set":
				v, err := model.ParseVisibility(value)
				if err != nil {
					return PropertyDef{}, err
				}
				if key == "get" {
					pd.Getter = v
				} else {
					pd.Setter = v
				}
			case "static":
				pd.Modifiers |= model.ModifierStatic
			case "virtual":
				pd.Modifiers |= model.ModifierVirtual
			case "abstract":
				pd.Modifiers |= model.ModifierAbstract
			case "":
			default:
				return PropertyDef{}, fmt.Errorf("unknown %s tag option %q", TagProperty, key)
			}
		}
	}

	if tag := f.Tag.Get(TagAnnotation); tag != "" {
		for _, ref := range strings.Split(tag, ",") {
			ref = strings.TrimSpace(ref)
			if ref == "" {
				continue
			}
			pd.Annotations = append(pd.Annotations, AnnotationRef{Type: resolve(ref)})
		}
	}

	return pd, nil
}

// goTypeID maps a Go field type to a TypeID.
func goTypeID(t reflect.Type, local map[reflect.Type]model.TypeID) model.TypeID {
	if id, ok := local[t]; ok {
		return id
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return model.ParseTypeID(t.String())
	}
	return model.Builtin(t.String())
}

// resolveAnnotationRef prefers an annotation declared in module over a
// module-less identity of the same name.
func resolveAnnotationRef(module, ref string, known map[string]bool) model.TypeID {
	if !strings.Contains(ref, ".") {
		local := model.NewTypeID(module, ref)
		if known[local.String()] {
			return local
		}
		return model.Builtin(ref)
	}
	return model.ParseTypeID(ref)
}
