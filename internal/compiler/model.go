package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// ModelSpec is a compiled but unresolved model.
type ModelSpec struct {
	Modules []ModuleSpec `json:"modules"`
}

// ModuleSpec declares the annotation types and types of one module.
type ModuleSpec struct {
	Name        string           `json:"name"`
	Annotations []AnnotationSpec `json:"annotations,omitempty"`
	Types       []TypeSpec       `json:"types,omitempty"`
	Pos         token.Pos        `json:"-"`
}

// AnnotationSpec declares an annotation type.
type AnnotationSpec struct {
	Name      string    `json:"name"`
	Inherited bool      `json:"inherited"`
	Pos       token.Pos `json:"-"`
}

// TypeSpec declares a type. Base is the reference as written, or empty.
type TypeSpec struct {
	Name       string         `json:"name"`
	Base       string         `json:"base,omitempty"`
	Properties []PropertySpec `json:"properties,omitempty"`
	Pos        token.Pos      `json:"-"`
}

// PropertySpec declares a property. Get and Set hold visibility names as
// written; empty means the accessor is absent.
type PropertySpec struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Get         string          `json:"get,omitempty"`
	Set         string          `json:"set,omitempty"`
	Static      bool            `json:"static,omitempty"`
	Virtual     bool            `json:"virtual,omitempty"`
	Abstract    bool            `json:"abstract,omitempty"`
	Annotations []AnnotationUse `json:"annotations,omitempty"`
	Pos         token.Pos       `json:"-"`
}

// AnnotationUse attaches an annotation to a property.
type AnnotationUse struct {
	Ref   string    `json:"type"`
	Value any       `json:"value,omitempty"`
	Pos   token.Pos `json:"-"`
}

// CompileModel parses the "module" field of v into a ModelSpec.
//
// The CUE value should be the root of a model, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`module: shop: { ... }`)
//	spec, err := CompileModel(v)
func CompileModel(v cue.Value) (*ModelSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	modulesVal := v.LookupPath(cue.ParsePath("module"))
	if !modulesVal.Exists() {
		return nil, &CompileError{
			Field:   "module",
			Message: "at least one module is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := modulesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ModelSpec{}
	for iter.Next() {
		mod, err := CompileModule(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		spec.Modules = append(spec.Modules, *mod)
	}

	if len(spec.Modules) == 0 {
		return nil, &CompileError{
			Field:   "module",
			Message: "at least one module is required",
			Pos:     modulesVal.Pos(),
		}
	}

	return spec, nil
}

// CompileModule parses one module struct.
func CompileModule(name string, v cue.Value) (*ModuleSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	mod := &ModuleSpec{Name: name, Pos: v.Pos()}

	var err error
	mod.Annotations, err = parseAnnotations(v)
	if err != nil {
		return nil, err
	}

	mod.Types, err = parseTypes(v)
	if err != nil {
		return nil, err
	}

	return mod, nil
}

// parseAnnotations extracts annotation definitions from a module.
func parseAnnotations(v cue.Value) ([]AnnotationSpec, error) {
	var annotations []AnnotationSpec

	annotationsVal := v.LookupPath(cue.ParsePath("annotation"))
	if !annotationsVal.Exists() {
		return annotations, nil
	}

	iter, err := annotationsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		a := AnnotationSpec{
			Name: iter.Selector().Unquoted(),
			Pos:  iter.Value().Pos(),
		}

		a.Inherited, err = optionalBool(iter.Value(), "inherited")
		if err != nil {
			return nil, err
		}

		annotations = append(annotations, a)
	}

	return annotations, nil
}

// parseTypes extracts type definitions from a module.
func parseTypes(v cue.Value) ([]TypeSpec, error) {
	var types []TypeSpec

	typesVal := v.LookupPath(cue.ParsePath("type"))
	if !typesVal.Exists() {
		return types, nil
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		typeVal := iter.Value()
		t := TypeSpec{
			Name: iter.Selector().Unquoted(),
			Pos:  typeVal.Pos(),
		}

		t.Base, err = optionalString(typeVal, "base")
		if err != nil {
			return nil, err
		}

		t.Properties, err = parseProperties(typeVal)
		if err != nil {
			return nil, err
		}

		types = append(types, t)
	}

	return types, nil
}

// parseProperties extracts property definitions from a type, in field
// order.
func parseProperties(v cue.Value) ([]PropertySpec, error) {
	var props []PropertySpec

	propsVal := v.LookupPath(cue.ParsePath("property"))
	if !propsVal.Exists() {
		return props, nil
	}

	iter, err := propsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		p, err := parseProperty(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}

	return props, nil
}

func parseProperty(name string, v cue.Value) (PropertySpec, error) {
	p := PropertySpec{Name: name, Pos: v.Pos()}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return p, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("property %q requires a type", name),
			Pos:     v.Pos(),
		}
	}
	ref, err := typeVal.String()
	if err != nil {
		return p, formatCUEError(err)
	}
	p.Type = ref

	if p.Get, err = optionalString(v, "get"); err != nil {
		return p, err
	}
	if p.Set, err = optionalString(v, "set"); err != nil {
		return p, err
	}
	if p.Static, err = optionalBool(v, "static"); err != nil {
		return p, err
	}
	if p.Virtual, err = optionalBool(v, "virtual"); err != nil {
		return p, err
	}
	if p.Abstract, err = optionalBool(v, "abstract"); err != nil {
		return p, err
	}

	p.Annotations, err = parseAnnotationUses(v)
	if err != nil {
		return p, err
	}

	return p, nil
}

// parseAnnotationUses parses a property's annotations list.
// Supports:
// - A reference string: "Required"
// - An object: { type: "Obsolete", value: "use Sku" }
func parseAnnotationUses(v cue.Value) ([]AnnotationUse, error) {
	var uses []AnnotationUse

	listVal := v.LookupPath(cue.ParsePath("annotations"))
	if !listVal.Exists() {
		return uses, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		use, err := parseAnnotationUse(iter.Value())
		if err != nil {
			return nil, err
		}
		uses = append(uses, use)
	}

	return uses, nil
}

func parseAnnotationUse(v cue.Value) (AnnotationUse, error) {
	use := AnnotationUse{Pos: v.Pos()}

	if ref, err := v.String(); err == nil {
		use.Ref = ref
		return use, nil
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return use, &CompileError{
			Field:   "annotations",
			Message: "must be a reference string or object with type field",
			Pos:     v.Pos(),
		}
	}
	ref, err := typeVal.String()
	if err != nil {
		return use, formatCUEError(err)
	}
	use.Ref = ref

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if valueVal.Exists() {
		use.Value, err = decodeValue(valueVal)
		if err != nil {
			return use, err
		}
	}

	return use, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// decodeValue converts an annotation payload into the value set accepted by
// model.MarshalCanonical. Floats and null are forbidden.
func decodeValue(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return n, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return b, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		list := []any{}
		for iter.Next() {
			elem, err := decodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		obj := map[string]any{}
		for iter.Next() {
			elem, err := decodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			obj[iter.Selector().Unquoted()] = elem
		}
		return obj, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "value",
			Message: "float values are forbidden in annotation payloads - use int or string instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
