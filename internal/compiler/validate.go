package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
)

// Validation error codes (E100-E199)
const (
	ErrInvalidName         = "E101" // name is not an identifier
	ErrInvalidVisibility   = "E102" // unknown accessor visibility
	ErrNoAccessor          = "E103" // property has neither get nor set
	ErrMissingType         = "E104" // empty property type reference
	ErrUnknownBase         = "E105" // base type not declared
	ErrBaseCycle           = "E106" // base chain loops back on itself
	ErrUnknownAnnotation   = "E107" // annotation type not declared
	ErrDuplicateName       = "E108" // type, annotation or property declared twice
	ErrConflictingModifier = "E109" // static combined with virtual or abstract
)

// ValidationError represents a model validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks spec against the model rules.
// Returns all errors found (does not fail-fast).
func Validate(spec *ModelSpec) []ValidationError {
	v := &validator{
		typePos: make(map[model.TypeID]fieldPos),
		propPos: make(map[model.MemberKey]fieldPos),
	}

	for _, mod := range spec.Modules {
		v.checkModule(mod)
	}

	// Structural checks run on the resolved schema so references are
	// interpreted exactly as Schema would.
	for _, problem := range introspect.Check(resolveSchema(spec)) {
		v.addSchemaError(problem)
	}

	return v.errs
}

type fieldPos struct {
	field string
	pos   token.Pos
}

type validator struct {
	errs    []ValidationError
	typePos map[model.TypeID]fieldPos
	propPos map[model.MemberKey]fieldPos
}

func (v *validator) add(code, field, message string, pos token.Pos) {
	e := ValidationError{Field: field, Message: message, Code: code}
	if pos.IsValid() {
		e.Line = pos.Line()
	}
	v.errs = append(v.errs, e)
}

// namePattern matches identifier names for types, properties and
// annotations.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// modulePattern matches dotted module names such as "acme.shop".
var modulePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

func (v *validator) checkModule(mod ModuleSpec) {
	modField := "module." + mod.Name
	if !modulePattern.MatchString(mod.Name) {
		v.add(ErrInvalidName, modField, fmt.Sprintf("invalid module name %q", mod.Name), mod.Pos)
	}

	for _, a := range mod.Annotations {
		field := modField + ".annotation." + a.Name
		if !namePattern.MatchString(a.Name) {
			v.add(ErrInvalidName, field, fmt.Sprintf("invalid annotation name %q", a.Name), a.Pos)
		}
	}

	for _, t := range mod.Types {
		typeField := modField + ".type." + t.Name
		id := model.NewTypeID(mod.Name, t.Name)
		v.typePos[id] = fieldPos{field: typeField, pos: t.Pos}

		if !namePattern.MatchString(t.Name) {
			v.add(ErrInvalidName, typeField, fmt.Sprintf("invalid type name %q", t.Name), t.Pos)
		}

		for _, p := range t.Properties {
			propField := typeField + ".property." + p.Name
			v.propPos[model.MemberKey{Type: id, Name: p.Name}] = fieldPos{field: propField, pos: p.Pos}
			v.checkProperty(propField, p)
		}
	}
}

func (v *validator) checkProperty(field string, p PropertySpec) {
	if !namePattern.MatchString(p.Name) {
		v.add(ErrInvalidName, field, fmt.Sprintf("invalid property name %q", p.Name), p.Pos)
	}

	if strings.TrimSpace(p.Type) == "" {
		v.add(ErrMissingType, field+".type", "type reference must be non-empty", p.Pos)
	}

	for _, accessor := range []struct{ name, value string }{{"get", p.Get}, {"set", p.Set}} {
		if _, err := model.ParseVisibility(accessor.value); err != nil {
			v.add(ErrInvalidVisibility, field+"."+accessor.name, err.Error(), p.Pos)
		}
	}

	if p.Get == "" && p.Set == "" {
		v.add(ErrNoAccessor, field, "property must declare get, set, or both", p.Pos)
	}

	if p.Static && (p.Virtual || p.Abstract) {
		v.add(ErrConflictingModifier, field, "static properties cannot be virtual or abstract", p.Pos)
	}
}

// addSchemaError maps a structural problem to a ValidationError with the
// position of the offending declaration.
func (v *validator) addSchemaError(e *introspect.SchemaError) {
	var code string
	switch e.Code {
	case introspect.ErrCodeUnknownBase:
		code = ErrUnknownBase
	case introspect.ErrCodeBaseCycle:
		code = ErrBaseCycle
	case introspect.ErrCodeUnknownAnnotation:
		code = ErrUnknownAnnotation
	case introspect.ErrCodeDuplicateType, introspect.ErrCodeDuplicateAnnotation, introspect.ErrCodeDuplicateProperty:
		code = ErrDuplicateName
	default:
		// NO_ACCESSOR is reported by checkProperty with the accessor names.
		return
	}

	loc, ok := v.propPos[model.MemberKey{Type: e.Type, Name: e.Property}]
	if e.Property == "" || !ok {
		loc, ok = v.typePos[e.Type]
	}
	if !ok {
		loc = fieldPos{field: e.Type.String()}
	}
	if e.Code == introspect.ErrCodeUnknownBase {
		loc.field += ".base"
	}

	v.add(code, loc.field, e.Message, loc.pos)
}
