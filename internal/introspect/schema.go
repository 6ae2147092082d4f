package introspect

import (
	"fmt"

	"github.com/roach88/propsel/internal/model"
)

// Schema is the unresolved form of a type model.
type Schema struct {
	Annotations []model.AnnotationType `json:"annotations"`
	Types       []TypeDef              `json:"types"`
}

// TypeDef declares a type. Base is the zero TypeID for root types.
type TypeDef struct {
	ID         model.TypeID  `json:"id"`
	Base       model.TypeID  `json:"base"`
	Properties []PropertyDef `json:"properties"`
}

// PropertyDef declares a property on a TypeDef.
type PropertyDef struct {
	Name        string           `json:"name"`
	ReturnType  model.TypeID     `json:"return_type"`
	Getter      model.Visibility `json:"getter"`
	Setter      model.Visibility `json:"setter"`
	Modifiers   model.Modifiers  `json:"modifiers,omitempty"`
	Annotations []AnnotationRef  `json:"annotations,omitempty"`
}

// AnnotationRef attaches an annotation instance to a PropertyDef.
type AnnotationRef struct {
	Type  model.TypeID `json:"type"`
	Value any          `json:"value,omitempty"`
}

// SchemaErrorCode categorizes schema problems.
type SchemaErrorCode string

const (
	ErrCodeDuplicateType       SchemaErrorCode = "DUPLICATE_TYPE"
	ErrCodeDuplicateAnnotation SchemaErrorCode = "DUPLICATE_ANNOTATION"
	ErrCodeDuplicateProperty   SchemaErrorCode = "DUPLICATE_PROPERTY"
	ErrCodeUnknownBase         SchemaErrorCode = "UNKNOWN_BASE"
	ErrCodeBaseCycle           SchemaErrorCode = "BASE_CYCLE"
	ErrCodeUnknownAnnotation   SchemaErrorCode = "UNKNOWN_ANNOTATION"
	ErrCodeNoAccessor          SchemaErrorCode = "NO_ACCESSOR"
)

// SchemaError describes one problem found by Check.
type SchemaError struct {
	Code     SchemaErrorCode
	Type     model.TypeID
	Property string // empty for type-level problems
	Message  string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s: %s.%s: %s", e.Code, e.Type, e.Property, e.Message)
	}
	if !e.Type.IsZero() {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Check validates s and returns every problem found, in schema order.
// An empty result means Build will succeed.
func Check(s Schema) []*SchemaError {
	var errs []*SchemaError

	annotations := make(map[model.TypeID]bool, len(s.Annotations))
	for _, a := range s.Annotations {
		if annotations[a.ID] {
			errs = append(errs, &SchemaError{
				Code:    ErrCodeDuplicateAnnotation,
				Type:    a.ID,
				Message: "annotation type declared more than once",
			})
			continue
		}
		annotations[a.ID] = true
	}

	types := make(map[model.TypeID]bool, len(s.Types))
	for _, td := range s.Types {
		if types[td.ID] {
			errs = append(errs, &SchemaError{
				Code:    ErrCodeDuplicateType,
				Type:    td.ID,
				Message: "type declared more than once",
			})
			continue
		}
		types[td.ID] = true
	}

	for _, td := range s.Types {
		if !td.Base.IsZero() && !types[td.Base] {
			errs = append(errs, &SchemaError{
				Code:    ErrCodeUnknownBase,
				Type:    td.ID,
				Message: fmt.Sprintf("base type %s is not declared", td.Base),
			})
		}

		seen := make(map[string]bool, len(td.Properties))
		for _, pd := range td.Properties {
			if seen[pd.Name] {
				errs = append(errs, &SchemaError{
					Code:     ErrCodeDuplicateProperty,
					Type:     td.ID,
					Property: pd.Name,
					Message:  "property declared more than once",
				})
				continue
			}
			seen[pd.Name] = true

			if pd.Getter == model.VisibilityNone && pd.Setter == model.VisibilityNone {
				errs = append(errs, &SchemaError{
					Code:     ErrCodeNoAccessor,
					Type:     td.ID,
					Property: pd.Name,
					Message:  "property has neither getter nor setter",
				})
			}

			for _, ref := range pd.Annotations {
				if !annotations[ref.Type] {
					errs = append(errs, &SchemaError{
						Code:     ErrCodeUnknownAnnotation,
						Type:     td.ID,
						Property: pd.Name,
						Message:  fmt.Sprintf("annotation type %s is not declared", ref.Type),
					})
				}
			}
		}
	}

	for _, cycle := range baseCycles(s.Types) {
		errs = append(errs, &SchemaError{
			Code:    ErrCodeBaseCycle,
			Type:    cycle[0],
			Message: fmt.Sprintf("base chain is cyclic: %s", formatPath(cycle)),
		})
	}

	return errs
}
