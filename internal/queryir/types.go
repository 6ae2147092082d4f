package queryir

import (
	"fmt"

	"github.com/roach88/propsel/internal/model"
)

// Filter is one per-member predicate of a Plan.
//
// This is a sealed interface; only types in this package implement it.
type Filter interface {
	filterNode()
	fmt.Stringer
}

// Visibility keeps members whose effective visibility is public or
// internal. Negated, it keeps protected and private members.
type Visibility struct {
	Negate bool
}

func (Visibility) filterNode() {}

func (f Visibility) String() string {
	return negated(f.Negate, "public_or_internal")
}

// ReturnType keeps members whose declared return type is exactly Type.
// No assignability is considered: a member returning a derived type does
// not match its base type.
type ReturnType struct {
	Type   model.TypeID
	Negate bool
}

func (ReturnType) filterNode() {}

func (f ReturnType) String() string {
	return negated(f.Negate, "of_type("+f.Type.String()+")")
}

// Decorated keeps members carrying an annotation of type Annotation.
//
// With Inherit false only the member's own declaration site is consulted.
// With Inherit true the override chain is walked toward the root
// declaration, but ancestors only count when the annotation type is
// inheritable.
type Decorated struct {
	Annotation model.TypeID
	Inherit    bool
	Negate     bool
}

func (Decorated) filterNode() {}

func (f Decorated) String() string {
	name := "decorated_with"
	if f.Inherit {
		name = "decorated_with_or_inherit"
	}
	return negated(f.Negate, name+"("+f.Annotation.String()+")")
}

// Modifier keeps members with every bit of Modifier set.
type Modifier struct {
	Modifier model.Modifiers
	Negate   bool
}

func (Modifier) filterNode() {}

func (f Modifier) String() string {
	return negated(f.Negate, f.Modifier.String())
}

func negated(negate bool, s string) string {
	if negate {
		return "not " + s
	}
	return s
}

// Plan is the deferred form of a selection: the collected candidate types in
// input order plus the filters to apply to their members.
type Plan struct {
	Types   []model.TypeID
	Filters []Filter
}
