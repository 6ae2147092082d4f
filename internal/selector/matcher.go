package selector

import (
	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/queryir"
)

// matches evaluates one filter against one member.
//
// Negated filters are the complement of the same predicate, so a filter and
// its negation partition any candidate set.
func (e *Engine) matches(f queryir.Filter, m *model.Member) bool {
	switch filter := f.(type) {
	case queryir.Visibility:
		return isPublicOrInternal(m) != filter.Negate
	case queryir.ReturnType:
		return (m.ReturnType == filter.Type) != filter.Negate
	case queryir.Decorated:
		var ok bool
		if filter.Inherit {
			ok = e.decoratedOrInherited(m, filter.Annotation)
		} else {
			ok = m.HasAnnotation(filter.Annotation)
		}
		return ok != filter.Negate
	case queryir.Modifier:
		return m.Modifiers.Has(filter.Modifier) != filter.Negate
	default:
		// Filter is sealed; no other implementations exist.
		return false
	}
}

func isPublicOrInternal(m *model.Member) bool {
	return m.Visibility == model.VisibilityPublic || m.Visibility == model.VisibilityInternal
}

// decoratedOrInherited walks m's override chain looking for annotation a.
//
// The starting member always counts. Ancestors count only when a's
// definition is inheritable; for non-inheritable annotations they are not
// visited at all. The walk stops at the first match or at the root
// declaration.
func (e *Engine) decoratedOrInherited(m *model.Member, a model.TypeID) bool {
	if m.HasAnnotation(a) {
		return true
	}
	if !e.intro.Inherited(a) {
		return false
	}
	for ancestor := m.Overrides; ancestor != nil; ancestor = ancestor.Overrides {
		if ancestor.HasAnnotation(a) {
			return true
		}
	}
	return false
}
