package selector

import (
	"sync"

	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/queryir"
)

// Selector is an immutable, chainable property query.
//
// It holds the collected candidate members and a deferred list of filters.
// Methods never modify the receiver; each returns a new Selector. Methods may
// be called on a nil *Selector, in which case the result carries a
// NULL_SELECTOR error.
type Selector struct {
	engine     *Engine
	types      []*model.Type
	candidates []*model.Member
	filters    []queryir.Filter
	err        error
	memo       *evaluation
}

// evaluation memoises the result of applying a Selector's filters.
type evaluation struct {
	once    sync.Once
	members []*model.Member
}

// with returns a copy of s with f appended to the plan.
func (s *Selector) with(f queryir.Filter) *Selector {
	if s == nil {
		return &Selector{err: NewNullSelectorError("selector")}
	}
	if s.err != nil {
		return s
	}

	filters := make([]queryir.Filter, len(s.filters), len(s.filters)+1)
	copy(filters, s.filters)
	filters = append(filters, f)

	return &Selector{
		engine:     s.engine,
		types:      s.types,
		candidates: s.candidates,
		filters:    filters,
		memo:       &evaluation{},
	}
}

// Where appends an arbitrary plan filter. The fluent methods below are
// shorthands for it.
func (s *Selector) Where(f queryir.Filter) *Selector {
	return s.with(f)
}

// ThatArePublicOrInternal keeps members whose effective visibility is public
// or internal.
func (s *Selector) ThatArePublicOrInternal() *Selector {
	return s.with(queryir.Visibility{})
}

// ThatAreNotPublicOrInternal keeps protected and private members.
func (s *Selector) ThatAreNotPublicOrInternal() *Selector {
	return s.with(queryir.Visibility{Negate: true})
}

// OfType keeps members whose return type is exactly t.
func (s *Selector) OfType(t model.TypeID) *Selector {
	return s.with(queryir.ReturnType{Type: t})
}

// NotOfType keeps members whose return type is anything but t.
func (s *Selector) NotOfType(t model.TypeID) *Selector {
	return s.with(queryir.ReturnType{Type: t, Negate: true})
}

// ThatAreDecoratedWith keeps members whose own declaration carries a.
func (s *Selector) ThatAreDecoratedWith(a model.TypeID) *Selector {
	return s.with(queryir.Decorated{Annotation: a})
}

// ThatAreNotDecoratedWith keeps members whose own declaration lacks a.
func (s *Selector) ThatAreNotDecoratedWith(a model.TypeID) *Selector {
	return s.with(queryir.Decorated{Annotation: a, Negate: true})
}

// ThatAreDecoratedWithOrInherit keeps members carrying a themselves or, when
// a is inheritable, on an overridden ancestor declaration.
func (s *Selector) ThatAreDecoratedWithOrInherit(a model.TypeID) *Selector {
	return s.with(queryir.Decorated{Annotation: a, Inherit: true})
}

// ThatAreNotDecoratedWithOrInherit is the complement of
// ThatAreDecoratedWithOrInherit.
func (s *Selector) ThatAreNotDecoratedWithOrInherit(a model.TypeID) *Selector {
	return s.with(queryir.Decorated{Annotation: a, Inherit: true, Negate: true})
}

func (s *Selector) ThatAreStatic() *Selector {
	return s.with(queryir.Modifier{Modifier: model.ModifierStatic})
}

func (s *Selector) ThatAreNotStatic() *Selector {
	return s.with(queryir.Modifier{Modifier: model.ModifierStatic, Negate: true})
}

func (s *Selector) ThatAreVirtual() *Selector {
	return s.with(queryir.Modifier{Modifier: model.ModifierVirtual})
}

func (s *Selector) ThatAreNotVirtual() *Selector {
	return s.with(queryir.Modifier{Modifier: model.ModifierVirtual, Negate: true})
}

func (s *Selector) ThatAreAbstract() *Selector {
	return s.with(queryir.Modifier{Modifier: model.ModifierAbstract})
}

func (s *Selector) ThatAreNotAbstract() *Selector {
	return s.with(queryir.Modifier{Modifier: model.ModifierAbstract, Negate: true})
}
