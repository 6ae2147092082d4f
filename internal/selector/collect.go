package selector

import (
	"fmt"

	"github.com/roach88/propsel/internal/model"
)

type sourceKind int

const (
	sourceType sourceKind = iota
	sourceTypes
	sourceModule
)

// Source is one input of the candidate collector: a single type, a list of
// types, or a module whose types are all scanned.
type Source struct {
	kind   sourceKind
	typ    *model.Type
	types  []*model.Type
	module *model.Module
}

// FromType selects the properties declared on t.
func FromType(t *model.Type) Source {
	return Source{kind: sourceType, typ: t}
}

// FromTypes selects the properties declared on every type in ts.
// A nil slice is invalid input; an empty non-nil slice selects nothing.
func FromTypes(ts []*model.Type) Source {
	return Source{kind: sourceTypes, types: ts}
}

// FromModule selects the properties declared on every type of m.
func FromModule(m *model.Module) Source {
	return Source{kind: sourceModule, module: m}
}

// Type starts a selection over the properties declared on t.
func (e *Engine) Type(t *model.Type) *Selector {
	return e.Select(FromType(t))
}

// Types starts a selection over the properties declared on ts.
func (e *Engine) Types(ts []*model.Type) *Selector {
	return e.Select(FromTypes(ts))
}

// Module starts a selection over every type declared in m.
func (e *Engine) Module(m *model.Module) *Selector {
	return e.Select(FromModule(m))
}

// Select starts a selection over several sources at once.
//
// Candidate types are deduplicated by identity across all sources: the first
// occurrence keeps its position and later ones are dropped.
func (e *Engine) Select(sources ...Source) *Selector {
	types, err := e.collect(sources)
	if err != nil {
		return &Selector{err: err}
	}

	members, err := e.enumerate(types)
	if err != nil {
		return &Selector{err: err}
	}

	return &Selector{
		engine:     e,
		types:      types,
		candidates: members,
		memo:       &evaluation{},
	}
}

// collect turns sources into an ordered, deduplicated list of types.
func (e *Engine) collect(sources []Source) ([]*model.Type, error) {
	seen := make(map[model.TypeID]bool)
	var types []*model.Type

	add := func(t *model.Type) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		types = append(types, t)
	}

	for _, src := range sources {
		switch src.kind {
		case sourceType:
			if src.typ == nil {
				return nil, NewInvalidInputError("type", "type is nil")
			}
			add(src.typ)
		case sourceTypes:
			if src.types == nil {
				return nil, NewInvalidInputError("types", "type list is nil")
			}
			for i, t := range src.types {
				if t == nil {
					return nil, NewInvalidInputError(fmt.Sprintf("types[%d]", i), "type is nil")
				}
			}
			for _, t := range src.types {
				add(t)
			}
		case sourceModule:
			if src.module == nil {
				return nil, NewInvalidInputError("module", "module is nil")
			}
			for _, t := range e.intro.ModuleTypes(src.module) {
				add(t)
			}
		}
	}

	return types, nil
}

// enumerate expands types into members, keeping type order then
// declaration order and dropping any repeated (type, name) identity.
func (e *Engine) enumerate(types []*model.Type) ([]*model.Member, error) {
	seen := make(map[model.MemberKey]bool)
	var members []*model.Member

	for _, t := range types {
		declared, err := e.enum.members(t)
		if err != nil {
			return nil, err
		}
		for _, m := range declared {
			if seen[m.Key()] {
				continue
			}
			seen[m.Key()] = true
			members = append(members, m)
		}
	}

	return members, nil
}
