package selector

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
)

// enumerator expands types into member descriptors.
//
// Members are cached per type so an override link always points at the
// member built for the ancestor, and every selection over the same type
// reuses the same descriptors.
type enumerator struct {
	intro introspect.Introspector
	cache *lru.Cache[model.TypeID, []*model.Member]
}

func newEnumerator(intro introspect.Introspector, size int) *enumerator {
	// lru.New only fails for non-positive sizes, which New rules out.
	cache, _ := lru.New[model.TypeID, []*model.Member](size)
	return &enumerator{intro: intro, cache: cache}
}

// members returns one Member per property declared on t, in declaration
// order.
func (e *enumerator) members(t *model.Type) ([]*model.Member, error) {
	return e.build(t, make(map[model.TypeID]bool))
}

func (e *enumerator) build(t *model.Type, inProgress map[model.TypeID]bool) ([]*model.Member, error) {
	if cached, ok := e.cache.Get(t.ID); ok {
		return cached, nil
	}
	if inProgress[t.ID] {
		return nil, cycleError(t)
	}
	inProgress[t.ID] = true
	defer delete(inProgress, t.ID)

	props := e.intro.DeclaredProperties(t)
	members := make([]*model.Member, 0, len(props))
	for _, p := range props {
		m := &model.Member{
			Declaring:   t,
			Name:        p.Name,
			ReturnType:  p.ReturnType,
			Visibility:  p.Visibility(),
			Modifiers:   p.Modifiers,
			Annotations: e.intro.ExplicitAnnotations(t, p),
		}

		overridden, err := e.overridden(t, p.Name, inProgress)
		if err != nil {
			return nil, err
		}
		m.Overrides = overridden

		members = append(members, m)
	}

	e.cache.Add(t.ID, members)
	return members, nil
}

// overridden finds the member named name on the nearest ancestor of t that
// declares it.
func (e *enumerator) overridden(t *model.Type, name string, inProgress map[model.TypeID]bool) (*model.Member, error) {
	visited := map[model.TypeID]bool{t.ID: true}

	for base := e.intro.BaseType(t); base != nil; base = e.intro.BaseType(base) {
		if visited[base.ID] {
			return nil, cycleError(t)
		}
		visited[base.ID] = true

		if !declares(e.intro.DeclaredProperties(base), name) {
			continue
		}

		ancestors, err := e.build(base, inProgress)
		if err != nil {
			return nil, err
		}
		for _, m := range ancestors {
			if m.Name == name {
				return m, nil
			}
		}
	}

	return nil, nil
}

func declares(props []model.Property, name string) bool {
	for _, p := range props {
		if p.Name == name {
			return true
		}
	}
	return false
}

func cycleError(t *model.Type) *Error {
	return NewInvalidInputError("base", fmt.Sprintf("base chain of %s is cyclic", t.ID))
}
