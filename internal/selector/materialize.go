package selector

import (
	"iter"

	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/queryir"
)

// Err returns the sticky error of s, if any.
func (s *Selector) Err() error {
	if s == nil {
		return NewNullSelectorError("selector")
	}
	return s.err
}

// Members evaluates the plan and returns the selected members in candidate
// order. The returned slice is a fresh copy owned by the caller.
func (s *Selector) Members() ([]*model.Member, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	selected := s.evaluate()
	out := make([]*model.Member, len(selected))
	copy(out, selected)
	return out, nil
}

// All returns the selected members as a restartable sequence. The plan is
// evaluated once, on first iteration. A Selector with an error yields
// nothing; check Err.
func (s *Selector) All() iter.Seq[*model.Member] {
	return func(yield func(*model.Member) bool) {
		if s.Err() != nil {
			return
		}
		for _, m := range s.evaluate() {
			if !yield(m) {
				return
			}
		}
	}
}

// ReturnTypes projects the selection onto declared return types. Order and
// cardinality match Members; duplicates are kept.
func (s *Selector) ReturnTypes() ([]model.TypeID, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	selected := s.evaluate()
	out := make([]model.TypeID, len(selected))
	for i, m := range selected {
		out[i] = m.ReturnType
	}
	return out, nil
}

// Count returns the number of selected members.
func (s *Selector) Count() (int, error) {
	if err := s.Err(); err != nil {
		return 0, err
	}
	return len(s.evaluate()), nil
}

// Plan returns the deferred form of s: candidate type identities in
// collection order and the filters in call order.
func (s *Selector) Plan() (queryir.Plan, error) {
	if err := s.Err(); err != nil {
		return queryir.Plan{}, err
	}
	plan := queryir.Plan{
		Types:   make([]model.TypeID, len(s.types)),
		Filters: make([]queryir.Filter, len(s.filters)),
	}
	for i, t := range s.types {
		plan.Types[i] = t.ID
	}
	copy(plan.Filters, s.filters)
	return plan, nil
}

// evaluate applies every filter to every candidate, once per Selector.
func (s *Selector) evaluate() []*model.Member {
	s.memo.once.Do(func() {
		selected := make([]*model.Member, 0, len(s.candidates))
		for _, m := range s.candidates {
			if s.keep(m) {
				selected = append(selected, m)
			}
		}
		s.memo.members = selected

		s.engine.logger.Debug("selection evaluated",
			"types", len(s.types),
			"candidates", len(s.candidates),
			"filters", len(s.filters),
			"selected", len(selected),
		)
	})
	return s.memo.members
}

func (s *Selector) keep(m *model.Member) bool {
	for _, f := range s.filters {
		if !s.engine.matches(f, m) {
			return false
		}
	}
	return true
}

// Validate reports filters in the plan of s that contradict each other.
func (s *Selector) Validate() (queryir.ValidationResult, error) {
	if err := s.Err(); err != nil {
		return queryir.ValidationResult{}, err
	}
	return queryir.Validate(s.filters), nil
}
