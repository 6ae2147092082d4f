package queryir

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult contains the satisfiability analysis of a filter list.
type ValidationResult struct {
	// Satisfiable is false when some pair of filters can never hold for the
	// same member, so every evaluation yields an empty selection.
	Satisfiable bool

	// Warnings describes each contradiction found.
	Warnings []string
}

// Validate looks for filters that contradict each other.
//
// Contradictions are warnings, not errors: an empty selection is a valid
// result. Detected pairs:
//  1. A return type both required and excluded
//  2. Two different required return types
//  3. An annotation both required and excluded in the same mode, or
//     required on the member itself but excluded with inheritance
//  4. Visibility or a modifier both required and excluded
//
// Validate is a pure function with no side effects.
func Validate(filters []Filter) ValidationResult {
	v := &validator{}
	for _, f := range filters {
		v.add(f)
	}
	v.check()

	return ValidationResult{
		Satisfiable: len(v.warnings) == 0,
		Warnings:    v.warnings,
	}
}

type decoratedKey struct {
	annotation string
	inherit    bool
}

// validator accumulates the positive and negative sides of each filter kind.
type validator struct {
	warnings []string

	requiredTypes []string
	excludedTypes map[string]bool

	visibility map[bool]bool
	modifiers  map[string]map[bool]bool
	decorated  map[decoratedKey]map[bool]bool
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) add(f Filter) {
	switch filter := f.(type) {
	case Visibility:
		if v.visibility == nil {
			v.visibility = make(map[bool]bool)
		}
		v.visibility[filter.Negate] = true
	case ReturnType:
		name := filter.Type.String()
		if filter.Negate {
			if v.excludedTypes == nil {
				v.excludedTypes = make(map[string]bool)
			}
			v.excludedTypes[name] = true
		} else {
			v.requiredTypes = append(v.requiredTypes, name)
		}
	case Decorated:
		key := decoratedKey{annotation: filter.Annotation.String(), inherit: filter.Inherit}
		if v.decorated == nil {
			v.decorated = make(map[decoratedKey]map[bool]bool)
		}
		if v.decorated[key] == nil {
			v.decorated[key] = make(map[bool]bool)
		}
		v.decorated[key][filter.Negate] = true
	case Modifier:
		name := filter.Modifier.String()
		if v.modifiers == nil {
			v.modifiers = make(map[string]map[bool]bool)
		}
		if v.modifiers[name] == nil {
			v.modifiers[name] = make(map[bool]bool)
		}
		v.modifiers[name][filter.Negate] = true
	default:
		v.addWarning("unknown filter type: %T - satisfiability cannot be verified", f)
	}
}

func (v *validator) check() {
	if v.visibility[false] && v.visibility[true] {
		v.addWarning("public_or_internal is both required and excluded")
	}

	seen := make(map[string]bool)
	var distinct []string
	for _, name := range v.requiredTypes {
		if v.excludedTypes[name] {
			v.addWarning("return type %s is both required and excluded", name)
		}
		if !seen[name] {
			seen[name] = true
			distinct = append(distinct, name)
		}
	}
	if len(distinct) > 1 {
		v.addWarning("conflicting required return types: %s", strings.Join(distinct, ", "))
	}

	for _, name := range sortedKeys(v.modifiers) {
		if v.modifiers[name][false] && v.modifiers[name][true] {
			v.addWarning("modifier %s is both required and excluded", name)
		}
	}

	for _, key := range sortedDecoratedKeys(v.decorated) {
		sides := v.decorated[key]
		if sides[false] && sides[true] {
			mode := "decorated_with"
			if key.inherit {
				mode = "decorated_with_or_inherit"
			}
			v.addWarning("%s(%s) is both required and excluded", mode, key.annotation)
		}
		// An own-site match implies a match with inheritance.
		if !key.inherit && sides[false] {
			inherited := v.decorated[decoratedKey{annotation: key.annotation, inherit: true}]
			if inherited[true] {
				v.addWarning("decorated_with(%s) contradicts not decorated_with_or_inherit(%s)", key.annotation, key.annotation)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDecoratedKeys(m map[decoratedKey]map[bool]bool) []decoratedKey {
	keys := make([]decoratedKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].annotation != keys[j].annotation {
			return keys[i].annotation < keys[j].annotation
		}
		return !keys[i].inherit && keys[j].inherit
	})
	return keys
}
