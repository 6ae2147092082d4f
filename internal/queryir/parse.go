package queryir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/propsel/internal/model"
)

// filterExpr matches the rendering produced by Filter.String:
// an optional "not " prefix, a filter name and an optional "(ref)" argument.
var filterExpr = regexp.MustCompile(`^(not\s+)?([a-z_]+)(?:\(\s*([^()\s]+)\s*\))?$`)

// ParseFilter parses the textual form of a filter, as rendered by String.
//
//	public_or_internal
//	not of_type(int)
//	decorated_with_or_inherit(shop.Required)
//	not static
func ParseFilter(s string) (Filter, error) {
	m := filterExpr.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, fmt.Errorf("invalid filter %q", s)
	}
	negate := m[1] != ""
	name, arg := m[2], m[3]

	needsArg := name == "of_type" || name == "decorated_with" || name == "decorated_with_or_inherit"
	if needsArg && arg == "" {
		return nil, fmt.Errorf("filter %s requires a type argument", name)
	}
	if !needsArg && arg != "" {
		return nil, fmt.Errorf("filter %s takes no argument", name)
	}

	switch name {
	case "public_or_internal":
		return Visibility{Negate: negate}, nil
	case "of_type":
		return ReturnType{Type: model.ParseTypeID(arg), Negate: negate}, nil
	case "decorated_with":
		return Decorated{Annotation: model.ParseTypeID(arg), Negate: negate}, nil
	case "decorated_with_or_inherit":
		return Decorated{Annotation: model.ParseTypeID(arg), Inherit: true, Negate: negate}, nil
	case "static":
		return Modifier{Modifier: model.ModifierStatic, Negate: negate}, nil
	case "virtual":
		return Modifier{Modifier: model.ModifierVirtual, Negate: negate}, nil
	case "abstract":
		return Modifier{Modifier: model.ModifierAbstract, Negate: negate}, nil
	default:
		return nil, fmt.Errorf("unknown filter %q", name)
	}
}

// ParseFilters parses each expression in order.
func ParseFilters(exprs []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(exprs))
	for i, expr := range exprs {
		f, err := ParseFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}
