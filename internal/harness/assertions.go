package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/propsel/internal/store"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Query    string // Query name, empty for scenario-level checks
	Field    string // Expectation that failed
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	if e.Query != "" {
		fmt.Fprintf(&buf, "Assertion failed: %s (query %s)\n", e.Field, e.Query)
	} else {
		fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Field)
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)

	return buf.String()
}

// checkQuery compares an observed query result against its expectations.
// The SQL backend must always agree with the engine.
func checkQuery(q Query, qr QueryResult) []error {
	exp := q.Expect
	fail := func(field, expected, actual string) error {
		return &AssertionError{Query: q.Name, Field: field, Expected: expected, Actual: actual}
	}

	if exp.Error != "" {
		if qr.Error != exp.Error {
			return []error{fail("error", exp.Error, orNone(qr.Error))}
		}
		return nil
	}
	if qr.Error != "" {
		return []error{fail("error", "no error", qr.Error)}
	}

	var errs []error

	if exp.Members != nil && !slices.Equal(exp.Members, qr.Members) {
		errs = append(errs, fail("members", formatList(exp.Members), formatList(qr.Members)))
	}

	if exp.Count != nil && *exp.Count != len(qr.Members) {
		errs = append(errs, fail("count", fmt.Sprint(*exp.Count), fmt.Sprint(len(qr.Members))))
	}

	if exp.ReturnTypes != nil && !slices.Equal(exp.ReturnTypes, qr.ReturnTypes) {
		errs = append(errs, fail("return_types", formatList(exp.ReturnTypes), formatList(qr.ReturnTypes)))
	}

	if exp.Unsatisfiable && len(qr.Warnings) == 0 {
		errs = append(errs, fail("unsatisfiable", "satisfiability warnings", "none"))
	}

	if !slices.Equal(qr.Members, qr.SQLMembers) {
		errs = append(errs, fail("sql", formatList(qr.Members), formatList(qr.SQLMembers)))
	}

	return errs
}

// checkCatalog compares catalog row counts against expectations.
func checkCatalog(exp *CatalogExpect, stats store.Stats) []error {
	if exp == nil {
		return nil
	}

	checks := []struct {
		field  string
		want   *int
		actual int
	}{
		{"catalog.annotation_types", exp.AnnotationTypes, stats.AnnotationTypes},
		{"catalog.types", exp.Types, stats.Types},
		{"catalog.members", exp.Members, stats.Members},
		{"catalog.annotations", exp.Annotations, stats.Annotations},
	}

	var errs []error
	for _, c := range checks {
		if c.want != nil && *c.want != c.actual {
			errs = append(errs, &AssertionError{
				Field:    c.field,
				Expected: fmt.Sprint(*c.want),
				Actual:   fmt.Sprint(c.actual),
			})
		}
	}
	return errs
}

func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
