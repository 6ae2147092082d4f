package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/queryir"
)

// memberColumns is the SELECT list of every compiled query, in the order
// store scans them.
const memberColumns = "m.id, m.type_module, m.type_name, m.name, m.seq, " +
	"m.return_module, m.return_name, m.visibility, m.modifiers"

// SQLCompiler compiles selection plans to parameterized SQL for SQLite.
//
// CRITICAL: ALL queries include ORDER BY for deterministic results.
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a plan to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(p queryir.Plan) (string, []any, error) {
	if len(p.Types) == 0 {
		// VALUES needs at least one row; an empty candidate list selects
		// nothing.
		return "SELECT " + memberColumns + " FROM members m WHERE 1 = 0 ORDER BY m.id ASC COLLATE BINARY", nil, nil
	}

	var params []any

	rows := make([]string, len(p.Types))
	for i, t := range p.Types {
		rows[i] = "(?, ?, ?)"
		params = append(params, t.Module, t.Name, i)
	}

	var where []string
	for i, f := range p.Filters {
		sql, fparams, err := c.compileFilter(f)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter %d: %w", i, err)
		}
		where = append(where, sql)
		params = append(params, fparams...)
	}

	var b strings.Builder
	b.WriteString("WITH candidates(type_module, type_name, ord) AS (VALUES ")
	b.WriteString(strings.Join(rows, ", "))
	b.WriteString(") SELECT ")
	b.WriteString(memberColumns)
	b.WriteString(" FROM members m JOIN candidates c" +
		" ON c.type_module = m.type_module AND c.type_name = m.type_name")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	// MANDATORY: Always add ORDER BY
	b.WriteString(" ORDER BY " + stableOrderKey())

	return b.String(), params, nil
}

// stableOrderKey returns the ORDER BY clause of every compiled query.
// COLLATE BINARY ensures deterministic text ordering across SQLite versions.
func stableOrderKey() string {
	return "c.ord ASC, m.seq ASC, m.id ASC COLLATE BINARY"
}

// compileFilter compiles one filter to a WHERE conjunct.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compileFilter(f queryir.Filter) (string, []any, error) {
	switch filter := f.(type) {
	case queryir.Visibility:
		return negate(filter.Negate, "m.visibility IN (?, ?)"),
			[]any{int(model.VisibilityPublic), int(model.VisibilityInternal)}, nil
	case queryir.ReturnType:
		return negate(filter.Negate, "m.return_module = ? AND m.return_name = ?"),
			[]any{filter.Type.Module, filter.Type.Name}, nil
	case queryir.Modifier:
		return negate(filter.Negate, "(m.modifiers & ?) = ?"),
			[]any{int(filter.Modifier), int(filter.Modifier)}, nil
	case queryir.Decorated:
		return c.compileDecorated(filter)
	case nil:
		return "", nil, fmt.Errorf("cannot compile nil filter")
	default:
		return "", nil, fmt.Errorf("unsupported filter type: %T", f)
	}
}

// ownAnnotation matches an annotation attached at the member's own site.
const ownAnnotation = "EXISTS (SELECT 1 FROM member_annotations a" +
	" WHERE a.member_id = m.id AND a.annotation_module = ? AND a.annotation_name = ?)"

// ancestorAnnotation matches an annotation on any overridden ancestor,
// provided the annotation's definition is inheritable.
const ancestorAnnotation = "(EXISTS (SELECT 1 FROM annotation_types t" +
	" WHERE t.module = ? AND t.name = ? AND t.inherited = 1)" +
	" AND EXISTS (SELECT 1 FROM member_chain ch" +
	" JOIN member_annotations a ON a.member_id = ch.ancestor_id" +
	" WHERE ch.member_id = m.id AND a.annotation_module = ? AND a.annotation_name = ?))"

func (c *SQLCompiler) compileDecorated(f queryir.Decorated) (string, []any, error) {
	mod, name := f.Annotation.Module, f.Annotation.Name

	if !f.Inherit {
		return negate(f.Negate, ownAnnotation), []any{mod, name}, nil
	}

	sql := ownAnnotation + " OR " + ancestorAnnotation
	return negate(f.Negate, sql), []any{mod, name, mod, name, mod, name}, nil
}

// negate wraps sql in parentheses, prefixed with NOT when negated.
func negate(negated bool, sql string) string {
	if negated {
		return "NOT (" + sql + ")"
	}
	return "(" + sql + ")"
}
