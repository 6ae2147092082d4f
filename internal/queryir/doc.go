// Package queryir provides the filter intermediate representation (IR) behind
// a selector query.
//
// A Selector does not filter eagerly. Each fluent call appends one Filter to
// a deferred Plan, and the plan is evaluated only when the selection is
// materialized. The same Plan is the contract for every evaluation backend:
//
//	[fluent Selector] → [Plan] → [in-memory evaluator]  (internal/selector)
//	                           → [SQL backend]          (internal/querysql)
//
// FILTER SEMANTICS:
//
// Every Filter is a pure predicate over a single member. It never looks at
// other members of the candidate set, so a Plan's result is independent of
// filter order: filters commute, and applying them only removes members,
// never reorders or duplicates them.
//
// SEALED INTERFACES:
//
// Filter is a sealed interface using the marker method pattern. Only types
// in this package implement it, which lets backends switch exhaustively:
//
//	switch f := filter.(type) {
//	case Visibility:
//	case ReturnType:
//	case Decorated:
//	case Modifier:
//	}
//
// NEGATION:
//
// Every filter kind carries a Negate flag instead of having a separate "not"
// type. A negated filter is evaluated as the logical complement of the same
// predicate over the same member, so a filter and its negation always
// partition the candidate set exactly.
package queryir
