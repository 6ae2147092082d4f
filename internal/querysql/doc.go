// Package querysql compiles selection plans into SQLite queries over the
// member catalog kept by package store.
//
// The generated query joins members against the plan's candidate types,
// given as a VALUES list carrying input order, and applies one WHERE
// conjunct per filter. It must select exactly the members the in-memory
// selector would, in the same order.
//
// RULES:
//
//   - Every value is bound as a ? parameter, never interpolated.
//   - Every query ends in ORDER BY candidate order, declaration order, and
//     member id COLLATE BINARY as the final tiebreaker.
//   - Negated filters compile to NOT (positive), so both sides partition
//     the candidates in SQL exactly as they do in memory.
//
// Inheritance-aware annotation filters use the member_chain closure table
// (member, ancestor, depth) instead of recursive CTEs, and consult the
// annotation definition's inherited flag before looking at ancestors.
package querysql
