// Package store provides a SQLite-backed catalog of type models.
//
// The catalog persists a Registry together with its enumerated members:
//   - annotation_types: annotation definitions and their inherited flag
//   - types: type identities, base links, registration order
//   - members: one row per declared property with effective visibility,
//     modifiers and the override link
//   - member_annotations: annotations explicitly attached at each member
//   - member_chain: transitive override closure used by inheritance-aware
//     annotation filters
//
// # Critical Patterns
//
// Deterministic Query Results
//   - All queries MUST include an ORDER BY ending in a COLLATE BINARY
//     tiebreaker
//   - Ensures identical results across runs
//
// Snapshot Semantics
//   - WriteModel replaces the whole catalog in one transaction
//   - LoadRegistry rebuilds an equivalent Registry from the rows
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Member ids are computed by model.MemberID using RFC 8785 canonical JSON
// and SHA-256 with domain separation.
package store
