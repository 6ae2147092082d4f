// Package introspect is the type introspection facility the selector reads.
//
// The selector never inspects Go values, CUE files or database rows directly.
// It consumes the Introspector interface, which exposes exactly what member
// selection needs:
//
//	DeclaredProperties(type)   ordered declared properties, never inherited ones
//	BaseType(type)             the next type up the base chain, or nil
//	ExplicitAnnotations(...)   annotations attached at one declaration site
//	Inherited(annotation)      the per-definition inheritance flag
//	ModuleTypes(module)        every type declared in a module, for scanning
//
// Registry is the implementation. It is an explicit registration table built
// from a Schema: a flat list of annotation definitions and type definitions
// with unresolved base references. Schemas come from several front-ends:
//
//	CUE model files      internal/compiler
//	Go struct types      SchemaFromGo (this package)
//	SQLite catalog       internal/store
//	hand-built           tests and callers
//
// Build validates a Schema (unknown bases, base-chain cycles, undefined
// annotation types, duplicate names) before resolving it into immutable
// model.Type descriptors. A Registry is never mutated after Build and is safe
// for concurrent readers.
package introspect
