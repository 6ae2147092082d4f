// Package compiler turns CUE model files into introspection registries.
//
// A model file declares modules, their annotation types, and their types:
//
//	module: shop: {
//		annotation: Required: inherited: true
//		annotation: Obsolete: {}
//
//		type: Entity: {
//			property: ID: {type: "int", get: "public", virtual: true, annotations: ["Required"]}
//		}
//		type: Product: {
//			base: "Entity"
//			property: ID: {type: "int", get: "public", virtual: true}
//			property: Name: {type: "string", get: "public", set: "internal"}
//		}
//	}
//
// Compilation has three steps. CompileModel reads the CUE value into a
// ModelSpec, keeping references as written and recording source positions.
// Validate checks a ModelSpec and reports every problem at once. Schema and
// BuildRegistry resolve references and produce the introspection schema.
//
// REFERENCES:
//
// A reference containing a dot is split on its last dot into module and
// name. An unqualified reference resolves to the enclosing module when that
// module declares a type (or, for annotation references, an annotation) of
// that name; otherwise it is a module-less identity such as "string".
//
// Field order in CUE is declaration order, so properties are enumerated in
// the order they are written.
package compiler
