// Package selector implements the fluent property-selection engine.
//
// A query starts from an Engine bound to an introspection facility, collects
// candidate types, enumerates their declared properties into members, and
// narrows them with chained filters:
//
//	eng := selector.New(reg)
//	members, err := eng.Module(mod).
//		ThatArePublicOrInternal().
//		ThatAreDecoratedWithOrInherit(marker).
//		Members()
//
// ARCHITECTURE:
//
//	Collector   → deduplicated, input-ordered candidate types
//	Enumerator  → one Member per declared property, with effective
//	              visibility and the override back-reference
//	Selector    → immutable candidate set plus a deferred filter plan
//	Matcher     → per-member predicate for each queryir.Filter
//	Materializer→ Members, All, ReturnTypes, Count
//
// Selectors are immutable values. Every fluent call returns a new Selector
// and never touches the receiver, so a Selector can be branched freely and
// shared between goroutines. Filters are deferred: nothing is evaluated until
// a materializing call, and each Selector evaluates its plan at most once.
//
// ERRORS:
//
// Fluent calls cannot return errors without breaking the chain, so a
// Selector carries a sticky error instead. Collecting from a nil type, type
// list or module yields INVALID_INPUT naming the parameter; calling any
// method on a nil *Selector yields NULL_SELECTOR naming "selector". Once set,
// the error flows through every later call and is returned by the
// materializing methods. An empty selection is never an error.
//
// ANNOTATION INHERITANCE:
//
// Members only carry annotations attached at their own declaration site. The
// OrInherit filters walk the override chain, consulting ancestors only for
// annotation types whose definition is inheritable.
package selector
