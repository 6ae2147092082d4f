// Package harness runs query scenarios against property selection models.
//
// A scenario names a directory of CUE model files and a list of queries.
// Each query is evaluated twice: by the in-memory selector engine and by the
// SQL backend over an in-memory SQLite catalog built from the same model.
// Any disagreement between the two fails the scenario, as does any
// difference from the query's expectations.
//
// # Scenario Format
//
//	name: inheritance
//	description: "Inherited annotations reach overriding properties"
//	models: ../models/shop
//	queries:
//	  - name: required
//	    select:
//	      types: [shop.Product, shop.Entity]
//	    filters:
//	      - decorated_with_or_inherit(shop.Required)
//	    expect:
//	      members: [shop.Product.ID, shop.Product.Name, shop.Entity.ID]
//	      count: 3
//	catalog:
//	  types: 3
//
// Filters use the same textual form that queryir.Filter.String renders.
// Type references that do not resolve are passed to the engine as absent
// types, so that input errors can be asserted with expect.error.
//
// # Golden Files
//
// RunWithGolden snapshots every query's selection as canonical JSON under
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
