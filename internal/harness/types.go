package harness

import "github.com/roach88/propsel/internal/store"

// QueryResult is the observed outcome of one query.
type QueryResult struct {
	Name string `json:"name"`

	// Filters are the parsed filters rendered back to text.
	Filters []string `json:"filters"`

	// Members and ReturnTypes come from the in-memory engine.
	Members     []string `json:"members,omitempty"`
	ReturnTypes []string `json:"return_types,omitempty"`

	// SQLMembers is the same selection evaluated by the SQL backend.
	SQLMembers []string `json:"sql_members,omitempty"`

	// Error is the selection error code, if selection failed.
	Error string `json:"error,omitempty"`

	// Warnings are satisfiability warnings for the filter chain.
	Warnings []string `json:"warnings,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every expectation holds and both backends agree.
	Pass bool `json:"pass"`

	// Queries holds one entry per scenario query, in order.
	Queries []QueryResult `json:"queries"`

	// Catalog is the row count summary of the catalog built from the model.
	Catalog store.Stats `json:"catalog"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Queries: []QueryResult{},
		Errors:  []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
