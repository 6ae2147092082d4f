package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/propsel/internal/compiler"
	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/queryir"
	"github.com/roach88/propsel/internal/selector"
	"github.com/roach88/propsel/internal/store"
)

// Harness evaluates queries against one compiled model.
type Harness struct {
	registry *introspect.Registry
	engine   *selector.Engine
	store    *store.Store
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory catalog for isolation.
//
// Execution flow:
// 1. Compile and validate the model directory
// 2. Write the model to an in-memory SQLite catalog
// 3. Evaluate each query on the engine and on the catalog
// 4. Check expectations and backend agreement
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with an explicit logger for the engine and harness.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	spec, _, err := compiler.LoadDir(scenario.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	reg, err := compiler.BuildRegistry(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}

	st, err := store.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.WriteModel(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to write catalog: %w", err)
	}

	h := &Harness{
		registry: reg,
		engine:   selector.New(reg, selector.WithLogger(logger)),
		store:    st,
		logger:   logger,
	}

	result := NewResult()

	stats, err := st.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog stats: %w", err)
	}
	result.Catalog = stats
	for _, e := range checkCatalog(scenario.Catalog, stats) {
		result.AddError(e.Error())
	}

	for i, q := range scenario.Queries {
		qr, err := h.runQuery(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query %d (%s): %w", i, q.Name, err)
		}
		result.Queries = append(result.Queries, qr)

		for _, e := range checkQuery(q, qr) {
			result.AddError(e.Error())
		}

		h.logger.Info("query completed",
			"query", q.Name,
			"members", len(qr.Members),
			"error", qr.Error,
		)
	}

	return result, nil
}

// runQuery evaluates q on the engine and, when selection succeeds, on the
// catalog. Selection errors are recorded in the result, not returned.
func (h *Harness) runQuery(ctx context.Context, q Query) (QueryResult, error) {
	filters, err := queryir.ParseFilters(q.Filters)
	if err != nil {
		return QueryResult{}, err
	}

	qr := QueryResult{
		Name:    q.Name,
		Filters: make([]string, len(filters)),
	}
	for i, f := range filters {
		qr.Filters[i] = f.String()
	}

	sel := h.engine.Select(h.sources(q.Select)...)
	for _, f := range filters {
		sel = sel.Where(f)
	}

	members, err := sel.Members()
	if err != nil {
		var selErr *selector.Error
		if errors.As(err, &selErr) {
			qr.Error = string(selErr.Code)
			return qr, nil
		}
		return QueryResult{}, err
	}

	qr.Members = make([]string, len(members))
	qr.ReturnTypes = make([]string, len(members))
	for i, m := range members {
		qr.Members[i] = m.String()
		qr.ReturnTypes[i] = m.ReturnType.String()
	}

	validation, err := sel.Validate()
	if err != nil {
		return QueryResult{}, err
	}
	qr.Warnings = validation.Warnings

	plan, err := sel.Plan()
	if err != nil {
		return QueryResult{}, err
	}
	rows, err := h.store.SelectMembers(ctx, plan)
	if err != nil {
		return QueryResult{}, err
	}
	qr.SQLMembers = make([]string, len(rows))
	for i, r := range rows {
		qr.SQLMembers[i] = r.Type.String() + "." + r.Name
	}

	return qr, nil
}

// sources resolves the select clause. Unresolved references are passed on
// as absent types or modules so the engine reports them.
func (h *Harness) sources(spec SelectSpec) []selector.Source {
	var sources []selector.Source
	if len(spec.Types) > 0 {
		types := make([]*model.Type, len(spec.Types))
		for i, ref := range spec.Types {
			types[i], _ = h.registry.Lookup(ref)
		}
		sources = append(sources, selector.FromTypes(types))
	}
	if spec.Module != "" {
		mod, _ := h.registry.Module(spec.Module)
		sources = append(sources, selector.FromModule(mod))
	}
	return sources
}
