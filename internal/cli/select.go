package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/queryir"
	"github.com/roach88/propsel/internal/selector"
	"github.com/roach88/propsel/internal/store"
)

// SelectOptions holds flags for the select command.
type SelectOptions struct {
	*RootOptions
	Types       []string // candidate type references
	Module      string   // candidate module
	Filters     []string // filter expressions, applied in order
	ReturnTypes bool     // print return types only
	DB          string   // read the model from a catalog
	SQL         bool     // evaluate through the SQL backend
}

// MemberOutput is one selected member.
type MemberOutput struct {
	Member      string   `json:"member"`
	ReturnType  string   `json:"return_type"`
	Visibility  string   `json:"visibility"`
	Modifiers   string   `json:"modifiers,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
}

// SelectResult holds a selection.
type SelectResult struct {
	Backend     string         `json:"backend"` // "engine" or "sql"
	Types       []string       `json:"types"`
	Filters     []string       `json:"filters"`
	Members     []MemberOutput `json:"members"`
	ReturnTypes []string       `json:"return_types,omitempty"`
	Count       int            `json:"count"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select [models-dir]",
		Short: "Select properties from a model",
		Long: `Select properties declared on model types.

Candidates are the properties declared on the --type and --module
sources (every type when neither is given). Filters are applied in order
and use the forms:

  public_or_internal        of_type(<type>)
  decorated_with(<ann>)     decorated_with_or_inherit(<ann>)
  static  virtual  abstract

Any filter may be prefixed with "not ".

Exit codes:
  0 - Selection succeeded (an empty selection is not an error)
  2 - Command error (unknown names, bad filters, unreadable model)

Examples:
  propsel select ./models --module shop --filter public_or_internal
  propsel select ./models --type shop.Book --filter "decorated_with_or_inherit(shop.Required)"
  propsel select --db catalog.db --module shop --filter "not static" --sql`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelsDir := ""
			if len(args) > 0 {
				modelsDir = args[0]
			}
			return runSelect(cmd.Context(), opts, modelsDir, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Types, "type", "t", nil, "candidate type, module.Name (repeatable)")
	cmd.Flags().StringVarP(&opts.Module, "module", "m", "", "candidate module")
	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "filter expression (repeatable)")
	cmd.Flags().BoolVar(&opts.ReturnTypes, "return-types", false, "print return types instead of members")
	cmd.Flags().StringVar(&opts.DB, "db", "", "read the model from a catalog database")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "evaluate through the SQL backend")

	return cmd
}

func runSelect(ctx context.Context, opts *SelectOptions, modelsDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	logger := opts.logger()
	cfg := opts.config()

	filters, err := queryir.ParseFilters(opts.Filters)
	if err != nil {
		return outputCommandError(formatter, ErrCodeInvalidFilter, err.Error(), nil)
	}

	if modelsDir == "" {
		modelsDir = cfg.ModelsDir
	}
	dbPath := opts.DB
	if dbPath == "" && modelsDir == "" {
		dbPath = cfg.DB
	}
	if dbPath == "" && modelsDir == "" {
		return outputCommandError(formatter, ErrCodeNotFound, "no models directory or --db given", nil)
	}

	// Load the model from the catalog or from CUE files
	var (
		reg *introspect.Registry
		st  *store.Store
	)
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err != nil {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", dbPath), nil)
		}
		st, err = store.Open(dbPath)
		if err != nil {
			return outputCommandError(formatter, ErrCodeCatalog, err.Error(), nil)
		}
		defer st.Close()

		reg, err = st.LoadRegistry(ctx)
		if err != nil {
			return outputCommandError(formatter, ErrCodeCatalog, err.Error(), nil)
		}
		formatter.VerboseLog("Loaded %d type(s) from %s", len(reg.Types()), dbPath)
	} else {
		reg, err = LoadRegistry(modelsDir)
		if err != nil {
			loadErr := asLoadError(err)
			return outputCommandError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		formatter.VerboseLog("Loaded %d type(s) from %s", len(reg.Types()), modelsDir)
	}

	sources, err := selectSources(reg, opts.Types, opts.Module)
	if err != nil {
		var unknown *unknownNameError
		if errors.As(err, &unknown) {
			return outputCommandError(formatter, unknown.code, unknown.Error(), Suggestions{DidYouMean: unknown.suggestions})
		}
		return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	engine := selector.New(reg,
		selector.WithLogger(logger),
		selector.WithCacheSize(cfg.CacheSize),
	)
	sel := engine.Select(sources...)
	for _, f := range filters {
		sel = sel.Where(f)
	}

	plan, err := sel.Plan()
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	result := SelectResult{
		Backend: "engine",
		Types:   make([]string, len(plan.Types)),
		Filters: make([]string, len(plan.Filters)),
	}
	for i, t := range plan.Types {
		result.Types[i] = t.String()
	}
	for i, f := range plan.Filters {
		result.Filters[i] = f.String()
	}

	if opts.SQL {
		result.Backend = "sql"
		if st == nil {
			st, err = store.OpenMemory()
			if err != nil {
				return outputCommandError(formatter, ErrCodeCatalog, err.Error(), nil)
			}
			defer st.Close()
			if err := st.WriteModel(ctx, reg); err != nil {
				return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
			}
		}
		rows, err := st.SelectMembers(ctx, plan)
		if err != nil {
			return outputCommandError(formatter, ErrCodeCatalog, err.Error(), nil)
		}
		result.Members = rowOutputs(rows)
	} else {
		members, err := sel.Members()
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
		}
		result.Members = memberOutputs(members)
	}
	result.Count = len(result.Members)

	if opts.ReturnTypes {
		result.ReturnTypes = make([]string, len(result.Members))
		for i, m := range result.Members {
			result.ReturnTypes[i] = m.ReturnType
		}
	}

	validation, err := sel.Validate()
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	result.Warnings = validation.Warnings

	logger.Debug("select completed",
		"backend", result.Backend,
		"types", len(result.Types),
		"filters", len(result.Filters),
		"selected", result.Count,
	)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return outputSelectText(formatter, opts, result)
}

// unknownNameError reports a --type or --module that names nothing.
type unknownNameError struct {
	code        string
	kind        string
	name        string
	suggestions []string
}

func (e *unknownNameError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.kind, e.name)
}

// selectSources resolves --type and --module. Without either, every
// registered type is a candidate.
func selectSources(reg *introspect.Registry, types []string, module string) ([]selector.Source, error) {
	var sources []selector.Source

	if len(types) > 0 {
		resolved := make([]*model.Type, len(types))
		for i, ref := range types {
			t, ok := reg.Lookup(ref)
			if !ok {
				return nil, &unknownNameError{
					code:        ErrCodeUnknownType,
					kind:        "type",
					name:        ref,
					suggestions: Suggest(ref, typeNames(reg), maxSuggestions),
				}
			}
			resolved[i] = t
		}
		sources = append(sources, selector.FromTypes(resolved))
	}

	if module != "" {
		m, ok := reg.Module(module)
		if !ok {
			return nil, &unknownNameError{
				code:        ErrCodeUnknownModule,
				kind:        "module",
				name:        module,
				suggestions: Suggest(module, moduleNames(reg), maxSuggestions),
			}
		}
		sources = append(sources, selector.FromModule(m))
	}

	if len(sources) == 0 {
		all := reg.Types()
		if all == nil {
			all = []*model.Type{}
		}
		sources = append(sources, selector.FromTypes(all))
	}
	return sources, nil
}

func memberOutputs(members []*model.Member) []MemberOutput {
	out := make([]MemberOutput, len(members))
	for i, m := range members {
		out[i] = MemberOutput{
			Member:     m.String(),
			ReturnType: m.ReturnType.String(),
			Visibility: m.Visibility.String(),
			Modifiers:  m.Modifiers.String(),
		}
		for _, a := range m.Annotations {
			out[i].Annotations = append(out[i].Annotations, a.Type.String())
		}
	}
	return out
}

// rowOutputs converts catalog rows. Rows carry no annotations.
func rowOutputs(rows []store.MemberRow) []MemberOutput {
	out := make([]MemberOutput, len(rows))
	for i, r := range rows {
		out[i] = MemberOutput{
			Member:     r.Type.String() + "." + r.Name,
			ReturnType: r.ReturnType.String(),
			Visibility: r.Visibility.String(),
			Modifiers:  r.Modifiers.String(),
		}
	}
	return out
}

// outputSelectText prints one line per member (or return type) followed by
// a summary line and any satisfiability warnings.
func outputSelectText(formatter *OutputFormatter, opts *SelectOptions, result SelectResult) error {
	w := formatter.Writer

	for _, m := range result.Members {
		if opts.ReturnTypes {
			fmt.Fprintln(w, m.ReturnType)
			continue
		}
		line := fmt.Sprintf("%s: %s (%s", m.Member, m.ReturnType, m.Visibility)
		if m.Modifiers != "" {
			line += ", " + m.Modifiers
		}
		line += ")"
		for _, a := range m.Annotations {
			line += " @" + a
		}
		fmt.Fprintln(w, line)
	}

	for _, warning := range result.Warnings {
		formatter.Warn("%s", warning)
	}

	formatter.Pass("%d member(s) selected", result.Count)
	return nil
}
