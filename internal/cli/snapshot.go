package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/propsel/internal/store"
)

// SnapshotResult describes a written catalog.
type SnapshotResult struct {
	DB    string      `json:"db"`
	Stats store.Stats `json:"stats"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "snapshot [models-dir]",
		Short: "Write a model into a catalog database",
		Long: `Compile and validate a model, then write it into a SQLite catalog.

An existing catalog is replaced. "propsel select --db" reads the catalog
back without the CUE sources.

Exit codes:
  0 - Catalog written
  2 - Command error (invalid model, unwritable database)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.config()
			modelsDir := cfg.ModelsDir
			if len(args) > 0 {
				modelsDir = args[0]
			}
			if dbPath == "" {
				dbPath = cfg.DB
			}
			return runSnapshot(cmd.Context(), rootOpts, modelsDir, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "catalog database path")

	return cmd
}

func runSnapshot(ctx context.Context, opts *RootOptions, modelsDir, dbPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	if modelsDir == "" {
		return outputCommandError(formatter, ErrCodeNotFound, "no models directory given", nil)
	}
	if dbPath == "" {
		return outputCommandError(formatter, ErrCodeWriteFailed, "no catalog database given (use --db)", nil)
	}

	reg, err := LoadRegistry(modelsDir)
	if err != nil {
		loadErr := asLoadError(err)
		return outputCommandError(formatter, loadErr.Code, loadErr.Message, nil)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
	}
	defer st.Close()

	if err := st.WriteModel(ctx, reg); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error(), nil)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		return outputCommandError(formatter, ErrCodeCatalog, err.Error(), nil)
	}

	opts.logger().Info("catalog written",
		"db", dbPath,
		"types", stats.Types,
		"members", stats.Members,
	)

	result := SnapshotResult{DB: dbPath, Stats: stats}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	formatter.Pass("Catalog written to %s", dbPath)
	fmt.Fprintf(formatter.Writer, "  annotation types: %d\n", stats.AnnotationTypes)
	fmt.Fprintf(formatter.Writer, "  types:            %d\n", stats.Types)
	fmt.Fprintf(formatter.Writer, "  members:          %d\n", stats.Members)
	fmt.Fprintf(formatter.Writer, "  annotations:      %d\n", stats.Annotations)
	return nil
}
