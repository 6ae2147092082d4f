package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/propsel/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Modules int                        `json:"modules"`
	Types   int                        `json:"types"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [models-dir]",
		Short: "Validate a model without selecting anything",
		Long: `Validate CUE model files.

Checks that every module, annotation type, type and property is well
formed, that base and return types resolve, and that no base chain is
cyclic. All problems are reported, not only the first.

Exit codes:
  0 - Model valid
  1 - Model has validation errors
  2 - Command error (directory missing, no CUE files, CUE does not build)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			modelsDir := rootOpts.config().ModelsDir
			if len(args) > 0 {
				modelsDir = args[0]
			}
			return runValidate(rootOpts, modelsDir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if modelsDir == "" {
		return outputCommandError(formatter, ErrCodeNotFound, "no models directory given", nil)
	}

	loadResult, err := LoadModels(modelsDir)
	if err != nil {
		loadErr := asLoadError(err)
		return outputCommandError(formatter, loadErr.Code, loadErr.Message, nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, modelsDir)

	result := ValidationResult{Modules: len(loadResult.Spec.Modules)}
	for _, mod := range loadResult.Spec.Modules {
		formatter.VerboseLog("Validating module: %s", mod.Name)
		result.Types += len(mod.Types)
	}

	result.Errors = compiler.Validate(loadResult.Spec)
	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	formatter.Pass("Model valid (%d module(s), %d type(s))", result.Modules, result.Types)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if formatter.TraceIDs != nil {
			response.TraceID = formatter.TraceIDs.Generate()
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	formatter.Fail("Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
