package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/propsel/internal/compiler"
	"github.com/roach88/propsel/internal/introspect"
)

// LoadResult contains a compiled model directory.
type LoadResult struct {
	Spec      *compiler.ModelSpec
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred during model loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadModels compiles the CUE model files in dir without validating them.
func LoadModels(dir string) (*LoadResult, error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("models directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing models directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	// Find CUE files
	cueFiles, err := compiler.FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	spec, count, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, convertCompileError(err)
	}

	return &LoadResult{Spec: spec, FileCount: count}, nil
}

// LoadRegistry compiles, validates and registers the models in dir.
// Validation problems are reported as one E008 error naming the first.
func LoadRegistry(dir string) (*introspect.Registry, error) {
	result, err := LoadModels(dir)
	if err != nil {
		return nil, err
	}

	if errs := compiler.Validate(result.Spec); len(errs) > 0 {
		return nil, &LoadError{
			Code:    ErrCodeInvalidModel,
			Message: fmt.Sprintf("model has %d validation error(s), first: %s", len(errs), errs[0].Error()),
		}
	}

	reg, err := compiler.BuildRegistry(result.Spec)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidModel, Message: err.Error()}
	}
	return reg, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: err.Error(),
	}
}

// asLoadError returns err as a LoadError, wrapping foreign errors as E001.
func asLoadError(err error) *LoadError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeLoadFailed    = "E004" // CUE load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeWriteFailed   = "E007" // Catalog write error
	ErrCodeInvalidModel  = "E008" // Model failed validation
	ErrCodeUnknownType   = "E009" // --type names no registered type
	ErrCodeUnknownModule = "E010" // --module names no registered module
	ErrCodeInvalidFilter = "E011" // --filter expression does not parse
	ErrCodeCatalog       = "E012" // Catalog read error
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "cue":
		return ErrCodeBuildFailed
	case "type":
		return compiler.ErrMissingType
	case "module", "annotations", "value":
		return ErrCodeInvalidModel
	default:
		return ErrCodeGeneric
	}
}
