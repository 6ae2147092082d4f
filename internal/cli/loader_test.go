package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/compiler"
)

func TestLoadModels(t *testing.T) {
	result, err := LoadModels("testdata/models/shop")
	require.NoError(t, err)

	assert.Equal(t, 2, result.FileCount)
	require.NotNil(t, result.Spec)
	assert.Len(t, result.Spec.Modules, 2)
}

func TestLoadModels_Errors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "model.cue")
	require.NoError(t, os.WriteFile(file, []byte("package models\n"), 0644))

	tests := []struct {
		name     string
		dir      string
		wantCode string
	}{
		{"missing", "testdata/models/nope", ErrCodeNotFound},
		{"not_a_directory", file, ErrCodeNotFound},
		{"no_files", t.TempDir(), ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadModels(tt.dir)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry("testdata/models/shop")
	require.NoError(t, err)

	book, ok := reg.Lookup("shop.Book")
	require.True(t, ok)
	require.NotNil(t, book.Base)
	assert.Equal(t, "shop.Product", book.Base.String())
}

func TestLoadRegistry_InvalidModel(t *testing.T) {
	_, err := LoadRegistry("testdata/models/broken")
	require.Error(t, err)

	loadErr := asLoadError(err)
	assert.Equal(t, ErrCodeInvalidModel, loadErr.Code)
	assert.Contains(t, loadErr.Message, "validation error(s)")
	assert.Contains(t, loadErr.Message, compiler.ErrBaseCycle)
}

func TestLoadError_Error(t *testing.T) {
	err := &LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found in x"}
	assert.Equal(t, "E003: no CUE files found in x", err.Error())
}

func TestAsLoadError_WrapsForeignErrors(t *testing.T) {
	loadErr := asLoadError(errors.New("boom"))
	assert.Equal(t, ErrCodeGeneric, loadErr.Code)
	assert.Equal(t, "boom", loadErr.Message)
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"cue", ErrCodeBuildFailed},
		{"type", compiler.ErrMissingType},
		{"module", ErrCodeInvalidModel},
		{"annotations", ErrCodeInvalidModel},
		{"value", ErrCodeInvalidModel},
		{"other", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}
