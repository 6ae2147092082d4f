package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/compiler"
	"github.com/roach88/propsel/internal/testutil"
)

func runValidateCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format, NoColor: true}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidModel(t *testing.T) {
	output, err := runValidateCmd(t, "text", "testdata/models/shop")
	require.NoError(t, err)

	assert.Equal(t, "✓ Model valid (2 module(s), 4 type(s))\n", output)
}

func TestValidateValidModelJSON(t *testing.T) {
	output, err := runValidateCmd(t, "json", "testdata/models/shop")
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, output, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Modules)
	assert.Equal(t, 4, result.Types)
	assert.Empty(t, result.Errors)
}

func TestValidateBaseCycle(t *testing.T) {
	output, err := runValidateCmd(t, "text", "testdata/models/broken")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, output, "✗ Validation failed")
	assert.Contains(t, output, compiler.ErrBaseCycle)
}

func TestValidateBaseCycleJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", TraceIDs: testutil.NewFixedTraceID("validate-trace")}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/models/broken"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, buf.String(), &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "validate-trace", resp.TraceID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrBaseCycle, resp.Error.Code)

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, compiler.ErrBaseCycle, result.Errors[0].Code)
}

func TestValidateReportsAllErrors(t *testing.T) {
	dir := t.TempDir()
	model := `package models

module: bad: {
	type: Widget: {
		base: "Gadget"
		property: Size: {type: "int", get: "everyone"}
		property: Count: {type: "int"}
	}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte(model), 0644))

	output, err := runValidateCmd(t, "json", dir)
	require.Error(t, err)

	var result ValidationResult
	decodeResponse(t, output, &result)

	codes := make(map[string]bool)
	for _, e := range result.Errors {
		codes[e.Code] = true
	}
	assert.True(t, codes[compiler.ErrUnknownBase], "errors: %v", result.Errors)
	assert.True(t, codes[compiler.ErrInvalidVisibility], "errors: %v", result.Errors)
	assert.True(t, codes[compiler.ErrNoAccessor], "errors: %v", result.Errors)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	output, err := runValidateCmd(t, "text", "/nonexistent/models")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Contains(t, output, "Error [E005]")
	assert.Contains(t, output, "models directory not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	output, err := runValidateCmd(t, "json", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoFiles, resp.Error.Code)
}

func TestValidateCUESyntaxError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte("module: {\n"), 0644))

	output, err := runValidateCmd(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.NotNil(t, resp.Error)
	assert.Contains(t, []string{ErrCodeBuildFailed, ErrCodeLoadFailed}, resp.Error.Code)
}

func TestValidateNoDirectoryGiven(t *testing.T) {
	output, err := runValidateCmd(t, "text")
	require.Error(t, err)
	assert.Contains(t, output, "no models directory given")
}
