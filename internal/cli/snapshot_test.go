package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/config"
	"github.com/roach88/propsel/internal/store"
)

func TestSnapshot_WritesCatalog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	out, err := executeCLI(t, "--format", "json", "snapshot", "testdata/models/shop", "--db", dbPath)
	require.NoError(t, err)

	var result SnapshotResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, dbPath, result.DB)
	assert.Equal(t, store.Stats{AnnotationTypes: 2, Types: 4, Members: 15, Annotations: 5}, result.Stats)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	reg, err := st.LoadRegistry(context.Background())
	require.NoError(t, err)
	assert.Len(t, reg.Types(), 4)
}

func TestSnapshot_ReplacesExistingCatalog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	_, err := executeCLI(t, "snapshot", "testdata/models/shop", "--db", dbPath)
	require.NoError(t, err)
	out, err := executeCLI(t, "snapshot", "testdata/models/shop", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Catalog written to "+dbPath)
	assert.Contains(t, out, "members:          15")
}

func TestSnapshot_DBFromConfig(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{
		Format: "text",
		Config: &config.Config{Format: "text", DB: dbPath, ModelsDir: "testdata/models/shop"},
	}
	cmd := NewSnapshotCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Catalog written to "+dbPath)
}

func TestSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"missing_db_flag", []string{"snapshot", "testdata/models/shop"}, ErrCodeWriteFailed},
		{"invalid_model", []string{"snapshot", "testdata/models/broken", "--db", filepath.Join(t.TempDir(), "x.db")}, ErrCodeInvalidModel},
		{"missing_models", []string{"snapshot", "testdata/models/nope", "--db", filepath.Join(t.TempDir(), "y.db")}, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCLI(t, append([]string{"--format", "json"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
