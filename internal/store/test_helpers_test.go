package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeTestModel stores reg and fails the test on error.
func writeTestModel(t *testing.T, s *Store, reg *introspect.Registry) {
	t.Helper()
	require.NoError(t, s.WriteModel(context.Background(), reg))
}

func rowKeys(rows []MemberRow) []model.MemberKey {
	out := make([]model.MemberKey, len(rows))
	for i, r := range rows {
		out[i] = r.Key()
	}
	return out
}

func memberKeys(members []*model.Member) []model.MemberKey {
	out := make([]model.MemberKey, len(members))
	for i, m := range members {
		out[i] = m.Key()
	}
	return out
}
