package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/inheritance.yaml")
	require.NoError(t, err)

	assert.Equal(t, "inheritance", s.Name)
	assert.Equal(t, filepath.Join("testdata", "models", "shop"), s.Models)
	require.Len(t, s.Queries, 5)

	q := s.Queries[1]
	assert.Equal(t, "required_inherited", q.Name)
	assert.Equal(t, []string{"shop.Book", "shop.Product", "shop.Entity"}, q.Select.Types)
	assert.Equal(t, []string{"decorated_with_or_inherit(shop.Required)"}, q.Filters)
	require.NotNil(t, q.Expect.Count)
	assert.Equal(t, 4, *q.Expect.Count)

	require.NotNil(t, s.Catalog)
	require.NotNil(t, s.Catalog.Members)
	assert.Equal(t, 15, *s.Catalog.Members)
}

func TestLoadScenario_AllShipped(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, f := range files {
		_, err := LoadScenario(f)
		assert.NoError(t, err, f)
	}
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		file string
		msg  string
	}{
		{"testdata/invalid/unknown_field.yaml", "failed to parse YAML"},
		{"testdata/invalid/bad_filter.yaml", `unknown filter "sealed"`},
		{"testdata/missing.yaml", "failed to read scenario file"},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.file), func(t *testing.T) {
			_, err := LoadScenario(tt.file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateScenario(t *testing.T) {
	models := filepath.Join("testdata", "models", "shop")
	count := -1

	tests := []struct {
		name     string
		scenario Scenario
		msg      string
	}{
		{
			name:     "missing name",
			scenario: Scenario{Description: "d", Models: models},
			msg:      "name is required",
		},
		{
			name:     "missing description",
			scenario: Scenario{Name: "n", Models: models},
			msg:      "description is required",
		},
		{
			name:     "missing models",
			scenario: Scenario{Name: "n", Description: "d"},
			msg:      "models is required",
		},
		{
			name:     "models not a directory",
			scenario: Scenario{Name: "n", Description: "d", Models: "testdata/nope"},
			msg:      "models directory not found",
		},
		{
			name:     "no queries",
			scenario: Scenario{Name: "n", Description: "d", Models: models},
			msg:      "queries list is required",
		},
		{
			name: "query without name",
			scenario: Scenario{Name: "n", Description: "d", Models: models, Queries: []Query{
				{Select: SelectSpec{Module: "shop"}},
			}},
			msg: "queries[0]: name is required",
		},
		{
			name: "query without source",
			scenario: Scenario{Name: "n", Description: "d", Models: models, Queries: []Query{
				{Name: "q"},
			}},
			msg: "select requires types or module",
		},
		{
			name: "duplicate query",
			scenario: Scenario{Name: "n", Description: "d", Models: models, Queries: []Query{
				{Name: "q", Select: SelectSpec{Module: "shop"}},
				{Name: "q", Select: SelectSpec{Module: "shop"}},
			}},
			msg: `queries[1]: duplicate query name "q"`,
		},
		{
			name: "negative count",
			scenario: Scenario{Name: "n", Description: "d", Models: models, Queries: []Query{
				{Name: "q", Select: SelectSpec{Module: "shop"}, Expect: ExpectSpec{Count: &count}},
			}},
			msg: "expect.count must be non-negative",
		},
		{
			name: "error with members",
			scenario: Scenario{Name: "n", Description: "d", Models: models, Queries: []Query{
				{Name: "q", Select: SelectSpec{Module: "shop"}, Expect: ExpectSpec{Error: "INVALID_INPUT", Members: []string{"x"}}},
			}},
			msg: "expect.error excludes members",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScenario(&tt.scenario)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadScenario_AbsoluteModels(t *testing.T) {
	models, err := filepath.Abs(filepath.Join("testdata", "models", "shop"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "abs.yaml")
	content := "name: abs\ndescription: d\nmodels: " + models + "\nqueries:\n  - name: q\n    select:\n      module: shop\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, models, s.Models)
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yml", "a.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	files, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yml")}, files)
}
