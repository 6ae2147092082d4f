package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/propsel/internal/queryir"
)

// Scenario defines a selection scenario over one model directory.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is the directory of CUE model files to compile.
	// Relative paths are resolved against the scenario file's directory.
	Models string `yaml:"models"`

	// Queries are evaluated in order.
	Queries []Query `yaml:"queries"`

	// Catalog optionally asserts row counts of the SQLite catalog built
	// from the model.
	Catalog *CatalogExpect `yaml:"catalog,omitempty"`
}

// Query is one selection: candidate sources, a filter chain and the
// expected outcome.
type Query struct {
	Name    string     `yaml:"name"`
	Select  SelectSpec `yaml:"select"`
	Filters []string   `yaml:"filters,omitempty"`
	Expect  ExpectSpec `yaml:"expect"`
}

// SelectSpec names the candidate sources of a query.
// Both may be given; candidate types are then deduplicated in order.
type SelectSpec struct {
	// Types are "module.Name" references.
	Types []string `yaml:"types,omitempty"`

	// Module scans every type of the named module.
	Module string `yaml:"module,omitempty"`
}

// ExpectSpec specifies the expected selection.
// Unset fields are not checked.
type ExpectSpec struct {
	// Members are "module.Type.Name" strings in selection order.
	Members []string `yaml:"members,omitempty"`

	// Count is the expected number of selected members.
	Count *int `yaml:"count,omitempty"`

	// ReturnTypes are the return types of the selection, in order.
	ReturnTypes []string `yaml:"return_types,omitempty"`

	// Error is the expected selection error code (e.g. "INVALID_INPUT").
	Error string `yaml:"error,omitempty"`

	// Unsatisfiable expects the filter chain to be reported unsatisfiable.
	Unsatisfiable bool `yaml:"unsatisfiable,omitempty"`
}

// CatalogExpect holds expected catalog row counts.
type CatalogExpect struct {
	AnnotationTypes *int `yaml:"annotation_types,omitempty"`
	Types           *int `yaml:"types,omitempty"`
	Members         *int `yaml:"members,omitempty"`
	Annotations     *int `yaml:"annotations,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "filter:" vs "filters:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the model path BEFORE validation
	if scenario.Models != "" && !filepath.IsAbs(scenario.Models) {
		scenario.Models = filepath.Join(filepath.Dir(path), scenario.Models)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files directly inside dir,
// sorted by name.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Models == "" {
		return fmt.Errorf("models is required")
	}

	if info, err := os.Stat(s.Models); err != nil || !info.IsDir() {
		return fmt.Errorf("models directory not found: %s", s.Models)
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	seen := make(map[string]bool)
	for i, q := range s.Queries {
		if err := validateQuery(i, &q); err != nil {
			return err
		}
		if seen[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate query name %q", i, q.Name)
		}
		seen[q.Name] = true
	}

	return nil
}

// validateQuery validates a single query.
func validateQuery(index int, q *Query) error {
	if q.Name == "" {
		return fmt.Errorf("queries[%d]: name is required", index)
	}

	if len(q.Select.Types) == 0 && q.Select.Module == "" {
		return fmt.Errorf("queries[%d]: select requires types or module", index)
	}

	if _, err := queryir.ParseFilters(q.Filters); err != nil {
		return fmt.Errorf("queries[%d]: %w", index, err)
	}

	if q.Expect.Count != nil && *q.Expect.Count < 0 {
		return fmt.Errorf("queries[%d]: expect.count must be non-negative", index)
	}

	if q.Expect.Error != "" && (len(q.Expect.Members) > 0 || len(q.Expect.ReturnTypes) > 0) {
		return fmt.Errorf("queries[%d]: expect.error excludes members and return_types", index)
	}

	return nil
}
