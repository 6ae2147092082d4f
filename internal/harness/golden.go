package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/propsel/internal/model"
)

// Snapshot captures the selections of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Queries      []QueryResult `json:"queries"`
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization. SQL members are left out: they must equal Members.
func (s *Snapshot) toCanonicalMap() map[string]any {
	queries := make([]any, len(s.Queries))
	for i, q := range s.Queries {
		entry := map[string]any{
			"name":    q.Name,
			"filters": q.Filters,
		}
		if q.Error != "" {
			entry["error"] = q.Error
		} else {
			entry["members"] = q.Members
			entry["return_types"] = q.ReturnTypes
		}
		if len(q.Warnings) > 0 {
			entry["warnings"] = q.Warnings
		}
		queries[i] = entry
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"queries":       queries,
	}
}

// RunWithGolden executes a scenario and compares its selections against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

// SnapshotJSON renders the golden snapshot of result as canonical JSON.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Queries:      result.Queries,
	}
	return model.MarshalCanonical(snapshot.toCanonicalMap())
}
