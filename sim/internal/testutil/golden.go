// Package testutil provides shared test infrastructure for the simulator.
// It holds the golden dataset types and assertion helpers used by the sim/
// test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one deterministic run. Every case uses mean durations
// (interarrival 1/λ, service 1/μ) so the expected values can be derived by hand.
type GoldenTestCase struct {
	Name          string        `json:"name"`
	EventCount    int64         `json:"event_count"`
	ArrivalRate   float64       `json:"arrival_rate"`
	ServiceRate   float64       `json:"service_rate"`
	BatchSize     int           `json:"batch_size"`
	RemovalPolicy string        `json:"removal_policy"`
	Metrics       GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected outcome of a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Arrived  int `json:"arrived"`
	Departed int `json:"departed"`
	Batches  int `json:"batches"`

	ModelTime   float64            `json:"model_time"`
	U           float64            `json:"u"`
	W           float64            `json:"w"`
	N           float64            `json:"n"`
	B           float64            `json:"b"`
	Utilization float64            `json:"utilization"`
	PK          map[string]float64 `json:"pk"` // JSON object keys are strings
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
