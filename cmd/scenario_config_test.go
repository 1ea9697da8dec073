package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/batchq-sim/sim"
)

const validScenarios = `
version: "1"
defaults:
  events: 5000
  arrival_rate: 0.5
  service_rate: 1.0
  batch_size: 1
scenarios:
  - name: baseline
  - name: batched
    batch_size: 3
    arrival_rate: 2.0
    removal: lifo
    replications: 4
  - name: seeded-zero
    seed: 0
`

func TestParseScenarios_AppliesDefaults(t *testing.T) {
	// GIVEN a file with defaults and three scenarios
	scenarios, err := parseScenarios([]byte(validScenarios))

	// THEN zero fields are filled from defaults and explicit ones kept
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	baseline := scenarios[0]
	assert.Equal(t, "baseline", baseline.Name)
	assert.Equal(t, sim.SimConfig{EventCount: 5000, ArrivalRate: 0.5, ServiceRate: 1.0, BatchSize: 1}, baseline.SimConfig())
	assert.Equal(t, 1, baseline.Replications)
	assert.Equal(t, int64(42), baseline.SeedOr(42))

	batched := scenarios[1]
	assert.Equal(t, 3, batched.BatchSize)
	assert.Equal(t, 2.0, batched.ArrivalRate)
	assert.Equal(t, 1.0, batched.ServiceRate)
	assert.Equal(t, sim.RemovalLIFO, batched.SimConfig().RemovalPolicy)
	assert.Equal(t, 4, batched.Replications)

	// AND an explicit zero seed is not replaced by the default
	assert.Equal(t, int64(0), scenarios[2].SeedOr(42))
}

func TestParseScenarios_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown field", "scenarios:\n  - name: a\n    arival_rate: 1\n", "arival_rate"},
		{"unknown top-level section", "extra: 1\nscenarios:\n  - name: a\n", "extra"},
		{"no scenarios", "version: \"1\"\n", "at least one scenario"},
		{"missing name", "defaults: {events: 10, arrival_rate: 1, service_rate: 1, batch_size: 1}\nscenarios:\n  - events: 5\n", "name is required"},
		{"duplicate name", "defaults: {events: 10, arrival_rate: 1, service_rate: 1, batch_size: 1}\nscenarios:\n  - name: a\n  - name: a\n", "duplicate"},
		{"invalid after defaults", "scenarios:\n  - name: a\n    events: 10\n", "arrival rate"},
		{"negative replications", "defaults: {events: 10, arrival_rate: 1, service_rate: 1, batch_size: 1}\nscenarios:\n  - name: a\n    replications: -2\n", "replications"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScenarios([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenarios_InvalidParameterIsWrapped(t *testing.T) {
	_, err := parseScenarios([]byte("scenarios:\n  - name: a\n    events: 10\n    arrival_rate: 1\n    service_rate: 1\n    batch_size: 0\n"))
	assert.True(t, errors.Is(err, sim.ErrInvalidParameter))
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validScenarios), 0644))

	scenarios, err := LoadScenarioFile(path)
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)

	_, err = LoadScenarioFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseScenarios_RemovalPolicyIsNormalized(t *testing.T) {
	// GIVEN removal policies written the way the CLI flag accepts them
	scenarios, err := parseScenarios([]byte(`
defaults: {events: 10, arrival_rate: 1, service_rate: 1, batch_size: 1, removal: " LIFO "}
scenarios:
  - name: upper
    removal: FIFO
  - name: inherited
`))

	// THEN they resolve to the canonical policies
	require.NoError(t, err)
	assert.Equal(t, sim.RemovalFIFO, scenarios[0].SimConfig().RemovalPolicy)
	assert.Equal(t, sim.RemovalLIFO, scenarios[1].SimConfig().RemovalPolicy)
}

func TestParseScenarios_UnknownRemovalPolicy(t *testing.T) {
	_, err := parseScenarios([]byte("scenarios:\n  - name: a\n    events: 10\n    arrival_rate: 1\n    service_rate: 1\n    batch_size: 1\n    removal: random\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrInvalidParameter))
	assert.Contains(t, err.Error(), "scenario a")
}
