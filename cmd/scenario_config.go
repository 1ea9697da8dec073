package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/batchq-sim/sim"
)

// Scenario describes one simulation in a scenario file. Zero fields are
// filled from the file's defaults.
type Scenario struct {
	Name         string  `yaml:"name"`
	Events       int64   `yaml:"events"`
	ArrivalRate  float64 `yaml:"arrival_rate"`
	ServiceRate  float64 `yaml:"service_rate"`
	BatchSize    int     `yaml:"batch_size"`
	Removal      string  `yaml:"removal"`
	Seed         *int64  `yaml:"seed"` // pointer: 0 is a valid seed
	Replications int     `yaml:"replications"`
}

// ScenarioFile represents the full scenario YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Version   string     `yaml:"version"`
	Defaults  Scenario   `yaml:"defaults"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// SimConfig converts the scenario into engine parameters.
func (s Scenario) SimConfig() sim.SimConfig {
	return sim.SimConfig{
		EventCount:    s.Events,
		ArrivalRate:   s.ArrivalRate,
		ServiceRate:   s.ServiceRate,
		BatchSize:     s.BatchSize,
		RemovalPolicy: sim.RemovalPolicy(s.Removal),
	}
}

// SeedOr returns the scenario seed, or def when none is set.
func (s Scenario) SeedOr(def int64) int64 {
	if s.Seed == nil {
		return def
	}
	return *s.Seed
}

// withDefaults fills the zero fields of s from d.
func (s Scenario) withDefaults(d Scenario) Scenario {
	if s.Events == 0 {
		s.Events = d.Events
	}
	if s.ArrivalRate == 0 {
		s.ArrivalRate = d.ArrivalRate
	}
	if s.ServiceRate == 0 {
		s.ServiceRate = d.ServiceRate
	}
	if s.BatchSize == 0 {
		s.BatchSize = d.BatchSize
	}
	if s.Removal == "" {
		s.Removal = d.Removal
	}
	if s.Seed == nil {
		s.Seed = d.Seed
	}
	if s.Replications == 0 {
		s.Replications = d.Replications
	}
	if s.Replications == 0 {
		s.Replications = 1
	}
	return s
}

// LoadScenarioFile reads and validates a scenario file.
func LoadScenarioFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	scenarios, err := parseScenarios(data)
	if err != nil {
		return nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return scenarios, nil
}

// parseScenarios decodes with strict field checking (typos must cause
// errors), applies defaults and validates every scenario.
func parseScenarios(data []byte) ([]Scenario, error) {
	var f ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario must be defined")
	}

	seen := make(map[string]bool, len(f.Scenarios))
	resolved := make([]Scenario, 0, len(f.Scenarios))
	for i, s := range f.Scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("scenario %s: duplicate name", s.Name)
		}
		seen[s.Name] = true

		s = s.withDefaults(f.Defaults)
		if s.Removal != "" {
			var policy sim.RemovalPolicy
			if err := policy.Set(s.Removal); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			s.Removal = string(policy)
		}
		if err := s.SimConfig().Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		if s.Replications < 1 {
			return nil, fmt.Errorf("scenario %s: %w: replications must be >= 1, got %d", s.Name, sim.ErrInvalidParameter, s.Replications)
		}
		resolved = append(resolved, s)
	}
	return resolved, nil
}
