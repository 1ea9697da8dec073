package trace

import (
	"fmt"
	"strings"
)

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures one record per executed event.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// String implements pflag.Value.
func (l *TraceLevel) String() string {
	if l == nil || *l == "" {
		return string(TraceLevelNone)
	}
	return string(*l)
}

// Set implements pflag.Value.
func (l *TraceLevel) Set(s string) error {
	v := TraceLevel(strings.ToLower(strings.TrimSpace(s)))
	if !validTraceLevels[v] {
		return fmt.Errorf("unknown trace level %q (want none or events)", s)
	}
	*l = v
	return nil
}

// Type implements pflag.Value.
func (l *TraceLevel) Type() string {
	return "level"
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelEvents
}

// SimulationTrace collects event records during a simulation run.
type SimulationTrace struct {
	Config TraceConfig
	Events []EventRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Events: make([]EventRecord, 0),
	}
}

// RecordEvent appends an event record. No-op on a nil trace or when disabled.
func (st *SimulationTrace) RecordEvent(record EventRecord) {
	if st == nil || !st.Config.Enabled() {
		return
	}
	st.Events = append(st.Events, record)
}
