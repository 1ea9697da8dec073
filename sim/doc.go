// Package sim provides the discrete-event engine for a single-server
// batch-service queue (M/M^b/1).
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - customer.go: Customer lifecycle (arrived → assigned to a batch) and its timing fields
//   - event.go: the two event kinds that drive the simulation (Arrival, Departure)
//   - simulator.go: the clock advance / dispatch loop and batch formation
//   - metrics.go: occupancy history and the derived summary metrics
//
// # Architecture
//
// The engine is a sequential state machine. The caller advances it a fixed
// number of events (Simulator.Run or RunSimulation) and then asks for a
// SummaryResult. Randomness is injected through RandomSource so that a run
// is fully determined by its configuration and source.
//
// Sub-packages build on the engine:
//   - sim/trace/: per-event trace recording
//   - sim/analytic/: closed-form M/M/1 reference values
//   - sim/experiment/: independent replications and their aggregates
//
// All customer records and occupancy samples are retained until the run
// ends, so memory grows linearly with the event count.
package sim
