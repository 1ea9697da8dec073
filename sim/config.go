package sim

import "fmt"

// SimConfig groups the parameters of a single simulation run.
type SimConfig struct {
	EventCount    int64         // number of events to execute (must be >= 1)
	ArrivalRate   float64       // λ, mean arrivals per unit time (must be > 0)
	ServiceRate   float64       // μ, rate of the exponential batch service time (must be > 0)
	BatchSize     int           // customers served together (must be >= 1)
	RemovalPolicy RemovalPolicy // "fifo" (default) or "lifo"
}

// Validate checks every parameter before a run starts.
// All failures wrap ErrInvalidParameter.
func (c SimConfig) Validate() error {
	if c.EventCount < 1 {
		return fmt.Errorf("%w: event count must be >= 1, got %d", ErrInvalidParameter, c.EventCount)
	}
	// NaN fails every comparison, so test for the valid range instead.
	if !(c.ArrivalRate > 0) {
		return fmt.Errorf("%w: arrival rate must be > 0, got %v", ErrInvalidParameter, c.ArrivalRate)
	}
	if !(c.ServiceRate > 0) {
		return fmt.Errorf("%w: service rate must be > 0, got %v", ErrInvalidParameter, c.ServiceRate)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be >= 1, got %d", ErrInvalidParameter, c.BatchSize)
	}
	if !IsValidRemovalPolicy(string(c.RemovalPolicy)) {
		return fmt.Errorf("%w: unknown removal policy %q", ErrInvalidParameter, c.RemovalPolicy)
	}
	return nil
}
