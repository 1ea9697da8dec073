package sim

// Run executes one complete simulation of cfg.EventCount events with src
// and returns its summary. Parameters are validated before any event runs.
func Run(cfg SimConfig, src RandomSource) (*SummaryResult, error) {
	s, err := NewSimulator(cfg, src)
	if err != nil {
		return nil, err
	}
	s.Run()
	return s.Summary()
}

// RunSimulation is Run with positional parameters and FIFO removal.
func RunSimulation(eventCount int64, arrivalRate, serviceRate float64, batchSize int, src RandomSource) (*SummaryResult, error) {
	return Run(SimConfig{
		EventCount:  eventCount,
		ArrivalRate: arrivalRate,
		ServiceRate: serviceRate,
		BatchSize:   batchSize,
	}, src)
}
