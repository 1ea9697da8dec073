package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents        int
	Arrivals           int
	Departures         int
	BatchesStarted     int
	PeakLevel          int
	MeanInterEventTime float64
	LevelDistribution  map[int]int // level after event → count of events
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		LevelDistribution: make(map[int]int),
	}
	if st == nil || len(st.Events) == 0 {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	for _, e := range st.Events {
		switch e.Kind {
		case KindArrival:
			summary.Arrivals++
		case KindDeparture:
			summary.Departures++
		}
		if e.BatchStarted {
			summary.BatchesStarted++
		}
		if e.LevelAfter > summary.PeakLevel {
			summary.PeakLevel = e.LevelAfter
		}
		summary.LevelDistribution[e.LevelAfter]++
	}

	last := st.Events[len(st.Events)-1]
	summary.MeanInterEventTime = last.Time / float64(len(st.Events))

	return summary
}
