// Package trace provides per-event trace recording for a simulation run.
// It has no dependencies on sim/ and stores plain data types.
package trace

// Event kinds as they appear in records.
const (
	KindArrival   = "arrival"
	KindDeparture = "departure"
)

// EventRecord captures the state transition of one executed event.
type EventRecord struct {
	Seq          int64   `json:"seq"`                   // 1-based event index within the run
	Kind         string  `json:"kind"`                  // KindArrival or KindDeparture
	Time         float64 `json:"time"`                  // clock after the advance
	LevelBefore  int     `json:"level_before"`          // customers present before the event
	LevelAfter   int     `json:"level_after"`           // customers present after the event
	BatchStarted bool    `json:"batch_started"`         // a batch entered service during this event
	CustomerID   int     `json:"customer_id,omitempty"` // arriving customer, arrivals only
}
