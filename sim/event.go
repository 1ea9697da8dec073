package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/batchq-sim/sim/trace"
)

// Event defines the interface for the simulation events.
// Each event has a Timestamp and an Execute method that mutates
// simulation state when invoked. The clock has already been advanced
// to Timestamp() when Execute runs.
type Event interface {
	Timestamp() float64
	Kind() string
	Execute(*Simulator)
}

// ArrivalEvent represents the arrival of a new customer.
type ArrivalEvent struct {
	time float64 // Simulation time of arrival
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 {
	return e.time
}

// Kind returns trace.KindArrival.
func (e *ArrivalEvent) Kind() string {
	return trace.KindArrival
}

// Execute registers the arriving customer, starts a batch if one can be
// formed while the server is idle, and schedules the next arrival.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Arrival: customer %d at %.4f", sim.nextCustomerID+1, e.time)
	sim.handleArrival()
}

// DepartureEvent represents the completion of the batch in service.
type DepartureEvent struct {
	time float64 // Simulation time of batch completion
}

// Timestamp returns the scheduled time of the DepartureEvent.
func (e *DepartureEvent) Timestamp() float64 {
	return e.time
}

// Kind returns trace.KindDeparture.
func (e *DepartureEvent) Kind() string {
	return trace.KindDeparture
}

// Execute removes the finished batch and starts the next one if enough
// customers are waiting.
func (e *DepartureEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Departure: batch of %d at %.4f", sim.BatchSize, e.time)
	sim.handleDeparture()
}
