// Defines the Customer struct that models an individual customer in the simulation.
// Tracks arrival time and, once the customer joins a batch, its service timing.

package sim

import (
	"fmt"
)

// ServiceAssignment holds the timing stamped on a customer when its batch
// enters service. Every member of a batch shares Start, Duration and Departure.
type ServiceAssignment struct {
	Start     float64 // clock value when the batch entered service
	Duration  float64 // sampled service duration of the batch
	Departure float64 // Start + Duration
}

// Customer models a single customer's lifecycle in the simulation.
// Service is nil until the customer is assigned to a batch; a nil
// assignment means "not yet computed", never a zero wait.
type Customer struct {
	ID          int     // 1-based, strictly increasing in arrival order
	ArrivalTime float64 // simulated time of arrival
	Service     *ServiceAssignment
}

// Served reports whether the customer has been assigned to a batch.
func (c *Customer) Served() bool {
	return c.Service != nil
}

// TimeInSystem returns departure - arrival, or false if the customer has no assignment yet.
func (c *Customer) TimeInSystem() (float64, bool) {
	if c.Service == nil {
		return 0, false
	}
	return c.Service.Departure - c.ArrivalTime, true
}

// WaitInQueue returns service start - arrival, or false if the customer has no assignment yet.
func (c *Customer) WaitInQueue() (float64, bool) {
	if c.Service == nil {
		return 0, false
	}
	return c.Service.Start - c.ArrivalTime, true
}

// This method returns a human-readable string representation of a Customer.
func (c Customer) String() string {
	if c.Service == nil {
		return fmt.Sprintf("Customer: (ID: %d, ArrivalTime: %.4f, Service: pending)", c.ID, c.ArrivalTime)
	}
	return fmt.Sprintf("Customer: (ID: %d, ArrivalTime: %.4f, ServiceStart: %.4f, ServiceTime: %.4f, Departure: %.4f)",
		c.ID, c.ArrivalTime, c.Service.Start, c.Service.Duration, c.Service.Departure)
}
