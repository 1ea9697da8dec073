// Package analytic provides closed-form steady-state metrics of the M/M/1
// queue, used to sanity-check simulated runs with batch size 1.
package analytic

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRate is returned for a non-positive or NaN rate.
	ErrInvalidRate = errors.New("rate must be > 0")
	// ErrUnstable is returned for steady-state queries when ρ ≥ 1.
	ErrUnstable = errors.New("queue is unstable (utilization >= 1)")
)

// MM1 models a single-server queue with Poisson arrivals and exponential service.
type MM1 struct {
	ArrivalRate float64 // λ (lambda)
	ServiceRate float64 // μ (mu)

	// Internal derived values
	utilization float64 // ρ (rho) = λ / μ
}

// NewMM1 validates the rates and derives ρ.
func NewMM1(arrivalRate, serviceRate float64) (*MM1, error) {
	if !(arrivalRate > 0) {
		return nil, fmt.Errorf("arrival %w, got %v", ErrInvalidRate, arrivalRate)
	}
	if !(serviceRate > 0) {
		return nil, fmt.Errorf("service %w, got %v", ErrInvalidRate, serviceRate)
	}
	return &MM1{
		ArrivalRate: arrivalRate,
		ServiceRate: serviceRate,
		utilization: arrivalRate / serviceRate,
	}, nil
}

// Rho returns the offered load λ/μ.
func (q *MM1) Rho() float64 {
	return q.utilization
}

// Stable reports whether ρ < 1.
func (q *MM1) Stable() bool {
	return q.utilization < 1.0
}

// L returns the mean number in system, ρ/(1-ρ).
func (q *MM1) L() (float64, error) {
	if !q.Stable() {
		return math.Inf(1), ErrUnstable
	}
	return q.utilization / (1 - q.utilization), nil
}

// Lq returns the mean number waiting, ρ²/(1-ρ).
func (q *MM1) Lq() (float64, error) {
	if !q.Stable() {
		return math.Inf(1), ErrUnstable
	}
	return q.utilization * q.utilization / (1 - q.utilization), nil
}

// W returns the mean time in system, 1/(μ-λ).
func (q *MM1) W() (float64, error) {
	if !q.Stable() {
		return math.Inf(1), ErrUnstable
	}
	return 1 / (q.ServiceRate - q.ArrivalRate), nil
}

// Wq returns the mean wait in queue, ρ/(μ-λ).
func (q *MM1) Wq() (float64, error) {
	if !q.Stable() {
		return math.Inf(1), ErrUnstable
	}
	return q.utilization / (q.ServiceRate - q.ArrivalRate), nil
}

// P returns the steady-state probability of n customers in system, (1-ρ)ρⁿ.
func (q *MM1) P(n int) (float64, error) {
	if !q.Stable() {
		return 0, ErrUnstable
	}
	if n < 0 {
		return 0, nil
	}
	return (1 - q.utilization) * math.Pow(q.utilization, float64(n)), nil
}

// Reference bundles the values comparable with a simulated summary.
type Reference struct {
	Rho float64         `json:"rho"`
	L   float64         `json:"l"`
	Lq  float64         `json:"lq"`
	W   float64         `json:"w"`
	Wq  float64         `json:"wq"`
	P   map[int]float64 `json:"p"`
}

// Reference evaluates every metric, with P filled for levels 0..maxLevel.
func (q *MM1) Reference(maxLevel int) (*Reference, error) {
	if !q.Stable() {
		return nil, fmt.Errorf("%w: ρ=%.4f", ErrUnstable, q.utilization)
	}
	l, _ := q.L()
	lq, _ := q.Lq()
	w, _ := q.W()
	wq, _ := q.Wq()
	ref := &Reference{Rho: q.utilization, L: l, Lq: lq, W: w, Wq: wq, P: make(map[int]float64, maxLevel+1)}
	for n := 0; n <= maxLevel; n++ {
		ref.P[n], _ = q.P(n)
	}
	return ref, nil
}
