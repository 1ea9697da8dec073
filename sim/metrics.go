// Tracks per-customer timing records and the time-weighted occupancy history,
// and derives the summary metrics of a run from them.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// OccupancySample records that the system held exactly Level customers for
// Duration simulated time units. The ordered samples of a run partition [0, clock].
type OccupancySample struct {
	Duration float64
	Level    int
}

// Statistics aggregates everything needed to summarize a run.
// Records are append-only and retained for the whole run.
type Statistics struct {
	customers        []*Customer // customers[id-1]
	samples          []OccupancySample
	serviceDurations []float64

	area    float64 // running Σ level·duration
	elapsed float64 // running Σ duration
}

// NewStatistics creates an empty Statistics.
func NewStatistics() *Statistics {
	return &Statistics{
		customers:        make([]*Customer, 0),
		samples:          make([]OccupancySample, 0),
		serviceDurations: make([]float64, 0),
	}
}

// Register adds a newly arrived customer. IDs must be registered in order 1, 2, 3, ...
func (s *Statistics) Register(c *Customer) {
	if c == nil {
		panic("Register: customer must not be nil")
	}
	if c.ID != len(s.customers)+1 {
		panic(fmt.Sprintf("Register: customer ID %d out of sequence, want %d", c.ID, len(s.customers)+1))
	}
	s.customers = append(s.customers, c)
}

// AssignService stamps the service timing of a batch member.
func (s *Statistics) AssignService(c *Customer, start, duration float64) {
	c.Service = &ServiceAssignment{
		Start:     start,
		Duration:  duration,
		Departure: start + duration,
	}
}

// RecordOccupancy appends an occupancy sample.
func (s *Statistics) RecordOccupancy(duration float64, level int) {
	s.samples = append(s.samples, OccupancySample{Duration: duration, Level: level})
	s.area += float64(level) * duration
	s.elapsed += duration
}

// RecordService appends the sampled duration of a batch that entered service.
func (s *Statistics) RecordService(duration float64) {
	s.serviceDurations = append(s.serviceDurations, duration)
}

// Customer returns the record with the given ID.
func (s *Statistics) Customer(id int) (*Customer, bool) {
	if id < 1 || id > len(s.customers) {
		return nil, false
	}
	return s.customers[id-1], true
}

// Customers returns every registered customer in ID order.
// Callers MUST NOT modify the returned slice.
func (s *Statistics) Customers() []*Customer {
	return s.customers
}

// Samples returns the occupancy history in time order.
func (s *Statistics) Samples() []OccupancySample {
	return s.samples
}

// ServiceDurations returns the sampled duration of every batch that entered service.
func (s *Statistics) ServiceDurations() []float64 {
	return s.serviceDurations
}

// Area returns the area under the occupancy curve, Σ level·duration.
func (s *Statistics) Area() float64 {
	return s.area
}

// Elapsed returns the total duration covered by the occupancy samples.
func (s *Statistics) Elapsed() float64 {
	return s.elapsed
}

// sumServed returns Σ(departure - arrival) and Σ(start - arrival) over the
// first n customers that have a service assignment.
func (s *Statistics) sumServed(n int) (system, wait float64) {
	if n > len(s.customers) {
		n = len(s.customers)
	}
	for _, c := range s.customers[:n] {
		if t, ok := c.TimeInSystem(); ok {
			system += t
		}
		if w, ok := c.WaitInQueue(); ok {
			wait += w
		}
	}
	return system, wait
}

// OccupancyDistribution returns, per observed level, the fraction of
// modelTime during which the system held exactly that level.
func (s *Statistics) OccupancyDistribution(modelTime float64) map[int]float64 {
	sums := make(map[int]float64)
	for _, sample := range s.samples {
		sums[sample.Level] += sample.Duration
	}
	pk := make(map[int]float64, len(sums))
	for level, total := range sums {
		pk[level] = total / modelTime
	}
	return pk
}

// ExpectedNumber returns Σ level·pk(level). Levels are summed in ascending
// order so the result does not depend on map iteration order.
func ExpectedNumber(pk map[int]float64) float64 {
	n := 0.0
	for _, level := range SortedLevels(pk) {
		n += float64(level) * pk[level]
	}
	return n
}

// SortedLevels returns the occupancy levels of pk in ascending order.
func SortedLevels(pk map[int]float64) []int {
	levels := make([]int, 0, len(pk))
	for level := range pk {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Summarize computes the summary metrics over the first `arrived` customers
// and the elapsed time modelTime.
//
// U and W average over customers with a service assignment but divide by
// arrived, so customers still waiting at the end only enlarge the denominator.
func (s *Statistics) Summarize(arrived int, modelTime float64) (*SummaryResult, error) {
	if !(modelTime > 0) {
		return nil, fmt.Errorf("%w: model time is %v", ErrInsufficientRunLength, modelTime)
	}
	if arrived <= 0 {
		return nil, fmt.Errorf("%w: no customers arrived", ErrInsufficientRunLength)
	}

	system, wait := s.sumServed(arrived)
	pk := s.OccupancyDistribution(modelTime)

	return &SummaryResult{
		DemandsCount: arrived,
		U:            system / float64(arrived),
		W:            wait / float64(arrived),
		PK:           pk,
		N:            ExpectedNumber(pk),
		B:            wait / modelTime,
		Utilization:  floats.Sum(s.serviceDurations) / modelTime,
		ModelTime:    modelTime,
		Batches:      len(s.serviceDurations),
	}, nil
}

// SummaryResult is the outcome of one run.
type SummaryResult struct {
	DemandsCount int             `json:"demands_count"` // customers arrived
	U            float64         `json:"u"`             // mean time in system
	W            float64         `json:"w"`             // mean wait in queue
	PK           map[int]float64 `json:"pk"`            // occupancy level -> fraction of time
	N            float64         `json:"n"`             // expected number in system
	B            float64         `json:"b"`             // summed queue wait per unit time
	Utilization  float64         `json:"utilization"`   // summed service durations per unit time

	Departed  int     `json:"departed"`
	ModelTime float64 `json:"model_time"`
	Batches   int     `json:"batches"` // batches that entered service
}

// Levels returns the observed occupancy levels in ascending order.
func (r *SummaryResult) Levels() []int {
	return SortedLevels(r.PK)
}
