// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/batchq-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, system state, and the event loop.
//
// Only two events can ever be pending: the next arrival and, while a batch is
// in service, its departure. They are kept as timestamps rather than in a
// priority queue. NextDeparture is +Inf when the server is idle.
type Simulator struct {
	Clock         float64
	NextArrival   float64
	NextDeparture float64

	InSystem       int   // customers present (waiting + in service)
	Arrived        int   // customers arrived so far
	Departed       int   // customers whose batch completed; always a multiple of BatchSize
	EventsExecuted int64 // number of Advance calls so far

	ArrivalRate   float64
	ServiceRate   float64
	BatchSize     int
	RemovalPolicy RemovalPolicy
	EventCount    int64 // events executed by Run

	// WaitQ aka customers present in the system, oldest first
	WaitQ *WaitQueue
	Stats *Statistics
	// Trace is nil unless SetTrace was called
	Trace *trace.SimulationTrace

	source         RandomSource
	nextCustomerID int
	batchStarted   bool // set by startBatch during the current event
}

// NewSimulator validates cfg and returns a simulator at time zero with the
// first arrival scheduled at time zero and the server idle.
func NewSimulator(cfg SimConfig, src RandomSource) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: random source must not be nil", ErrInvalidParameter)
	}
	policy := cfg.RemovalPolicy
	if policy == "" {
		policy = RemovalFIFO
	}
	return &Simulator{
		Clock:         0,
		NextArrival:   0,
		NextDeparture: math.Inf(1),
		ArrivalRate:   cfg.ArrivalRate,
		ServiceRate:   cfg.ServiceRate,
		BatchSize:     cfg.BatchSize,
		RemovalPolicy: policy,
		EventCount:    cfg.EventCount,
		WaitQ:         &WaitQueue{},
		Stats:         NewStatistics(),
		source:        src,
	}, nil
}

// SetTrace attaches a trace that receives one record per executed event.
func (sim *Simulator) SetTrace(st *trace.SimulationTrace) {
	sim.Trace = st
}

// Busy reports whether a batch is currently in service.
func (sim *Simulator) Busy() bool {
	return !math.IsInf(sim.NextDeparture, 1)
}

// nextEvent returns the earliest pending event. Arrivals win ties.
func (sim *Simulator) nextEvent() Event {
	if sim.NextArrival <= sim.NextDeparture {
		return &ArrivalEvent{time: sim.NextArrival}
	}
	return &DepartureEvent{time: sim.NextDeparture}
}

// Advance executes exactly one event: it records the occupancy level that
// held since the previous event, moves the clock and dispatches.
func (sim *Simulator) Advance() {
	ev := sim.nextEvent()
	levelBefore := sim.InSystem

	sim.Stats.RecordOccupancy(ev.Timestamp()-sim.Clock, levelBefore)
	sim.Clock = ev.Timestamp()
	sim.EventsExecuted++
	logrus.Debugf("[t=%.4f] Executing %T", sim.Clock, ev)

	sim.batchStarted = false
	ev.Execute(sim)

	if sim.Trace != nil {
		record := trace.EventRecord{
			Seq:          sim.EventsExecuted,
			Kind:         ev.Kind(),
			Time:         sim.Clock,
			LevelBefore:  levelBefore,
			LevelAfter:   sim.InSystem,
			BatchStarted: sim.batchStarted,
		}
		if ev.Kind() == trace.KindArrival {
			record.CustomerID = sim.nextCustomerID
		}
		sim.Trace.RecordEvent(record)
	}
}

// Run executes EventCount events.
func (sim *Simulator) Run() {
	logrus.Infof("Starting simulation: events=%d, λ=%v, μ=%v, batch=%d, removal=%s",
		sim.EventCount, sim.ArrivalRate, sim.ServiceRate, sim.BatchSize, sim.RemovalPolicy)
	for i := int64(0); i < sim.EventCount; i++ {
		sim.Advance()
	}
	logrus.Infof("[t=%.4f] Simulation ended: arrived=%d, departed=%d, in system=%d",
		sim.Clock, sim.Arrived, sim.Departed, sim.InSystem)
}

// Summary computes the metrics of the events executed so far.
func (sim *Simulator) Summary() (*SummaryResult, error) {
	res, err := sim.Stats.Summarize(sim.Arrived, sim.Clock)
	if err != nil {
		return nil, err
	}
	res.Departed = sim.Departed
	return res, nil
}

func (sim *Simulator) handleArrival() {
	sim.nextCustomerID++
	c := &Customer{
		ID:          sim.nextCustomerID,
		ArrivalTime: sim.NextArrival,
	}
	sim.Stats.Register(c)
	sim.WaitQ.Enqueue(c)
	sim.InSystem++
	sim.Arrived++

	if sim.InSystem >= sim.BatchSize && !sim.Busy() {
		sim.startBatch()
	}

	sim.NextArrival = sim.Clock + sim.source.SampleExponential(sim.ArrivalRate)
}

func (sim *Simulator) handleDeparture() {
	sim.InSystem -= sim.BatchSize
	sim.Departed += sim.BatchSize
	sim.WaitQ.DequeueBatch(sim.BatchSize, sim.RemovalPolicy)

	if sim.InSystem >= sim.BatchSize {
		sim.startBatch()
	} else {
		sim.NextDeparture = math.Inf(1)
	}
}

// startBatch puts the BatchSize oldest customers into service together.
func (sim *Simulator) startBatch() {
	duration := sim.source.SampleExponential(sim.ServiceRate)
	sim.NextDeparture = sim.Clock + duration
	for _, c := range sim.WaitQ.Head(sim.BatchSize) {
		sim.Stats.AssignService(c, sim.Clock, duration)
	}
	sim.Stats.RecordService(duration)
	sim.batchStarted = true
	logrus.Debugf("[t=%.4f] Batch of %d entered service, departs at %.4f",
		sim.Clock, sim.BatchSize, sim.NextDeparture)
}
