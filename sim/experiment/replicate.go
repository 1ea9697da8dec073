// Package experiment runs independent replications of one simulation
// configuration and aggregates their summaries.
package experiment

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inference-sim/batchq-sim/sim"
)

// Plan describes a set of replications.
type Plan struct {
	Config       sim.SimConfig
	Seed         int64 // master seed; replication i uses SubsystemReplication(i)
	Replications int   // must be >= 1
	Parallelism  int   // max concurrent runs; <= 0 means GOMAXPROCS
}

// MetricStats summarizes one scalar metric across replications.
type MetricStats struct {
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	HalfWidth95 float64 `json:"ci95_half_width"` // Student-t, 0 with fewer than two replications
}

// Aggregate is the outcome of Replicate.
type Aggregate struct {
	Replications int                  `json:"replications"`
	Seed         int64                `json:"seed"`
	DemandsCount MetricStats          `json:"demands_count"`
	U            MetricStats          `json:"u"`
	W            MetricStats          `json:"w"`
	N            MetricStats          `json:"n"`
	B            MetricStats          `json:"b"`
	Utilization  MetricStats          `json:"utilization"`
	PK           map[int]float64      `json:"pk"` // mean per level; absent levels count as 0
	Runs         []*sim.SummaryResult `json:"runs"`
}

// Replicate executes plan.Replications independent runs, at most
// plan.Parallelism at a time. Each run owns its engine and random stream,
// and results are kept in replication order, so the aggregate depends only
// on the plan. The first failing run cancels the remaining ones.
func Replicate(ctx context.Context, plan Plan) (*Aggregate, error) {
	if plan.Replications < 1 {
		return nil, fmt.Errorf("%w: replications must be >= 1, got %d", sim.ErrInvalidParameter, plan.Replications)
	}
	if err := plan.Config.Validate(); err != nil {
		return nil, err
	}
	parallelism := plan.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	// Streams are derived up front: PartitionedRNG is not safe for concurrent use.
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(plan.Seed))
	sources := make([]sim.RandomSource, plan.Replications)
	for i := range sources {
		sources[i] = sim.NewExponentialSource(rng.ForSubsystem(sim.SubsystemReplication(i)))
	}

	results := make([]*sim.SummaryResult, plan.Replications)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := sim.Run(plan.Config, sources[i])
			if err != nil {
				return fmt.Errorf("replication %d: %w", i, err)
			}
			logrus.Debugf("replication %d done: U=%.4f W=%.4f N=%.4f", i, res.U, res.W, res.N)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := Summarize(results)
	agg.Seed = plan.Seed
	logrus.Infof("Completed %d replications (parallelism %d)", plan.Replications, parallelism)
	return agg, nil
}

// Summarize aggregates already computed run summaries.
func Summarize(runs []*sim.SummaryResult) *Aggregate {
	agg := &Aggregate{
		Replications: len(runs),
		PK:           make(map[int]float64),
		Runs:         runs,
	}
	if len(runs) == 0 {
		return agg
	}

	pick := func(f func(*sim.SummaryResult) float64) MetricStats {
		xs := make([]float64, len(runs))
		for i, r := range runs {
			xs[i] = f(r)
		}
		return describe(xs)
	}
	agg.DemandsCount = pick(func(r *sim.SummaryResult) float64 { return float64(r.DemandsCount) })
	agg.U = pick(func(r *sim.SummaryResult) float64 { return r.U })
	agg.W = pick(func(r *sim.SummaryResult) float64 { return r.W })
	agg.N = pick(func(r *sim.SummaryResult) float64 { return r.N })
	agg.B = pick(func(r *sim.SummaryResult) float64 { return r.B })
	agg.Utilization = pick(func(r *sim.SummaryResult) float64 { return r.Utilization })

	for _, r := range runs {
		for _, level := range r.Levels() {
			agg.PK[level] += r.PK[level] / float64(len(runs))
		}
	}
	return agg
}

func describe(xs []float64) MetricStats {
	if len(xs) < 2 {
		return MetricStats{Mean: stat.Mean(xs, nil)}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(xs) - 1)}
	return MetricStats{
		Mean:        mean,
		StdDev:      std,
		HalfWidth95: t.Quantile(0.975) * std / math.Sqrt(float64(len(xs))),
	}
}
