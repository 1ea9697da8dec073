package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/inference-sim/batchq-sim/sim"
	"github.com/inference-sim/batchq-sim/sim/analytic"
	"github.com/inference-sim/batchq-sim/sim/experiment"
	"github.com/inference-sim/batchq-sim/sim/trace"
)

var (
	_ pflag.Value = (*sim.RemovalPolicy)(nil)
	_ pflag.Value = (*trace.TraceLevel)(nil)
)

// runOptions is the resolved configuration of the run command.
type runOptions struct {
	Config       sim.SimConfig
	Seed         int64
	Replications int
	Parallelism  int
	Compare      bool
	Output       string
	TraceLevel   trace.TraceLevel
	TraceOutput  string
}

// runCmd executes the simulation using parameters from flags, environment and config file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the batch-service queue simulation",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Bound here rather than in init so that sweep's flags of the same
		// name do not steal the keys.
		return viper.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptionsFromViper(viper.GetViper())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return executeRun(ctx, cmd.OutOrStdout(), opts)
	},
}

func init() {
	registerRunFlags(runCmd.Flags())
}

// registerRunFlags declares the run flags on fs. Flag names double as viper keys.
func registerRunFlags(fs *pflag.FlagSet) {
	removal := sim.RemovalFIFO
	level := trace.TraceLevelNone

	fs.Int64("events", 10000, "Number of events (arrivals + departures) to simulate")
	fs.Float64("arrival-rate", 1.0, "Arrival rate λ (customers per unit time)")
	fs.Float64("service-rate", 2.0, "Service rate μ of the exponential batch service time")
	fs.Int("batch-size", 1, "Customers served together in one batch")
	fs.Var(&removal, "removal", "Order in which a finished batch leaves the queue (fifo, lifo)")
	fs.Int64("seed", 42, "Seed for the random interarrival and service streams")

	fs.Int("replications", 1, "Independent replications to run and aggregate")
	fs.Int("parallelism", 0, "Max replications running at once (0 = GOMAXPROCS)")
	fs.Bool("compare", false, "Print closed-form M/M/1 values next to the results (batch size 1 only)")
	fs.String("output", "", "Write results as JSON to this file")

	fs.Var(&level, "trace", "Event trace level (none, events)")
	fs.String("trace-output", "", "Write trace records as JSON to this file (requires --trace events)")
}

// runOptionsFromViper resolves and validates the run options held by v.
func runOptionsFromViper(v *viper.Viper) (runOptions, error) {
	removal := sim.RemovalFIFO
	if name := v.GetString("removal"); name != "" {
		if err := removal.Set(name); err != nil {
			return runOptions{}, err
		}
	}
	var level trace.TraceLevel
	if err := level.Set(v.GetString("trace")); err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		Config: sim.SimConfig{
			EventCount:    v.GetInt64("events"),
			ArrivalRate:   v.GetFloat64("arrival-rate"),
			ServiceRate:   v.GetFloat64("service-rate"),
			BatchSize:     v.GetInt("batch-size"),
			RemovalPolicy: removal,
		},
		Seed:         v.GetInt64("seed"),
		Replications: v.GetInt("replications"),
		Parallelism:  v.GetInt("parallelism"),
		Compare:      v.GetBool("compare"),
		Output:       v.GetString("output"),
		TraceLevel:   level,
		TraceOutput:  v.GetString("trace-output"),
	}
	if err := opts.Config.Validate(); err != nil {
		return runOptions{}, err
	}
	if opts.Replications < 1 {
		return runOptions{}, fmt.Errorf("%w: replications must be >= 1, got %d", sim.ErrInvalidParameter, opts.Replications)
	}
	if opts.TraceOutput != "" && opts.TraceLevel != trace.TraceLevelEvents {
		return runOptions{}, fmt.Errorf("--trace-output requires --trace %s", trace.TraceLevelEvents)
	}
	return opts, nil
}

// executeRun runs the simulation described by opts and reports to w.
func executeRun(ctx context.Context, w io.Writer, opts runOptions) error {
	logrus.Infof("Starting run: events=%d, λ=%v, μ=%v, batch=%d, seed=%d, replications=%d",
		opts.Config.EventCount, opts.Config.ArrivalRate, opts.Config.ServiceRate,
		opts.Config.BatchSize, opts.Seed, opts.Replications)

	if opts.Replications > 1 {
		if opts.TraceLevel == trace.TraceLevelEvents {
			logrus.Warn("Event tracing is ignored when running replications")
		}
		agg, err := experiment.Replicate(ctx, experiment.Plan{
			Config:       opts.Config,
			Seed:         opts.Seed,
			Replications: opts.Replications,
			Parallelism:  opts.Parallelism,
		})
		if err != nil {
			return err
		}
		printAggregate(w, "run", agg)
		if opts.Compare {
			printComparison(w, opts.Config, agg.U.Mean, agg.W.Mean, agg.N.Mean, agg.Utilization.Mean)
		}
		return saveResults(opts.Output, agg)
	}

	s, err := sim.NewSimulator(opts.Config, sim.NewSeededSource(opts.Seed))
	if err != nil {
		return err
	}
	var st *trace.SimulationTrace
	if opts.TraceLevel == trace.TraceLevelEvents {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
		s.SetTrace(st)
	}
	s.Run()

	res, err := s.Summary()
	if err != nil {
		return err
	}
	printSummary(w, "run", res)
	if opts.Compare {
		printComparison(w, opts.Config, res.U, res.W, res.N, res.Utilization)
	}
	if st != nil {
		ts := trace.Summarize(st)
		logrus.Infof("Trace: %d events (%d arrivals, %d departures), %d batches started, peak level %d",
			ts.TotalEvents, ts.Arrivals, ts.Departures, ts.BatchesStarted, ts.PeakLevel)
		if err := saveResults(opts.TraceOutput, st.Events); err != nil {
			return err
		}
	}
	return saveResults(opts.Output, res)
}

// analyticReference returns the M/M/1 reference for cfg, or nil with a
// reason when the closed form does not apply.
func analyticReference(cfg sim.SimConfig) (*analytic.Reference, string) {
	if cfg.BatchSize != 1 {
		return nil, "closed form available for batch size 1 only"
	}
	q, err := analytic.NewMM1(cfg.ArrivalRate, cfg.ServiceRate)
	if err != nil {
		return nil, err.Error()
	}
	ref, err := q.Reference(0)
	if err != nil {
		return nil, err.Error()
	}
	return ref, ""
}
