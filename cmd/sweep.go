package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/batchq-sim/sim"
	"github.com/inference-sim/batchq-sim/sim/experiment"
)

var (
	scenariosPath    string // Scenario YAML file
	sweepSeed        int64  // Seed for scenarios that do not set one
	sweepParallelism int    // Max concurrent replications per scenario
	sweepOutput      string // JSON results file
)

// sweepCmd runs every scenario of a scenario file
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run every scenario of a YAML scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarios, err := LoadScenarioFile(scenariosPath)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		results, err := executeSweep(ctx, cmd.OutOrStdout(), scenarios, sweepSeed, sweepParallelism)
		if err != nil {
			return err
		}
		return saveResults(sweepOutput, results)
	},
}

func init() {
	sweepCmd.Flags().StringVarP(&scenariosPath, "scenarios", "f", "scenarios.yaml", "Path to the scenario file")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 42, "Seed for scenarios without one")
	sweepCmd.Flags().IntVar(&sweepParallelism, "parallelism", 0, "Max replications running at once (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&sweepOutput, "output", "", "Write results as JSON to this file")
}

// executeSweep runs the scenarios in file order and returns their results keyed by name.
// Values are *sim.SummaryResult for single runs and *experiment.Aggregate otherwise.
func executeSweep(ctx context.Context, w io.Writer, scenarios []Scenario, defaultSeed int64, parallelism int) (map[string]any, error) {
	results := make(map[string]any, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logrus.Infof("Running scenario %s", s.Name)
		cfg := s.SimConfig()
		seed := s.SeedOr(defaultSeed)

		if s.Replications > 1 {
			agg, err := experiment.Replicate(ctx, experiment.Plan{
				Config:       cfg,
				Seed:         seed,
				Replications: s.Replications,
				Parallelism:  parallelism,
			})
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			printAggregate(w, s.Name, agg)
			results[s.Name] = agg
			continue
		}

		res, err := sim.Run(cfg, sim.NewSeededSource(seed))
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		printSummary(w, s.Name, res)
		results[s.Name] = res
	}
	return results, nil
}
