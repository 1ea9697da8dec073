package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/batchq-sim/sim"
	"github.com/inference-sim/batchq-sim/sim/experiment"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgWhite)
	warnColor   = color.New(color.FgYellow)
	goodColor   = color.New(color.FgGreen)
	badColor    = color.New(color.FgRed)
)

// comparisonTolerance is the relative deviation from the closed form above
// which a simulated value is highlighted.
const comparisonTolerance = 0.10

// printSummary displays the metrics of a single run.
func printSummary(w io.Writer, title string, res *sim.SummaryResult) {
	headerColor.Fprintf(w, "=== Simulation Summary: %s ===\n", title)
	row(w, "Demands count", fmt.Sprintf("%d", res.DemandsCount))
	row(w, "Departed", fmt.Sprintf("%d", res.Departed))
	row(w, "Batches started", fmt.Sprintf("%d", res.Batches))
	row(w, "Model time", fmt.Sprintf("%.6f", res.ModelTime))
	row(w, "U (time in system)", fmt.Sprintf("%.6f", res.U))
	row(w, "W (wait in queue)", fmt.Sprintf("%.6f", res.W))
	row(w, "N (number in system)", fmt.Sprintf("%.6f", res.N))
	row(w, "B (queue delay rate)", fmt.Sprintf("%.6f", res.B))
	row(w, "Utilization", fmt.Sprintf("%.6f", res.Utilization))
	printPK(w, res.PK)
}

// printAggregate displays replication means with their 95% confidence half widths.
func printAggregate(w io.Writer, title string, agg *experiment.Aggregate) {
	headerColor.Fprintf(w, "=== Simulation Summary: %s (%d replications, seed %d) ===\n", title, agg.Replications, agg.Seed)
	stats := func(label string, m experiment.MetricStats) {
		row(w, label, fmt.Sprintf("%.6f ± %.6f (sd %.6f)", m.Mean, m.HalfWidth95, m.StdDev))
	}
	stats("Demands count", agg.DemandsCount)
	stats("U (time in system)", agg.U)
	stats("W (wait in queue)", agg.W)
	stats("N (number in system)", agg.N)
	stats("B (queue delay rate)", agg.B)
	stats("Utilization", agg.Utilization)

	printPK(w, agg.PK)
}

// printComparison prints simulated values next to the M/M/1 closed form.
func printComparison(w io.Writer, cfg sim.SimConfig, u, wq, n, utilization float64) {
	ref, reason := analyticReference(cfg)
	if ref == nil {
		warnColor.Fprintf(w, "Analytic comparison skipped: %s\n", reason)
		return
	}
	headerColor.Fprintln(w, "=== M/M/1 Comparison ===")
	fmt.Fprintf(w, "%-22s %12s %12s %9s\n", "metric", "simulated", "analytic", "delta")
	compare := func(label string, simulated, expected float64) {
		fmt.Fprintf(w, "%-22s %12.6f %12.6f ", label, simulated, expected)
		delta := relativeDelta(simulated, expected)
		c := goodColor
		if delta > comparisonTolerance {
			c = badColor
		}
		c.Fprintf(w, "%8.2f%%\n", 100*delta)
	}
	compare("U (time in system)", u, ref.W)
	compare("W (wait in queue)", wq, ref.Wq)
	compare("N (number in system)", n, ref.L)
	compare("Utilization", utilization, ref.Rho)
}

func relativeDelta(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

func row(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "%-22s: ", label)
	fmt.Fprintln(w, value)
}

func printPK(w io.Writer, pk map[int]float64) {
	fmt.Fprintln(w, "Occupancy distribution:")
	for _, level := range sim.SortedLevels(pk) {
		fmt.Fprintf(w, "  k=%-4d p=%.6f\n", level, pk[level])
	}
}

// saveResults writes v as indented JSON to path. An empty path is a no-op.
func saveResults(path string, v any) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", path, err)
	}
	logrus.Infof("Results written to %s", path)
	return nil
}
