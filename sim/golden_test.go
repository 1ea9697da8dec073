package sim

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/batchq-sim/sim/internal/testutil"
)

const goldenRelTol = 1e-9

func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			// GIVEN the golden configuration with mean durations
			cfg := SimConfig{
				EventCount:    tc.EventCount,
				ArrivalRate:   tc.ArrivalRate,
				ServiceRate:   tc.ServiceRate,
				BatchSize:     tc.BatchSize,
				RemovalPolicy: RemovalPolicy(tc.RemovalPolicy),
			}

			// WHEN run to completion
			res, err := Run(cfg, MeanSource{})
			require.NoError(t, err)

			// THEN counts match exactly
			want := tc.Metrics
			assert.Equal(t, want.Arrived, res.DemandsCount, "arrived")
			assert.Equal(t, want.Departed, res.Departed, "departed")
			assert.Equal(t, want.Batches, res.Batches, "batches")

			// AND metrics match within tolerance
			testutil.AssertFloat64Equal(t, "model_time", want.ModelTime, res.ModelTime, goldenRelTol)
			testutil.AssertFloat64Equal(t, "u", want.U, res.U, goldenRelTol)
			testutil.AssertFloat64Equal(t, "w", want.W, res.W, goldenRelTol)
			testutil.AssertFloat64Equal(t, "n", want.N, res.N, goldenRelTol)
			testutil.AssertFloat64Equal(t, "b", want.B, res.B, goldenRelTol)
			testutil.AssertFloat64Equal(t, "utilization", want.Utilization, res.Utilization, goldenRelTol)

			require.Len(t, res.PK, len(want.PK), "observed levels")
			for key, p := range want.PK {
				level, err := strconv.Atoi(key)
				require.NoError(t, err)
				got, ok := res.PK[level]
				require.True(t, ok, "level %d missing", level)
				testutil.AssertFloat64Equal(t, "pk["+key+"]", p, got, goldenRelTol)
			}
		})
	}
}
