package analytic

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/batchq-sim/sim"
)

func approxEqualTest(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestMM1_ClosedForms(t *testing.T) {
	// lambda=8, mu=10: rho=0.8, L=4, Lq=3.2, W=0.5, Wq=0.4
	q, err := NewMM1(8, 10)
	require.NoError(t, err)

	if !approxEqualTest(q.Rho(), 0.8, 1e-12) {
		t.Errorf("Rho mismatch: exp 0.8, got %.6f", q.Rho())
	}
	l, _ := q.L()
	lq, _ := q.Lq()
	w, _ := q.W()
	wq, _ := q.Wq()
	assert.InDelta(t, 4.0, l, 1e-9)
	assert.InDelta(t, 3.2, lq, 1e-9)
	assert.InDelta(t, 0.5, w, 1e-9)
	assert.InDelta(t, 0.4, wq, 1e-9)

	p0, _ := q.P(0)
	p2, _ := q.P(2)
	assert.InDelta(t, 0.2, p0, 1e-12)
	assert.InDelta(t, 0.2*0.64, p2, 1e-12)
}

func TestMM1_LittlesLaw(t *testing.T) {
	q, err := NewMM1(3, 7)
	require.NoError(t, err)
	l, _ := q.L()
	w, _ := q.W()
	assert.InDelta(t, l, q.ArrivalRate*w, 1e-12)
}

func TestMM1_Unstable(t *testing.T) {
	q, err := NewMM1(12, 10)
	require.NoError(t, err)
	assert.False(t, q.Stable())

	wq, err := q.Wq()
	assert.True(t, errors.Is(err, ErrUnstable))
	assert.True(t, math.IsInf(wq, 1), "Wq should be infinite for unstable queue, got %.4f", wq)

	_, err = q.Reference(5)
	assert.True(t, errors.Is(err, ErrUnstable))
}

func TestNewMM1_InvalidRates(t *testing.T) {
	for _, rates := range [][2]float64{{0, 1}, {1, 0}, {-1, 1}, {math.NaN(), 1}} {
		_, err := NewMM1(rates[0], rates[1])
		assert.True(t, errors.Is(err, ErrInvalidRate), "rates %v", rates)
	}
}

func TestReference_DistributionSumsBelowOne(t *testing.T) {
	q, _ := NewMM1(1, 2)
	ref, err := q.Reference(30)
	require.NoError(t, err)
	total := 0.0
	for _, p := range ref.P {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-9, "tail beyond 30 is 0.5^31")
}

// A long single-server run converges to the closed forms.
func TestMM1_MatchesLongSimulation(t *testing.T) {
	const lambda, mu = 0.5, 1.0
	res, err := sim.RunSimulation(400000, lambda, mu, 1, sim.NewSeededSource(31))
	require.NoError(t, err)

	q, err := NewMM1(lambda, mu)
	require.NoError(t, err)
	ref, err := q.Reference(3)
	require.NoError(t, err)

	assert.InDelta(t, ref.Rho, res.Utilization, 0.03)
	assert.InDelta(t, ref.W, res.U, 0.15*ref.W)
	assert.InDelta(t, ref.Wq, res.W, 0.2*ref.Wq)
	assert.InDelta(t, ref.L, res.N, 0.15*ref.L)
	assert.InDelta(t, ref.P[0], res.PK[0], 0.03)
	assert.InDelta(t, ref.P[1], res.PK[1], 0.03)
}
