package luck

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/stat/distuv"
)

func addAll(t *testing.T, s *Scorer, p, a float64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Add(p, a))
	}
}

func TestAddInvalidSample(t *testing.T) {
	s := NewScorer()
	assert.ErrorIs(t, s.Add(-0.1, 1), ErrInvalidSample)
	assert.ErrorIs(t, s.Add(1.1, 1), ErrInvalidSample)
	assert.ErrorIs(t, s.Add(0.5, -0.1), ErrInvalidSample)
	assert.ErrorIs(t, s.Add(0.5, 1.1), ErrInvalidSample)
	assert.ErrorIs(t, s.Add(math.NaN(), 1), ErrInvalidSample)
	assert.Equal(t, 0, s.Len())
}

func TestZeroVarianceAbsent(t *testing.T) {
	s := NewScorer()
	addAll(t, s, 0, 0, 3)
	addAll(t, s, 1, 1, 3)

	_, ok := s.Score()
	assert.False(t, ok, "only zero-variance samples must leave the score undefined")
	_, ok = s.Tails()
	assert.False(t, ok)

	// They still shift the surplus once an informative sample exists.
	require.NoError(t, s.Add(1, 0)) // cooler: 100% equity, lost
	require.NoError(t, s.Add(0.5, 1))
	assert.InDelta(t, -0.5, s.Surplus(), 1e-15)

	z, ok := s.Score()
	require.True(t, ok)
	assert.InDelta(t, -0.5/math.Sqrt(0.25), z, 1e-12)
}

func TestScoreTenHotSamples(t *testing.T) {
	s := NewScorer()
	addAll(t, s, 0.8, 1, 10)

	z, ok := s.Score()
	require.True(t, ok)
	// mu = 10 * 0.2 = 2, sigma^2 = 10 * 0.16 = 1.6
	assert.InDelta(t, 2/math.Sqrt(1.6), z, 1e-12)
	assert.Positive(t, z)
}

// TestExactTailsAllWins pins the exact convolution path: with ten samples at
// p = 0.8 all won, the upper tail is exactly P(win all ten) = 0.8^10.
func TestExactTailsAllWins(t *testing.T) {
	s := NewScorer()
	addAll(t, s, 0.8, 1, 10)

	tails, ok := s.Tails()
	require.True(t, ok)
	assert.InDelta(t, math.Pow(0.8, 10), tails.Upper, 1e-9)
	assert.InDelta(t, 1.0, tails.Lower, 1e-9)
	assert.InDelta(t, 2*math.Pow(0.8, 10), tails.TwoSided, 1e-9)
}

func TestExactTailsSingleCoinflip(t *testing.T) {
	s := NewScorer()
	require.NoError(t, s.Add(0.5, 1))

	tails, ok := s.Tails()
	require.True(t, ok)
	assert.InDelta(t, 0.5, tails.Upper, 1e-9, "winning the flip is the top atom")
	assert.InDelta(t, 1.0, tails.Lower, 1e-9)
	assert.InDelta(t, 1.0, tails.TwoSided, 1e-9)
}

func TestExactTailsChop(t *testing.T) {
	s := NewScorer()
	require.NoError(t, s.Add(0.5, 0.5)) // two-way chop

	z, ok := s.Score()
	require.True(t, ok)
	assert.InDelta(t, 0.0, z, 1e-15, "chopping at even equity is neutral")

	tails, ok := s.Tails()
	require.True(t, ok)
	assert.InDelta(t, 0.5, tails.Upper, 1e-9)
	assert.InDelta(t, 1.0, tails.Lower, 1e-9)
}

func TestNormalTailsLargeSample(t *testing.T) {
	s := NewScorer()
	addAll(t, s, 0.5, 1, 100) // beyond the exact-path cutoff

	z, ok := s.Score()
	require.True(t, ok)
	assert.InDelta(t, 10.0, z, 1e-12) // 50 / sqrt(25)

	tails, ok := s.Tails()
	require.True(t, ok)
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	assert.InDelta(t, normal.Survival(10), tails.Upper, 1e-30)
	assert.InDelta(t, normal.CDF(10), tails.Lower, 1e-12)
	assert.InDelta(t, 2*normal.Survival(10), tails.TwoSided, 1e-30)
}

// TestExactApproachesNormal sanity-checks that the two tail paths agree on a
// balanced sample near the cutoff.
func TestExactApproachesNormal(t *testing.T) {
	build := func(n int) *Scorer {
		s := NewScorer()
		for i := 0; i < n; i++ {
			// Alternate wins and losses at 50% equity: surplus stays zero.
			a := float64(i % 2)
			if err := s.Add(0.5, a); err != nil {
				t.Fatal(err)
			}
		}
		return s
	}

	exact := build(64)   // exact path
	normal := build(100) // normal path

	exactTails, ok := exact.Tails()
	require.True(t, ok)
	normalTails, ok := normal.Tails()
	require.True(t, ok)

	// Both are centered null distributions; the tails should be close to
	// one half up to the discrete atom at zero.
	assert.InDelta(t, normalTails.Upper, exactTails.Upper, 0.06)
	assert.InDelta(t, normalTails.Lower, exactTails.Lower, 0.06)
}

// TestCutoffPinnedAt64 pins the path switch: 64 samples still use the exact
// convolution, 65 fall back to the normal approximation.
func TestCutoffPinnedAt64(t *testing.T) {
	exact := NewScorer()
	addAll(t, exact, 0.8, 1, 64)
	tails, ok := exact.Tails()
	require.True(t, ok)
	assert.InDelta(t, math.Pow(0.8, 64), tails.Upper, 1e-7,
		"64 samples: exact all-win tail")

	approx := NewScorer()
	addAll(t, approx, 0.8, 1, 65)
	tails, ok = approx.Tails()
	require.True(t, ok)
	z, ok := approx.Score()
	require.True(t, ok)
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	assert.Equal(t, normal.Survival(z), tails.Upper,
		"65 samples: normal approximation")
}

func TestTailsDeterministic(t *testing.T) {
	run := func() (float64, Tails) {
		s := NewScorer()
		ps := []float64{0.1, 0.25, 0.6, 0.8, 0.97, 0.33}
		as := []float64{0, 1, 1, 0, 1, 0.5}
		for i := range ps {
			require.NoError(t, s.Add(ps[i], as[i]))
		}
		z, ok := s.Score()
		require.True(t, ok)
		tails, ok := s.Tails()
		require.True(t, ok)
		return z, tails
	}

	z1, t1 := run()
	z2, t2 := run()
	assert.Equal(t, z1, z2)
	assert.Equal(t, t1, t2)

	assert.GreaterOrEqual(t, t1.Upper, 0.0)
	assert.LessOrEqual(t, t1.Upper, 1.0)
	assert.GreaterOrEqual(t, t1.Lower, 0.0)
	assert.LessOrEqual(t, t1.Lower, 1.0)
	assert.LessOrEqual(t, t1.TwoSided, 1.0)
}
