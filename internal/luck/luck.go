// Package luck scores how far a sequence of all-in outcomes deviates from
// the equities the player held, under the null hypothesis that outcomes
// match equity. The headline statistic is a Lyapunov-CLT z-score; tail
// p-values come from the normal approximation, or from an exact FFT
// convolution of the per-sample surplus distributions when the sample is
// small.
package luck

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidSample is returned by Add for probabilities outside [0,1].
var ErrInvalidSample = errors.New("invalid luck sample")

const (
	// exactTailMaxSamples is the largest sample count for which Tails uses
	// the exact convolution instead of the normal approximation.
	exactTailMaxSamples = 64

	// tinyVariance forces the exact path when the accumulated null
	// variance is positive but numerically negligible.
	tinyVariance = 1e-9

	// gridSize is the FFT grid length. The convolved support is scaled to
	// occupy at most half of it, leaving one bit of headroom against
	// circular wrap-around.
	gridSize = 1 << 13
)

// sample is one (equity, outcome) observation. chopWays is 1 for plain
// win/lose outcomes and k when the pot was chopped k ways (outcome 1/k).
type sample struct {
	p        float64
	a        float64
	chopWays int
}

// Tails bundles the three tail p-values of a score.
type Tails struct {
	Upper    float64
	Lower    float64
	TwoSided float64
}

// Scorer accumulates (equity, outcome) samples. It is a single-owner
// mutable accumulator; readers take snapshots by value via Score and Tails.
type Scorer struct {
	samples  []sample
	surplus  float64 // running sum of a - p
	variance float64 // running sum of p(1-p)/chopWays
}

// NewScorer creates an empty scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Add records one observation: p is the equity held, a the realized outcome
// (0 lost, 1 won, 1/k for a k-way chop). Samples with p of exactly 0 or 1
// carry no variance but still shift the observed surplus.
func (s *Scorer) Add(p, a float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: equity %v outside [0,1]", ErrInvalidSample, p)
	}
	if math.IsNaN(a) || a < 0 || a > 1 {
		return fmt.Errorf("%w: outcome %v outside [0,1]", ErrInvalidSample, a)
	}

	chopWays := 1
	if a > 0 && a < 1 {
		chopWays = int(math.Round(1 / a))
		if chopWays < 2 {
			chopWays = 2
		}
	}

	s.samples = append(s.samples, sample{p: p, a: a, chopWays: chopWays})
	s.surplus += a - p
	s.variance += p * (1 - p) / float64(chopWays)
	return nil
}

// Len returns the number of accumulated samples.
func (s *Scorer) Len() int {
	return len(s.samples)
}

// Surplus returns the raw luck surplus, the sum of (actual - equity).
func (s *Scorer) Surplus() float64 {
	return s.surplus
}

// Score returns the standardized z-score of the surplus. ok is false when no
// informative sample has been added (null variance zero).
func (s *Scorer) Score() (z float64, ok bool) {
	if s.variance <= 0 {
		return 0, false
	}
	return s.surplus / math.Sqrt(s.variance), true
}

// Tails returns the upper, lower and two-sided tail p-values of the observed
// surplus under the null. ok is false when the null variance is zero.
func (s *Scorer) Tails() (Tails, bool) {
	if s.variance <= 0 {
		return Tails{}, false
	}
	if len(s.samples) <= exactTailMaxSamples || s.variance < tinyVariance {
		return s.exactTails(), true
	}
	return s.normalTails(), true
}

// normalTails evaluates the tails under the CLT normal approximation.
func (s *Scorer) normalTails() Tails {
	z := s.surplus / math.Sqrt(s.variance)
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	upper := normal.Survival(z)
	lower := normal.CDF(z)
	return Tails{
		Upper:    upper,
		Lower:    lower,
		TwoSided: math.Min(1, 2*math.Min(upper, lower)),
	}
}

// exactTails convolves the per-sample surplus distributions on a shared
// discretized grid via FFT and reads the tail masses off the result.
//
// Each informative sample contributes a two-point distribution with zero
// mean: a losing outcome at -p/sqrt(k) with probability 1-p and a winning
// outcome at (1-p)/sqrt(k) with probability p, where k is the chop width.
// The 1/sqrt(k) scaling reproduces the p(1-p)/k variance used by the CLT
// path. Zero-variance samples are point masses at zero and drop out of the
// convolution entirely.
func (s *Scorer) exactTails() Tails {
	// Support radius of the convolved sum, for picking the grid step.
	radius := 0.0
	for _, sm := range s.samples {
		scale := 1 / math.Sqrt(float64(sm.chopWays))
		radius += math.Max(sm.p, 1-sm.p) * scale
	}
	step := 2 * radius / float64(gridSize/2)

	fft := fourier.NewFFT(gridSize)
	seq := make([]float64, gridSize)
	coeff := make([]complex128, gridSize/2+1)
	acc := make([]complex128, gridSize/2+1)
	for i := range acc {
		acc[i] = 1 // spectrum of the identity (delta at offset zero)
	}

	// targetBin tracks the observed surplus on the same quantized grid the
	// null atoms land on, so the observed outcome lines up exactly with an
	// atom of the convolved distribution.
	targetBin := 0

	for _, sm := range s.samples {
		scale := 1 / math.Sqrt(float64(sm.chopWays))
		loseBin := quantize(-sm.p*scale, step)
		winBin := quantize((1-sm.p)*scale, step)

		switch {
		case sm.a == 0:
			targetBin += loseBin
		default:
			targetBin += winBin
		}

		if sm.p <= 0 || sm.p >= 1 {
			continue // no variance, identity under convolution
		}

		seq[wrap(loseBin)] += 1 - sm.p
		seq[wrap(winBin)] += sm.p
		coeff = fft.Coefficients(coeff, seq)
		for i := range acc {
			acc[i] *= coeff[i]
		}
		seq[wrap(loseBin)] = 0
		seq[wrap(winBin)] = 0
	}

	pmf := fft.Sequence(seq, acc)
	total := 0.0
	for i, v := range pmf {
		if v < 0 {
			v = 0 // numerical noise from the inverse transform
		}
		pmf[i] = v
		total += v
	}

	var upper, lower float64
	for b, mass := range pmf {
		offset := b
		if offset >= gridSize/2 {
			offset -= gridSize
		}
		if offset >= targetBin {
			upper += mass
		}
		if offset <= targetBin {
			lower += mass
		}
	}
	upper /= total
	lower /= total

	return Tails{
		Upper:    upper,
		Lower:    lower,
		TwoSided: math.Min(1, 2*math.Min(upper, lower)),
	}
}

// quantize maps a surplus value to its signed grid offset.
func quantize(v, step float64) int {
	return int(math.Round(v / step))
}

// wrap converts a signed grid offset to a circular grid index.
func wrap(offset int) int {
	return ((offset % gridSize) + gridSize) % gridSize
}
