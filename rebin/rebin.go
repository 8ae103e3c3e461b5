package rebin

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectrum/calib"
	"github.com/cwbudde/algo-spectrum/internal/numeric"
	"github.com/cwbudde/algo-spectrum/listmode"
	"github.com/cwbudde/algo-spectrum/uncertain"
	"github.com/cwbudde/algo-spectrum/warn"
)

var (
	// ErrLengthMismatch indicates counts that do not match the input edges.
	ErrLengthMismatch = errors.New("rebin: counts do not match input edges")
	// ErrNegativeCounts indicates negative counts passed to the Listmode
	// method, which cannot be expanded into events.
	ErrNegativeCounts = errors.New("rebin: listmode requires non-negative counts")
	// ErrNonFiniteCounts indicates NaN or infinite counts.
	ErrNonFiniteCounts = errors.New("rebin: counts must be finite")
)

// integerTolerance bounds the rounding that is not reported as lossy.
const integerTolerance = 1e-9

// Counts rebins in, defined on inEdges, onto outEdges.
func Counts(inEdges []float64, in uncertain.Array, outEdges []float64, opts ...Option) (uncertain.Array, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return uncertain.Array{}, err
	}
	if err := calib.Validate(inEdges); err != nil {
		return uncertain.Array{}, fmt.Errorf("rebin: input edges: %w", err)
	}
	if err := calib.Validate(outEdges); err != nil {
		return uncertain.Array{}, fmt.Errorf("rebin: output edges: %w", err)
	}
	if in.Len() != len(inEdges)-1 {
		return uncertain.Array{}, fmt.Errorf("%w: %d counts, %d edges", ErrLengthMismatch, in.Len(), len(inEdges))
	}
	if !numeric.AllFinite(in.Nominals()) {
		return uncertain.Array{}, ErrNonFiniteCounts
	}

	logger.Debug("rebin",
		zap.Stringer("method", cfg.method),
		zap.Int("in-bins", in.Len()),
		zap.Int("out-bins", len(outEdges)-1),
	)

	b := newBounds(outEdges, cfg.overflow)
	var nom, std []float64
	switch cfg.method {
	case Listmode:
		nom, std, err = byListmode(inEdges, in, b, cfg)
	default:
		nom, std = byInterpolation(inEdges, in, b)
	}
	if err != nil {
		return uncertain.Array{}, err
	}

	pad(inEdges, b, nom, std, cfg)
	return uncertain.NewArray(nom, std)
}

// bounds holds the effective target intervals after the overflow policy.
type bounds struct {
	edges []float64
	fold  bool
}

func newBounds(edges []float64, o Overflow) bounds {
	return bounds{edges: edges, fold: o == OverflowFold}
}

func (b bounds) len() int { return len(b.edges) - 1 }

func (b bounds) at(i int) (lo, hi float64) {
	lo, hi = b.edges[i], b.edges[i+1]
	if b.fold {
		if i == 0 {
			lo = math.Inf(-1)
		}
		if i == b.len()-1 {
			hi = math.Inf(1)
		}
	}
	return lo, hi
}

// index returns the target bin receiving an event at x, or -1.
func (b bounds) index(x float64) int {
	if i := floats.Within(b.edges, x); i >= 0 {
		return i
	}
	last := b.edges[len(b.edges)-1]
	switch {
	case x == last:
		return b.len() - 1
	case b.fold && x < b.edges[0]:
		return 0
	case b.fold && x > last:
		return b.len() - 1
	}
	return -1
}

// byInterpolation evaluates the piecewise-linear cumulative count at every
// effective target edge.
func byInterpolation(inEdges []float64, in uncertain.Array, b bounds) (nom, std []float64) {
	counts := in.Nominals()
	sigma := in.StdDevs()
	cum := floats.CumSum(make([]float64, len(counts)), counts)

	cdf := func(x float64) float64 {
		switch {
		case x <= inEdges[0]:
			return 0
		case x >= inEdges[len(inEdges)-1]:
			return cum[len(cum)-1]
		}
		j := floats.Within(inEdges, x)
		below := 0.0
		if j > 0 {
			below = cum[j-1]
		}
		frac := (x - inEdges[j]) / (inEdges[j+1] - inEdges[j])
		return below + frac*counts[j]
	}

	m := b.len()
	nom = make([]float64, m)
	std = make([]float64, m)
	j := 0
	for i := range m {
		lo, hi := b.at(i)
		nom[i] = cdf(hi) - cdf(lo)

		for j < len(counts) && inEdges[j+1] <= lo {
			j++
		}
		variance := 0.0
		for k := j; k < len(counts) && inEdges[k] < hi; k++ {
			a0, a1 := inEdges[k], inEdges[k+1]
			f := (math.Min(a1, hi) - math.Max(a0, lo)) / (a1 - a0)
			if f > 0 {
				variance += f * f * sigma[k] * sigma[k]
			}
		}
		std[i] = math.Sqrt(variance)
	}
	return nom, std
}

// byListmode expands each source bin into uniformly distributed events and
// histograms them into the target bins.
func byListmode(inEdges []float64, in uncertain.Array, b bounds, cfg config) (nom, std []float64, err error) {
	counts := in.Nominals()
	n := make([]int, len(counts))
	lossy := 0
	total := 0.0
	for i, c := range counts {
		r := math.Round(c)
		if r < 0 {
			return nil, nil, fmt.Errorf("%w: bin %d has %v", ErrNegativeCounts, i, c)
		}
		if total += r; total > listmode.MaxEvents {
			return nil, nil, fmt.Errorf("%w: %g counts through bin %d, limit %d",
				listmode.ErrTooManyEvents, total, i, listmode.MaxEvents)
		}
		if !numeric.IsInteger(c, integerTolerance) {
			lossy++
		}
		n[i] = int(r)
	}
	if lossy > 0 {
		cfg.warn.Emit(warn.New(warn.LossyRounding,
			"rounded %d non-integer bins before listmode sampling", lossy))
	}

	events, err := listmode.Sample(inEdges, n, cfg.src)
	if err != nil {
		return nil, nil, err
	}
	out := make([]float64, b.len())
	for _, x := range events {
		if i := b.index(x); i >= 0 {
			out[i]++
		}
	}
	p := uncertain.PoissonArray(out)
	return p.Nominals(), p.StdDevs(), nil
}

// pad zeroes target bins whose effective interval does not intersect the
// source domain and reports them.
func pad(inEdges []float64, b bounds, nom, std []float64, cfg config) {
	srcLo, srcHi := inEdges[0], inEdges[len(inEdges)-1]
	padUnc := 0.0
	if cfg.pad == PadNaN {
		padUnc = math.NaN()
	}

	padded := 0
	for i := range nom {
		lo, hi := b.at(i)
		if hi > srcLo && lo < srcHi {
			continue
		}
		nom[i], std[i] = 0, padUnc
		padded++
	}
	if padded > 0 && cfg.padWarnings {
		cfg.warn.Emit(warn.New(warn.ZeroPad,
			"%d target bins outside source range [%g, %g] were zero-padded", padded, srcLo, srcHi))
	}
}
