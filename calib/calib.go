// Package calib provides the energy calibration of a histogram: an immutable,
// strictly increasing sequence of bin edges.
package calib

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectrum/internal/numeric"
)

var (
	// ErrTooFewEdges indicates fewer than two bin edges.
	ErrTooFewEdges = errors.New("calib: at least two bin edges are required")
	// ErrNotIncreasing indicates bin edges that are not strictly increasing.
	ErrNotIncreasing = errors.New("calib: bin edges must be strictly increasing")
	// ErrNonFinite indicates a NaN or infinite bin edge.
	ErrNonFinite = errors.New("calib: bin edges must be finite")
	// ErrOutOfRange indicates a query outside [lo, hi).
	ErrOutOfRange = errors.New("calib: value outside calibrated range")
)

// Calibration maps bin indices to energy intervals. Bin i covers
// [edges[i], edges[i+1]). The zero value is not usable; construct with New.
type Calibration struct {
	edges []float64
}

// New validates edges and returns a Calibration owning a copy of them.
func New(edges []float64) (*Calibration, error) {
	if err := Validate(edges); err != nil {
		return nil, err
	}
	return &Calibration{edges: numeric.Clone(edges)}, nil
}

// Validate checks that edges could form a Calibration.
func Validate(edges []float64) error {
	if len(edges) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewEdges, len(edges))
	}
	for i, e := range edges {
		if !numeric.IsFinite(e) {
			return fmt.Errorf("%w: edge %d is %v", ErrNonFinite, i, e)
		}
		if i > 0 && e <= edges[i-1] {
			return fmt.Errorf("%w: edge %d (%v) <= edge %d (%v)", ErrNotIncreasing, i, e, i-1, edges[i-1])
		}
	}
	return nil
}

// Len returns the number of bins.
func (c *Calibration) Len() int { return len(c.edges) - 1 }

// Edges returns a copy of the bin edges.
func (c *Calibration) Edges() []float64 { return numeric.Clone(c.edges) }

// Lo returns the lowest edge.
func (c *Calibration) Lo() float64 { return c.edges[0] }

// Hi returns the highest edge.
func (c *Calibration) Hi() float64 { return c.edges[len(c.edges)-1] }

// Energies returns the bin midpoints.
func (c *Calibration) Energies() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = 0.5 * (c.edges[i] + c.edges[i+1])
	}
	return out
}

// Widths returns the bin widths.
func (c *Calibration) Widths() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.edges[i+1] - c.edges[i]
	}
	return out
}

// FindBin returns the index of the bin containing x using half-open
// [lo, hi) bins. Values below the first edge, at or above the last edge,
// or NaN fail with ErrOutOfRange.
func (c *Calibration) FindBin(x float64) (int, error) {
	i := floats.Within(c.edges, x)
	if i < 0 {
		return -1, fmt.Errorf("%w: %v not in [%v, %v)", ErrOutOfRange, x, c.Lo(), c.Hi())
	}
	return i, nil
}

// IsUniform reports whether all bins have the same width within a relative
// tolerance rtol.
func (c *Calibration) IsUniform(rtol float64) bool {
	w := c.Widths()
	for _, x := range w[1:] {
		if !numeric.NearlyEqual(x, w[0], rtol) {
			return false
		}
	}
	return true
}

// Equal reports whether c and o have identical edges. Two nil calibrations
// are equal.
func (c *Calibration) Equal(o *Calibration) bool {
	if c == nil || o == nil {
		return c == o
	}
	return floats.Equal(c.edges, o.edges)
}

// Clone returns an independent copy of c.
func (c *Calibration) Clone() *Calibration {
	if c == nil {
		return nil
	}
	return &Calibration{edges: numeric.Clone(c.edges)}
}

// String summarizes the calibration.
func (c *Calibration) String() string {
	return fmt.Sprintf("calib{bins=%d range=[%g, %g]}", c.Len(), c.Lo(), c.Hi())
}
