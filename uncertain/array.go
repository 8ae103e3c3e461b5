package uncertain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Array is an immutable sequence of Values stored as parallel nominal and
// standard-deviation slices.
type Array struct {
	nom []float64
	std []float64
}

// NewArray returns an Array from nominal values and standard deviations.
// Both slices are copied. Standard deviations must be >= 0 or NaN.
func NewArray(nominals, stddevs []float64) (Array, error) {
	if len(nominals) != len(stddevs) {
		return Array{}, fmt.Errorf("%w: %d values, %d uncertainties", ErrLengthMismatch, len(nominals), len(stddevs))
	}
	for i, s := range stddevs {
		if s < 0 {
			return Array{}, fmt.Errorf("%w: index %d: %v", ErrNegativeStdDev, i, s)
		}
	}
	return Array{nom: clone(nominals), std: clone(stddevs)}, nil
}

// PoissonArray returns counts with the default uncertainty sqrt(c), using
// σ = 1 for zero counts.
func PoissonArray(counts []float64) Array {
	std := make([]float64, len(counts))
	for i, c := range counts {
		std[i] = poissonStd(c)
	}
	return Array{nom: clone(counts), std: std}
}

// UnknownArray returns values whose uncertainty is unknown (NaN).
func UnknownArray(nominals []float64) Array {
	std := make([]float64, len(nominals))
	for i := range std {
		std[i] = math.NaN()
	}
	return Array{nom: clone(nominals), std: std}
}

// ArrayOf returns an Array holding vs. It fails if any standard deviation
// is negative.
func ArrayOf(vs ...Value) (Array, error) {
	nom := make([]float64, len(vs))
	std := make([]float64, len(vs))
	for i, v := range vs {
		if v.StdDev < 0 {
			return Array{}, fmt.Errorf("%w: index %d: %v", ErrNegativeStdDev, i, v.StdDev)
		}
		nom[i], std[i] = v.Nominal, v.StdDev
	}
	return Array{nom: nom, std: std}, nil
}

// Len returns the number of elements.
func (a Array) Len() int { return len(a.nom) }

// At returns element i.
func (a Array) At(i int) Value {
	return Value{Nominal: a.nom[i], StdDev: a.std[i]}
}

// Values returns the elements as a fresh slice of Values.
func (a Array) Values() []Value {
	out := make([]Value, len(a.nom))
	for i := range out {
		out[i] = a.At(i)
	}
	return out
}

// Nominals returns a copy of the nominal values.
func (a Array) Nominals() []float64 { return clone(a.nom) }

// StdDevs returns a copy of the standard deviations.
func (a Array) StdDevs() []float64 { return clone(a.std) }

// Clone returns a deep copy of a.
func (a Array) Clone() Array {
	return Array{nom: clone(a.nom), std: clone(a.std)}
}

// Equal reports whether a and b hold identical values and uncertainties.
// NaN uncertainties compare equal to each other.
func (a Array) Equal(b Array) bool {
	if a.Len() != b.Len() || !floats.Equal(a.nom, b.nom) {
		return false
	}
	for i := range a.std {
		if a.std[i] != b.std[i] && !(math.IsNaN(a.std[i]) && math.IsNaN(b.std[i])) {
			return false
		}
	}
	return true
}

// Add returns a + b element-wise.
func (a Array) Add(b Array) (Array, error) {
	if a.Len() != b.Len() {
		return Array{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Len(), b.Len())
	}
	nom := clone(a.nom)
	vecmath.AddBlockInPlace(nom, b.nom)
	return Array{nom: nom, std: quadratureSum(a.std, b.std)}, nil
}

// Sub returns a - b element-wise. Variances add.
func (a Array) Sub(b Array) (Array, error) {
	if a.Len() != b.Len() {
		return Array{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Len(), b.Len())
	}
	nom := make([]float64, a.Len())
	vecmath.ScaleBlock(nom, b.nom, -1)
	vecmath.AddBlockInPlace(nom, a.nom)
	return Array{nom: nom, std: quadratureSum(a.std, b.std)}, nil
}

// Mul returns a · k element-wise. k is not validated; see CheckScale.
func (a Array) Mul(k Value) Array {
	n := a.Len()
	nom := make([]float64, n)
	vecmath.ScaleBlock(nom, a.nom, k.Nominal)

	relStd := make([]float64, n)
	vecmath.ScaleBlock(relStd, a.std, k.Nominal)
	absStd := make([]float64, n)
	vecmath.ScaleBlock(absStd, a.nom, k.StdDev)
	return Array{nom: nom, std: quadratureSum(relStd, absStd)}
}

// Quo returns a / k element-wise, failing with ErrBadScale for a zero,
// NaN or infinite k.
func (a Array) Quo(k Value) (Array, error) {
	if err := CheckScale(k); err != nil {
		return Array{}, err
	}
	return a.Mul(k.Reciprocal()), nil
}

// MulFloat returns a · k for an exact k.
func (a Array) MulFloat(k float64) Array {
	nom := make([]float64, a.Len())
	std := make([]float64, a.Len())
	vecmath.ScaleBlock(nom, a.nom, k)
	vecmath.ScaleBlock(std, a.std, math.Abs(k))
	return Array{nom: nom, std: std}
}

// DivFloats divides element i by the exact value d[i].
func (a Array) DivFloats(d []float64) (Array, error) {
	if a.Len() != len(d) {
		return Array{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Len(), len(d))
	}
	inv := make([]float64, len(d))
	for i, x := range d {
		inv[i] = 1 / x
	}
	nom := make([]float64, a.Len())
	vecmath.MulBlock(nom, a.nom, inv)
	for i := range inv {
		inv[i] = math.Abs(inv[i])
	}
	std := make([]float64, a.Len())
	vecmath.MulBlock(std, a.std, inv)
	return Array{nom: nom, std: std}, nil
}

// Sum returns the sum of all elements.
func (a Array) Sum() Value {
	return a.SumRange(0, a.Len())
}

// SumRange returns the sum of elements in [lo, hi).
func (a Array) SumRange(lo, hi int) Value {
	if lo >= hi {
		return Value{}
	}
	v := make([]float64, hi-lo)
	vecmath.MulBlock(v, a.std[lo:hi], a.std[lo:hi])
	return Value{Nominal: floats.Sum(a.nom[lo:hi]), StdDev: math.Sqrt(floats.Sum(v))}
}

// HasNegative reports whether any nominal value is below zero.
func (a Array) HasNegative() bool {
	for _, x := range a.nom {
		if x < 0 {
			return true
		}
	}
	return false
}

// String formats a compactly for debugging.
func (a Array) String() string {
	const maxShown = 6
	s := "["
	for i := 0; i < a.Len() && i < maxShown; i++ {
		if i > 0 {
			s += " "
		}
		s += a.At(i).String()
	}
	if a.Len() > maxShown {
		s += fmt.Sprintf(" ... (%d total)", a.Len())
	}
	return s + "]"
}

// quadratureSum returns sqrt(x² + y²) element-wise.
func quadratureSum(x, y []float64) []float64 {
	v := make([]float64, len(x))
	vecmath.MulBlock(v, x, x)
	w := make([]float64, len(y))
	vecmath.MulBlock(w, y, y)
	vecmath.AddBlockInPlace(v, w)
	for i := range v {
		v[i] = math.Sqrt(v[i])
	}
	return v
}

func clone(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
