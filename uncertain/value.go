package uncertain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrBadScale indicates a scale factor whose nominal value is zero, NaN
	// or infinite.
	ErrBadScale = errors.New("uncertain: non-finite or zero scale factor")
	// ErrLengthMismatch indicates operands of different lengths.
	ErrLengthMismatch = errors.New("uncertain: length mismatch")
	// ErrNegativeStdDev indicates a standard deviation below zero.
	ErrNegativeStdDev = errors.New("uncertain: negative standard deviation")
)

// Value is a nominal value with an independent standard deviation.
type Value struct {
	Nominal float64
	StdDev  float64
}

// New returns a Value.
func New(nominal, stddev float64) Value {
	return Value{Nominal: nominal, StdDev: stddev}
}

// Exact returns a Value with zero uncertainty.
func Exact(x float64) Value {
	return Value{Nominal: x}
}

// Poisson returns a count with the counting-statistics default uncertainty
// sqrt(c). A zero count gets σ = 1.
func Poisson(c float64) Value {
	return Value{Nominal: c, StdDev: poissonStd(c)}
}

func poissonStd(c float64) float64 {
	if c == 0 {
		return 1
	}
	return math.Sqrt(c)
}

// Add returns a + b.
func (a Value) Add(b Value) Value {
	return Value{Nominal: a.Nominal + b.Nominal, StdDev: math.Hypot(a.StdDev, b.StdDev)}
}

// Sub returns a - b. Variances add.
func (a Value) Sub(b Value) Value {
	return Value{Nominal: a.Nominal - b.Nominal, StdDev: math.Hypot(a.StdDev, b.StdDev)}
}

// Mul returns a · k.
func (a Value) Mul(k Value) Value {
	return Value{
		Nominal: a.Nominal * k.Nominal,
		StdDev:  math.Sqrt(sq(a.StdDev*k.Nominal) + sq(a.Nominal*k.StdDev)),
	}
}

// Quo returns a / k. It fails with ErrBadScale when k is zero, NaN or
// infinite.
func (a Value) Quo(k Value) (Value, error) {
	if err := CheckScale(k); err != nil {
		return Value{}, err
	}
	return a.Mul(k.Reciprocal()), nil
}

// Reciprocal returns 1/k with first-order uncertainty σk/k².
// It does not validate k; see CheckScale.
func (k Value) Reciprocal() Value {
	return Value{Nominal: 1 / k.Nominal, StdDev: k.StdDev / sq(k.Nominal)}
}

// Scale returns a · k for an exact k.
func (a Value) Scale(k float64) Value {
	return Value{Nominal: a.Nominal * k, StdDev: a.StdDev * math.Abs(k)}
}

// IsFinite reports whether the nominal value is finite.
func (a Value) IsFinite() bool {
	return !math.IsNaN(a.Nominal) && !math.IsInf(a.Nominal, 0)
}

// String formats a as "nominal+/-stddev".
func (a Value) String() string {
	return strconv.FormatFloat(a.Nominal, 'g', -1, 64) + "+/-" +
		strconv.FormatFloat(a.StdDev, 'g', -1, 64)
}

// CheckScale reports whether k is usable as a multiplicative or divisive
// factor: its nominal value must be finite and non-zero.
func CheckScale(k Value) error {
	if !k.IsFinite() || k.Nominal == 0 {
		return fmt.Errorf("%w: %v", ErrBadScale, k)
	}
	return nil
}

func sq(x float64) float64 { return x * x }
