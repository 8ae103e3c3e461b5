package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-spectrum/uncertain"
	"github.com/cwbudde/algo-spectrum/warn"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
)

func (op binaryOp) String() string {
	if op == opSub {
		return "subtraction"
	}
	return "addition"
}

// Add returns a + b bin by bin, with uncertainties added in quadrature.
//
// Two counts spectra give a counts spectrum whose livetime is the sum of both
// livetimes, or none (with an AmbiguousLivetime warning) if either lacks one.
// Any rate operand makes the result a rate spectrum without livetime; a
// counts operand must then carry a livetime to be converted.
func Add(a, b *Spectrum, opts ...OpOption) (*Spectrum, error) {
	return combine(a, b, opAdd, opts)
}

// Sub returns a - b bin by bin. Variances add. The livetime rules are those
// of Add.
func Sub(a, b *Spectrum, opts ...OpOption) (*Spectrum, error) {
	return combine(a, b, opSub, opts)
}

func combine(a, b *Spectrum, op binaryOp, opts []OpOption) (*Spectrum, error) {
	if a == nil || b == nil {
		return nil, ErrTypeMismatch
	}
	if err := checkCompatible(a, b); err != nil {
		return nil, err
	}
	cfg, err := a.applyOpOptions(opts)
	if err != nil {
		return nil, err
	}

	var (
		x, y uncertain.Array
		mode Mode
	)
	switch {
	case a.mode == ModeCounts && b.mode == ModeCounts:
		x, y, mode = a.data, b.data, ModeCounts
	case a.mode == ModeCPS && b.mode == ModeCPS:
		x, y, mode = a.data, b.data, ModeCPS
	default:
		if x, err = a.CPS(); err != nil {
			return nil, fmt.Errorf("%w: counts operand of %s with a rate", err, op)
		}
		if y, err = b.CPS(); err != nil {
			return nil, fmt.Errorf("%w: counts operand of %s with a rate", err, op)
		}
		mode = ModeCPS
	}

	var data uncertain.Array
	if op == opSub {
		data, err = x.Sub(y)
	} else {
		data, err = x.Add(y)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleBins, err)
	}

	out := derive(a, mode, data, a.cal)
	if mode == ModeCounts && a.hasLivetime && b.hasLivetime {
		out.livetime, out.hasLivetime = a.livetime+b.livetime, true
	} else {
		cfg.warn.Emit(warn.New(warn.AmbiguousLivetime, "%s of %s and %s spectra leaves livetime undefined", op, a.mode, b.mode))
	}
	return out, nil
}

// checkCompatible requires identical bin counts and identical calibration
// state. Spectra calibrated with different edges would need rebinning first.
func checkCompatible(a, b *Spectrum) error {
	switch {
	case (a.cal == nil) != (b.cal == nil):
		return fmt.Errorf("%w: only one operand is calibrated", ErrIncompatibleBins)
	case a.cal == nil:
		if a.Len() != b.Len() {
			return fmt.Errorf("%w: %d vs %d bins", ErrIncompatibleBins, a.Len(), b.Len())
		}
	case !a.cal.Equal(b.cal):
		return fmt.Errorf("%w: operands have different bin edges; rebin one onto the other", ErrNotImplemented)
	}
	return nil
}

// Mul scales s by k. The result keeps the representation, calibration and
// acquisition times of s but never a livetime. A zero, NaN or infinite k
// fails with ErrDomain.
func (s *Spectrum) Mul(k uncertain.Value) (*Spectrum, error) {
	if err := uncertain.CheckScale(k); err != nil {
		return nil, domainError(err)
	}
	out := derive(s, s.mode, s.data.Mul(k), s.cal)
	out.copyTimes(s)
	return out, nil
}

// MulFloat scales s by the exact factor k.
func (s *Spectrum) MulFloat(k float64) (*Spectrum, error) {
	return s.Mul(uncertain.Exact(k))
}

// Div divides s by k. See Mul.
func (s *Spectrum) Div(k uncertain.Value) (*Spectrum, error) {
	if err := uncertain.CheckScale(k); err != nil {
		return nil, domainError(err)
	}
	return s.Mul(k.Reciprocal())
}

// DivFloat divides s by the exact factor k.
func (s *Spectrum) DivFloat(k float64) (*Spectrum, error) {
	return s.Div(uncertain.Exact(k))
}
