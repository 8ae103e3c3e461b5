// Package spectrum models a one-dimensional counting histogram produced by a
// radiation detector.
//
// A Spectrum holds either integrated counts or counts per second (CPS),
// never both, each as an uncertain.Array. It may carry an energy calibration
// (bin edges) and acquisition metadata: livetime, realtime, start and stop
// time. Counts and CPS are interconvertible when a livetime is known.
//
// Spectra are values. Every transformation returns a new Spectrum that owns
// its storage:
//
//   - Add, Sub: bin-wise arithmetic with independent-variance propagation
//   - Mul, MulFloat, Div, DivFloat: scaling; always drops the livetime
//   - Rebin, RebinLike: redistribution onto new edges (see package rebin)
//   - CombineBins: integer-factor bin merging
//   - Downsample: binomial thinning of counts
//   - Clone: deep copy
//
// The only in-place mutations are CalibrateLike, RemoveCalibration,
// SetLivetime and ClearLivetime. They touch only the receiver and must not
// run concurrently with other use of the same Spectrum.
//
// Errors fall into four categories that callers can test with errors.Is:
// ErrConstruction (malformed input), ErrDomain (bad numeric values or
// options), ErrMode (the operation needs a representation or calibration the
// spectrum lacks) and ErrUnsupported (incompatible operands). Advisory
// conditions are not errors; they are delivered to a warn.Handler.
package spectrum

import "github.com/cwbudde/algo-spectrum/internal/logging"

var logger = logging.New("spectrum")
