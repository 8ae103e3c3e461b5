package spectrum

import (
	"errors"
	"fmt"
)

// Error categories.
var (
	// ErrConstruction indicates malformed construction input: shape,
	// exclusivity or consistency violations.
	ErrConstruction = errors.New("spectrum: invalid construction")
	// ErrDomain indicates a numeric value or option outside its domain.
	ErrDomain = errors.New("spectrum: value out of domain")
	// ErrMode indicates an operation that the spectrum's representation or
	// calibration state does not support.
	ErrMode = errors.New("spectrum: unavailable in current mode")
	// ErrUnsupported indicates operands that cannot be combined.
	ErrUnsupported = errors.New("spectrum: unsupported combination")
)

// Construction errors.
var (
	ErrAmbiguousRepresentation = fmt.Errorf("%w: exactly one of counts or cps is required", ErrConstruction)
	ErrMetadataOnly            = fmt.Errorf("%w: bin edges given without counts or cps", ErrConstruction)
	ErrEmpty                   = fmt.Errorf("%w: empty spectrum", ErrConstruction)
	ErrEdgeLength              = fmt.Errorf("%w: bin edges must have one more element than the data", ErrConstruction)
	ErrConflictingUncertainty  = fmt.Errorf("%w: conflicting uncertainty specification", ErrConstruction)
	ErrUncertaintyLength       = fmt.Errorf("%w: uncertainties do not match the data length", ErrConstruction)
	ErrNegativeCounts          = fmt.Errorf("%w: negative values require explicit uncertainties", ErrConstruction)
	ErrInconsistentTimes       = fmt.Errorf("%w: start, stop and realtime are inconsistent", ErrConstruction)
)

// Mode errors.
var (
	ErrUncalibrated = fmt.Errorf("%w: spectrum is uncalibrated", ErrMode)
	ErrRateMode     = fmt.Errorf("%w: counts unavailable in rate mode without livetime", ErrMode)
	ErrNoLivetime   = fmt.Errorf("%w: rate requires livetime", ErrMode)
)

// Unsupported-combination errors.
var (
	ErrIncompatibleBins = fmt.Errorf("%w: incompatible bins", ErrUnsupported)
	ErrNotImplemented   = fmt.Errorf("%w: not implemented", ErrUnsupported)
	ErrTypeMismatch     = fmt.Errorf("%w: operand is not a spectrum", ErrUnsupported)
)

func domainError(err error) error {
	return fmt.Errorf("%w: %w", ErrDomain, err)
}
