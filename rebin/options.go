package rebin

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cwbudde/algo-spectrum/warn"
)

var (
	// ErrUnknownMethod indicates a Method value outside the defined set.
	ErrUnknownMethod = errors.New("rebin: unknown method")
	// ErrUnknownPolicy indicates a PadPolicy or Overflow value outside the
	// defined set.
	ErrUnknownPolicy = errors.New("rebin: unknown policy")
)

// Method selects the rebinning algorithm.
type Method int

const (
	// Interpolation apportions counts by fractional bin overlap.
	Interpolation Method = iota
	// Listmode samples synthetic events and re-histograms them.
	Listmode
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case Interpolation:
		return "interpolation"
	case Listmode:
		return "listmode"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod converts "interpolation" or "listmode" to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interpolation", "interp":
		return Interpolation, nil
	case "listmode":
		return Listmode, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// PadPolicy selects the uncertainty assigned to target bins outside the
// source domain. Their count is always zero.
type PadPolicy int

const (
	// PadZero assigns a zero uncertainty.
	PadZero PadPolicy = iota
	// PadNaN marks the uncertainty as unknown.
	PadNaN
)

// Overflow selects what happens to source content outside the target range.
type Overflow int

const (
	// OverflowFold assigns underflow to the first and overflow to the last
	// target bin.
	OverflowFold Overflow = iota
	// OverflowDiscard drops content outside the target range.
	OverflowDiscard
)

type config struct {
	method      Method
	pad         PadPolicy
	padWarnings bool
	overflow    Overflow
	src         rand.Source
	warn        warn.Handler
}

// Option configures a rebin call.
type Option func(*config)

// WithMethod selects the algorithm.
func WithMethod(m Method) Option {
	return func(cfg *config) {
		cfg.method = m
	}
}

// WithPadPolicy selects the uncertainty of zero-padded bins.
func WithPadPolicy(p PadPolicy) Option {
	return func(cfg *config) {
		cfg.pad = p
	}
}

// WithZeroPadWarnings enables or disables warn.ZeroPad warnings.
func WithZeroPadWarnings(enabled bool) Option {
	return func(cfg *config) {
		cfg.padWarnings = enabled
	}
}

// WithOverflow selects the handling of source content outside the target
// range.
func WithOverflow(o Overflow) Option {
	return func(cfg *config) {
		cfg.overflow = o
	}
}

// WithSource sets the random source used by the Listmode method.
func WithSource(src rand.Source) Option {
	return func(cfg *config) {
		if src != nil {
			cfg.src = src
		}
	}
}

// WithWarningHandler sets the receiver of advisory warnings.
func WithWarningHandler(h warn.Handler) Option {
	return func(cfg *config) {
		if h != nil {
			cfg.warn = h
		}
	}
}

func defaultConfig() config {
	return config{
		method:      Interpolation,
		pad:         PadZero,
		padWarnings: true,
		overflow:    OverflowFold,
		warn:        warn.Log(logger),
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.method != Interpolation && cfg.method != Listmode {
		return cfg, fmt.Errorf("%w: %v", ErrUnknownMethod, cfg.method)
	}
	if cfg.pad != PadZero && cfg.pad != PadNaN {
		return cfg, fmt.Errorf("%w: pad policy %d", ErrUnknownPolicy, int(cfg.pad))
	}
	if cfg.overflow != OverflowFold && cfg.overflow != OverflowDiscard {
		return cfg, fmt.Errorf("%w: overflow %d", ErrUnknownPolicy, int(cfg.overflow))
	}
	if cfg.src == nil {
		cfg.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return cfg, nil
}
