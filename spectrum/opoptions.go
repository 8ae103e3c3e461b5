package spectrum

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cwbudde/algo-spectrum/warn"
)

// LivetimePolicy selects the livetime of a downsampled spectrum.
type LivetimePolicy int

const (
	// LivetimeDrop leaves the result without livetime.
	LivetimeDrop LivetimePolicy = iota
	// LivetimePreserve keeps the original livetime.
	LivetimePreserve
	// LivetimeReduce divides the livetime by the downsampling factor.
	LivetimeReduce
)

func (p LivetimePolicy) String() string {
	switch p {
	case LivetimeDrop:
		return "drop"
	case LivetimePreserve:
		return "preserve"
	case LivetimeReduce:
		return "reduce"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseLivetimePolicy parses "drop", "preserve" or "reduce".
func ParseLivetimePolicy(s string) (LivetimePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return LivetimeDrop, nil
	case "preserve":
		return LivetimePreserve, nil
	case "reduce":
		return LivetimeReduce, nil
	default:
		return 0, fmt.Errorf("%w: unknown livetime policy %q", ErrDomain, s)
	}
}

type opConfig struct {
	warn       warn.Handler
	suppressed []warn.Kind
	src        rand.Source
	policy     LivetimePolicy
}

// OpOption configures a spectrum operation.
type OpOption func(*opConfig)

// WithWarningHandler routes advisory warnings to h instead of the spectrum's
// logger.
func WithWarningHandler(h warn.Handler) OpOption {
	return func(cfg *opConfig) {
		if h != nil {
			cfg.warn = h
		}
	}
}

// SuppressWarnings silences warnings of the given kinds.
func SuppressWarnings(kinds ...warn.Kind) OpOption {
	return func(cfg *opConfig) {
		cfg.suppressed = append(cfg.suppressed, kinds...)
	}
}

// WithSource sets the random source used by Downsample.
func WithSource(src rand.Source) OpOption {
	return func(cfg *opConfig) {
		if src != nil {
			cfg.src = src
		}
	}
}

// WithLivetimePolicy sets the livetime handling of Downsample.
func WithLivetimePolicy(p LivetimePolicy) OpOption {
	return func(cfg *opConfig) {
		cfg.policy = p
	}
}

func (s *Spectrum) applyOpOptions(opts []OpOption) (opConfig, error) {
	cfg := opConfig{warn: warn.Log(s.logger)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	switch cfg.policy {
	case LivetimeDrop, LivetimePreserve, LivetimeReduce:
	default:
		return cfg, fmt.Errorf("%w: unknown livetime policy %v", ErrDomain, cfg.policy)
	}
	cfg.warn = warn.Filter(cfg.warn, cfg.suppressed...)
	if cfg.src == nil {
		cfg.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return cfg, nil
}
