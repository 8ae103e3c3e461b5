package spectrum

import (
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectrum/uncertain"
)

type dataInput struct {
	mode   Mode
	plain  []float64
	values []uncertain.Value
}

type config struct {
	data []dataInput

	uncs    []float64
	hasUncs bool

	edges    []float64
	hasEdges bool

	livetime, realtime       float64
	hasLivetime, hasRealtime bool
	start, stop              time.Time
	hasStart, hasStop        bool

	// FromListmode only.
	bins       int
	xmin, xmax float64
	hasRange   bool

	logger *zap.Logger
}

// Option configures a Spectrum at construction.
type Option func(*config)

// Counts supplies integrated counts. Without WithUncertainties each count c
// gets the Poisson uncertainty sqrt(c), or 1 for c == 0.
func Counts(counts []float64) Option {
	return func(cfg *config) {
		cfg.data = append(cfg.data, dataInput{mode: ModeCounts, plain: counts})
	}
}

// CountValues supplies integrated counts that already carry uncertainties.
func CountValues(counts []uncertain.Value) Option {
	return func(cfg *config) {
		cfg.data = append(cfg.data, dataInput{mode: ModeCounts, values: counts})
	}
}

// CPS supplies counts per second. Without WithUncertainties the rate
// uncertainties are unknown (NaN).
func CPS(cps []float64) Option {
	return func(cfg *config) {
		cfg.data = append(cfg.data, dataInput{mode: ModeCPS, plain: cps})
	}
}

// CPSValues supplies counts per second that already carry uncertainties.
func CPSValues(cps []uncertain.Value) Option {
	return func(cfg *config) {
		cfg.data = append(cfg.data, dataInput{mode: ModeCPS, values: cps})
	}
}

// WithUncertainties overrides the default uncertainties of plain data.
// Combined with CountValues or CPSValues, the values must agree.
func WithUncertainties(uncs []float64) Option {
	return func(cfg *config) {
		cfg.uncs, cfg.hasUncs = uncs, true
	}
}

// WithBinEdges attaches an energy calibration. edges must have one more
// element than the data and be strictly increasing. The slice is copied.
func WithBinEdges(edges []float64) Option {
	return func(cfg *config) {
		cfg.edges, cfg.hasEdges = edges, true
	}
}

// WithLivetime sets the active counting time in seconds.
func WithLivetime(seconds float64) Option {
	return func(cfg *config) {
		cfg.livetime, cfg.hasLivetime = seconds, true
	}
}

// WithRealtime sets the wall-clock acquisition span in seconds.
func WithRealtime(seconds float64) Option {
	return func(cfg *config) {
		cfg.realtime, cfg.hasRealtime = seconds, true
	}
}

// WithStartTime sets the acquisition start. Any t counts as given,
// including the zero time.
func WithStartTime(t time.Time) Option {
	return func(cfg *config) {
		cfg.start, cfg.hasStart = t, true
	}
}

// WithStopTime sets the acquisition stop. Any t counts as given, including
// the zero time.
func WithStopTime(t time.Time) Option {
	return func(cfg *config) {
		cfg.stop, cfg.hasStop = t, true
	}
}

// WithBins sets the number of uniform bins used by FromListmode.
func WithBins(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.bins = n
		}
	}
}

// WithRange sets the histogram range used by FromListmode.
func WithRange(xmin, xmax float64) Option {
	return func(cfg *config) {
		cfg.xmin, cfg.xmax, cfg.hasRange = xmin, xmax, true
	}
}

// WithLogger sets the logger that receives advisory warnings for operations
// on the spectrum and on spectra derived from it.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
