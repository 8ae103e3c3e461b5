package specio

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"

	"github.com/cwbudde/algo-spectrum/spectrum"
	"github.com/cwbudde/algo-spectrum/uncertain"
	"github.com/cwbudde/algo-spectrum/warn"
)

// Record holds the fields read from a spectrum file. Exactly one of Counts
// and CPS is expected to be set; Spectrum reports violations.
type Record struct {
	Counts        []float64  `json:"counts,omitempty" yaml:"counts,omitempty" toml:"counts,omitempty"`
	CPS           []float64  `json:"cps,omitempty" yaml:"cps,omitempty" toml:"cps,omitempty"`
	Uncertainties []float64  `json:"uncertainties,omitempty" yaml:"uncertainties,omitempty" toml:"uncertainties,omitempty"`
	BinEdges      []float64  `json:"bin_edges,omitempty" yaml:"bin_edges,omitempty" toml:"bin_edges,omitempty"`
	Livetime      *float64   `json:"livetime,omitempty" yaml:"livetime,omitempty" toml:"livetime,omitempty"`
	Realtime      *float64   `json:"realtime,omitempty" yaml:"realtime,omitempty" toml:"realtime,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty" toml:"start_time,omitempty"`
	StopTime      *time.Time `json:"stop_time,omitempty" yaml:"stop_time,omitempty" toml:"stop_time,omitempty"`

	// Warnings combines the *warn.Warning values raised while parsing.
	Warnings error `json:"-" yaml:"-" toml:"-"`
}

// NewRecord captures s in its native representation. Unknown (NaN)
// uncertainties are kept; the column is left out only for rates that are all
// unknown and not negative, which Spectrum rebuilds identically.
func NewRecord(s *spectrum.Spectrum) *Record {
	rec := &Record{}
	var data uncertain.Array
	if s.Mode() == spectrum.ModeCPS {
		data, _ = s.CPS()
		rec.CPS = data.Nominals()
	} else {
		data, _ = s.Counts()
		rec.Counts = data.Nominals()
	}
	if !impliedUncertainties(s.Mode(), data) {
		rec.Uncertainties = data.StdDevs()
	}
	if edges, err := s.BinEdges(); err == nil {
		rec.BinEdges = edges
	}
	if lt, ok := s.Livetime(); ok {
		rec.Livetime = &lt
	}
	if rt, ok := s.Realtime(); ok {
		rec.Realtime = &rt
	}
	if t, ok := s.StartTime(); ok {
		rec.StartTime = &t
	}
	if t, ok := s.StopTime(); ok {
		rec.StopTime = &t
	}
	return rec
}

func impliedUncertainties(mode spectrum.Mode, data uncertain.Array) bool {
	if mode != spectrum.ModeCPS || data.HasNegative() {
		return false
	}
	for _, u := range data.StdDevs() {
		if !math.IsNaN(u) {
			return false
		}
	}
	return true
}

// Spectrum constructs a Spectrum from r. opts are applied after the
// record's own fields.
func (r *Record) Spectrum(opts ...spectrum.Option) (*spectrum.Spectrum, error) {
	var o []spectrum.Option
	if r.Counts != nil {
		o = append(o, spectrum.Counts(r.Counts))
	}
	if r.CPS != nil {
		o = append(o, spectrum.CPS(r.CPS))
	}
	if r.Uncertainties != nil {
		o = append(o, spectrum.WithUncertainties(r.Uncertainties))
	}
	if r.BinEdges != nil {
		o = append(o, spectrum.WithBinEdges(r.BinEdges))
	}
	if r.Livetime != nil {
		o = append(o, spectrum.WithLivetime(*r.Livetime))
	}
	if r.Realtime != nil {
		o = append(o, spectrum.WithRealtime(*r.Realtime))
	}
	if r.StartTime != nil {
		o = append(o, spectrum.WithStartTime(*r.StartTime))
	}
	if r.StopTime != nil {
		o = append(o, spectrum.WithStopTime(*r.StopTime))
	}
	return spectrum.New(append(o, opts...)...)
}

// Emit passes every parse warning of r to h.
func (r *Record) Emit(h warn.Handler) {
	for _, w := range warn.List(r.Warnings) {
		h.Emit(w)
	}
}

func (r *Record) quirk(format string, args ...any) {
	r.Warnings = multierr.Append(r.Warnings, warn.New(warn.ParseQuirk, format, args...))
}

// fillLivetime substitutes the realtime for a missing livetime.
func (r *Record) fillLivetime() {
	if r.Livetime != nil || r.Realtime == nil {
		return
	}
	lt := *r.Realtime
	r.Livetime = &lt
	r.quirk("livetime missing, using realtime %gs", lt)
}

func parseTime(key, s string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}
