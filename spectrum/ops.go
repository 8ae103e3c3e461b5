package spectrum

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-spectrum/calib"
	"github.com/cwbudde/algo-spectrum/rebin"
	"github.com/cwbudde/algo-spectrum/uncertain"
	"github.com/cwbudde/algo-spectrum/warn"
)

// Rebin redistributes the counts of s onto edges. It requires a calibration
// and counts, which rate spectra provide only with a livetime. The result is
// in counts mode and keeps the acquisition metadata of s.
func (s *Spectrum) Rebin(edges []float64, opts ...rebin.Option) (*Spectrum, error) {
	if s.cal == nil {
		return nil, ErrUncalibrated
	}
	counts, err := s.Counts()
	if err != nil {
		return nil, fmt.Errorf("%w: rebin requires integer counts", err)
	}
	opts = append([]rebin.Option{rebin.WithWarningHandler(warn.Log(s.logger))}, opts...)
	out, err := rebin.Counts(s.cal.Edges(), counts, edges, opts...)
	if err != nil {
		return nil, domainError(err)
	}
	cal, err := calib.New(edges)
	if err != nil {
		return nil, domainError(err)
	}

	r := derive(s, ModeCounts, out, cal)
	r.livetime, r.hasLivetime = s.livetime, s.hasLivetime
	r.copyTimes(s)
	s.logger.Debug("rebinned",
		zap.Int("from", s.Len()),
		zap.Int("to", r.Len()),
		zap.Stringer("total", r.data.Sum()),
	)
	return r, nil
}

// RebinLike rebins s onto the edges of other.
func (s *Spectrum) RebinLike(other *Spectrum, opts ...rebin.Option) (*Spectrum, error) {
	if other == nil {
		return nil, ErrTypeMismatch
	}
	if other.cal == nil {
		return nil, fmt.Errorf("%w: target spectrum", ErrUncalibrated)
	}
	return s.Rebin(other.cal.Edges(), opts...)
}

// CombineBins sums runs of f consecutive bins. A trailing partial run forms
// the last bin. Edges are kept at every f-th position plus the final edge.
func (s *Spectrum) CombineBins(f int) (*Spectrum, error) {
	if f < 1 {
		return nil, fmt.Errorf("%w: combine factor %d < 1", ErrDomain, f)
	}
	n := s.Len()
	m := (n + f - 1) / f

	vals := make([]uncertain.Value, m)
	for j := range vals {
		vals[j] = s.data.SumRange(j*f, min((j+1)*f, n))
	}
	data, err := uncertain.ArrayOf(vals...)
	if err != nil {
		return nil, domainError(err)
	}

	var cal *calib.Calibration
	if s.cal != nil {
		edges := s.cal.Edges()
		sub := make([]float64, 0, m+1)
		for i := 0; i < n; i += f {
			sub = append(sub, edges[i])
		}
		sub = append(sub, edges[n])
		if cal, err = calib.New(sub); err != nil {
			return nil, domainError(err)
		}
	}

	out := derive(s, s.mode, data, cal)
	out.livetime, out.hasLivetime = s.livetime, s.hasLivetime
	out.copyTimes(s)
	return out, nil
}

// Downsample thins the counts of s by factor f: each bin keeps every count
// independently with probability 1/f. Non-integer counts are rounded first.
// The livetime follows the configured LivetimePolicy.
func (s *Spectrum) Downsample(f float64, opts ...OpOption) (*Spectrum, error) {
	if s.mode == ModeCPS {
		return nil, fmt.Errorf("%w: downsample requires counts", ErrRateMode)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 {
		return nil, fmt.Errorf("%w: downsample factor %v must be finite and >= 1", ErrDomain, f)
	}
	cfg, err := s.applyOpOptions(opts)
	if err != nil {
		return nil, err
	}

	p := 1 / f
	thin := distuv.Binomial{P: p, Src: cfg.src}
	nom := s.data.Nominals()
	kept := make([]float64, len(nom))
	for i, c := range nom {
		r := math.Round(c)
		switch {
		case math.IsNaN(r) || math.IsInf(r, 0) || r < 0:
			return nil, fmt.Errorf("%w: bin %d holds %v counts", ErrDomain, i, c)
		case r == 0:
		case p == 1:
			kept[i] = r
		default:
			thin.N = r
			kept[i] = thin.Rand()
		}
	}

	out := derive(s, ModeCounts, uncertain.PoissonArray(kept), s.cal)
	out.copyTimes(s)
	if s.hasLivetime {
		switch cfg.policy {
		case LivetimePreserve:
			out.livetime, out.hasLivetime = s.livetime, true
		case LivetimeReduce:
			out.livetime, out.hasLivetime = s.livetime/f, true
		}
	}
	s.logger.Debug("downsampled",
		zap.Float64("factor", f),
		zap.Stringer("policy", cfg.policy),
		zap.Stringer("total", out.data.Sum()),
	)
	return out, nil
}

// CalibrateLike replaces the calibration of s with a copy of other's.
func (s *Spectrum) CalibrateLike(other *Spectrum) error {
	if other == nil {
		return ErrTypeMismatch
	}
	if other.cal == nil {
		return fmt.Errorf("%w: source spectrum", ErrUncalibrated)
	}
	if other.cal.Len() != s.Len() {
		return fmt.Errorf("%w: %d edges for %d bins", ErrEdgeLength, other.cal.Len()+1, s.Len())
	}
	s.cal = other.cal.Clone()
	return nil
}

// RemoveCalibration detaches the bin edges. The data is unchanged.
func (s *Spectrum) RemoveCalibration() {
	s.cal = nil
}
