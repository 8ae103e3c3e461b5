package spectrum

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectrum/calib"
	"github.com/cwbudde/algo-spectrum/internal/numeric"
	"github.com/cwbudde/algo-spectrum/uncertain"
)

// Mode is the native representation of a Spectrum's data.
type Mode int

const (
	// ModeCounts stores integrated counts.
	ModeCounts Mode = iota
	// ModeCPS stores counts per second.
	ModeCPS
)

func (m Mode) String() string {
	switch m {
	case ModeCounts:
		return "counts"
	case ModeCPS:
		return "cps"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// timeTolerance bounds the disagreement between realtime and stop - start.
const timeTolerance = time.Millisecond

// Spectrum is a detector histogram. The zero value is not usable; construct
// spectra with New or FromListmode.
type Spectrum struct {
	mode Mode
	data uncertain.Array
	cal  *calib.Calibration

	livetime, realtime       float64
	hasLivetime, hasRealtime bool
	start, stop              time.Time
	hasStart, hasStop        bool

	logger *zap.Logger
}

// New constructs a Spectrum. Exactly one of Counts, CountValues, CPS and
// CPSValues must be given.
func New(opts ...Option) (*Spectrum, error) {
	cfg := applyOptions(opts)

	switch {
	case len(cfg.data) == 0 && cfg.hasEdges:
		return nil, ErrMetadataOnly
	case len(cfg.data) != 1:
		return nil, ErrAmbiguousRepresentation
	}
	in := cfg.data[0]

	n := len(in.plain)
	if in.values != nil {
		n = len(in.values)
	}
	if n == 0 {
		return nil, ErrEmpty
	}

	s := &Spectrum{mode: in.mode, logger: cfg.logger}

	if cfg.hasEdges {
		if len(cfg.edges) != n+1 {
			return nil, fmt.Errorf("%w: %d edges for %d bins", ErrEdgeLength, len(cfg.edges), n)
		}
		cal, err := calib.New(cfg.edges)
		if err != nil {
			return nil, domainError(err)
		}
		s.cal = cal
	}

	data, err := buildData(in, cfg)
	if err != nil {
		return nil, err
	}
	s.data = data

	if err := s.setTimes(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func buildData(in dataInput, cfg config) (uncertain.Array, error) {
	if in.values != nil {
		if cfg.hasUncs {
			return uncertain.Array{}, fmt.Errorf("%w: data already carries uncertainties", ErrConflictingUncertainty)
		}
		a, err := uncertain.ArrayOf(in.values...)
		if err != nil {
			return uncertain.Array{}, domainError(err)
		}
		return a, nil
	}

	if cfg.hasUncs {
		if len(cfg.uncs) != len(in.plain) {
			return uncertain.Array{}, fmt.Errorf("%w: %d uncertainties for %d bins", ErrUncertaintyLength, len(cfg.uncs), len(in.plain))
		}
		a, err := uncertain.NewArray(in.plain, cfg.uncs)
		if err != nil {
			return uncertain.Array{}, domainError(err)
		}
		return a, nil
	}

	for i, x := range in.plain {
		if x < 0 {
			return uncertain.Array{}, fmt.Errorf("%w: bin %d is %v", ErrNegativeCounts, i, x)
		}
	}
	if in.mode == ModeCPS {
		return uncertain.UnknownArray(in.plain), nil
	}
	if !numeric.AllFinite(in.plain) {
		return uncertain.Array{}, fmt.Errorf("%w: non-finite counts need explicit uncertainties", ErrDomain)
	}
	return uncertain.PoissonArray(in.plain), nil
}

func (s *Spectrum) setTimes(cfg config) error {
	if cfg.hasLivetime {
		if err := checkSeconds("livetime", cfg.livetime); err != nil {
			return err
		}
		s.livetime, s.hasLivetime = cfg.livetime, true
	}
	if cfg.hasRealtime {
		if err := checkSeconds("realtime", cfg.realtime); err != nil {
			return err
		}
		s.realtime, s.hasRealtime = cfg.realtime, true
	}
	s.start, s.hasStart = cfg.start, cfg.hasStart
	s.stop, s.hasStop = cfg.stop, cfg.hasStop

	switch {
	case s.hasStart && s.hasStop:
		if s.stop.Before(s.start) {
			return fmt.Errorf("%w: stop %v before start %v", ErrDomain, s.stop, s.start)
		}
		span := s.stop.Sub(s.start)
		if s.hasRealtime {
			if d := span - seconds(s.realtime); d > timeTolerance || d < -timeTolerance {
				return fmt.Errorf("%w: stop - start = %v, realtime = %vs", ErrInconsistentTimes, span, s.realtime)
			}
		} else {
			s.realtime, s.hasRealtime = span.Seconds(), true
		}
	case s.hasStart && s.hasRealtime:
		s.stop, s.hasStop = s.start.Add(seconds(s.realtime)), true
	case s.hasStop && s.hasRealtime:
		s.start, s.hasStart = s.stop.Add(-seconds(s.realtime)), true
	}

	if s.hasLivetime && s.hasRealtime && s.livetime > s.realtime {
		return fmt.Errorf("%w: livetime %vs exceeds realtime %vs", ErrDomain, s.livetime, s.realtime)
	}
	return nil
}

func checkSeconds(what string, x float64) error {
	if !numeric.IsFinite(x) || x <= 0 {
		return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrDomain, what, x)
	}
	return nil
}

func seconds(x float64) time.Duration {
	return time.Duration(math.Round(x * float64(time.Second)))
}

// Len returns the number of bins.
func (s *Spectrum) Len() int { return s.data.Len() }

// Mode returns the native representation.
func (s *Spectrum) Mode() Mode { return s.mode }

// IsCalibrated reports whether bin edges are attached.
func (s *Spectrum) IsCalibrated() bool { return s.cal != nil }

// Calibration returns a copy of the attached calibration, or nil.
func (s *Spectrum) Calibration() *calib.Calibration {
	if s.cal == nil {
		return nil
	}
	return s.cal.Clone()
}

// BinEdges returns a copy of the bin edges.
func (s *Spectrum) BinEdges() ([]float64, error) {
	if s.cal == nil {
		return nil, ErrUncalibrated
	}
	return s.cal.Edges(), nil
}

// Energies returns the bin centers.
func (s *Spectrum) Energies() ([]float64, error) {
	if s.cal == nil {
		return nil, ErrUncalibrated
	}
	return s.cal.Energies(), nil
}

// BinWidths returns the bin widths.
func (s *Spectrum) BinWidths() ([]float64, error) {
	if s.cal == nil {
		return nil, ErrUncalibrated
	}
	return s.cal.Widths(), nil
}

// FindBin returns the index of the bin containing energy x. Energies outside
// the calibrated range fail with ErrDomain.
func (s *Spectrum) FindBin(x float64) (int, error) {
	if s.cal == nil {
		return 0, ErrUncalibrated
	}
	i, err := s.cal.FindBin(x)
	if err != nil {
		return 0, domainError(err)
	}
	return i, nil
}

// HasUniformBins reports whether all bin widths agree within a relative
// tolerance of 1e-6.
func (s *Spectrum) HasUniformBins() (bool, error) {
	if s.cal == nil {
		return false, ErrUncalibrated
	}
	return s.cal.IsUniform(1e-6), nil
}

// Counts returns the integrated counts. In rate mode they are derived as
// cps · livetime.
func (s *Spectrum) Counts() (uncertain.Array, error) {
	if s.mode == ModeCounts {
		return s.data, nil
	}
	if !s.hasLivetime {
		return uncertain.Array{}, ErrRateMode
	}
	return s.data.MulFloat(s.livetime), nil
}

// CountsVals returns the nominal counts.
func (s *Spectrum) CountsVals() ([]float64, error) {
	c, err := s.Counts()
	if err != nil {
		return nil, err
	}
	return c.Nominals(), nil
}

// CountsUncs returns the count uncertainties.
func (s *Spectrum) CountsUncs() ([]float64, error) {
	c, err := s.Counts()
	if err != nil {
		return nil, err
	}
	return c.StdDevs(), nil
}

// CPS returns the count rate. In counts mode it is derived as
// counts / livetime.
func (s *Spectrum) CPS() (uncertain.Array, error) {
	if s.mode == ModeCPS {
		return s.data, nil
	}
	if !s.hasLivetime {
		return uncertain.Array{}, ErrNoLivetime
	}
	return s.data.MulFloat(1 / s.livetime), nil
}

// CPSVals returns the nominal count rates.
func (s *Spectrum) CPSVals() ([]float64, error) {
	c, err := s.CPS()
	if err != nil {
		return nil, err
	}
	return c.Nominals(), nil
}

// CPSUncs returns the count rate uncertainties.
func (s *Spectrum) CPSUncs() ([]float64, error) {
	c, err := s.CPS()
	if err != nil {
		return nil, err
	}
	return c.StdDevs(), nil
}

// CPSkeV returns the count rate density, cps divided by bin width.
func (s *Spectrum) CPSkeV() (uncertain.Array, error) {
	if s.cal == nil {
		return uncertain.Array{}, ErrUncalibrated
	}
	cps, err := s.CPS()
	if err != nil {
		return uncertain.Array{}, err
	}
	return cps.DivFloats(s.cal.Widths())
}

// CPSkeVVals returns the nominal count rate densities.
func (s *Spectrum) CPSkeVVals() ([]float64, error) {
	c, err := s.CPSkeV()
	if err != nil {
		return nil, err
	}
	return c.Nominals(), nil
}

// CPSkeVUncs returns the count rate density uncertainties.
func (s *Spectrum) CPSkeVUncs() ([]float64, error) {
	c, err := s.CPSkeV()
	if err != nil {
		return nil, err
	}
	return c.StdDevs(), nil
}

// Livetime returns the livetime in seconds and whether it is known.
func (s *Spectrum) Livetime() (float64, bool) { return s.livetime, s.hasLivetime }

// SetLivetime replaces the livetime. It must be positive, finite and not
// exceed the realtime. In rate mode this changes the derived counts, not the
// stored rates.
func (s *Spectrum) SetLivetime(lt float64) error {
	if err := checkSeconds("livetime", lt); err != nil {
		return err
	}
	if s.hasRealtime && lt > s.realtime {
		return fmt.Errorf("%w: livetime %vs exceeds realtime %vs", ErrDomain, lt, s.realtime)
	}
	s.livetime, s.hasLivetime = lt, true
	return nil
}

// ClearLivetime removes the livetime.
func (s *Spectrum) ClearLivetime() {
	s.livetime, s.hasLivetime = 0, false
}

// Realtime returns the realtime in seconds and whether it is known.
func (s *Spectrum) Realtime() (float64, bool) { return s.realtime, s.hasRealtime }

// StartTime returns the acquisition start and whether it is known.
func (s *Spectrum) StartTime() (time.Time, bool) { return s.start, s.hasStart }

// StopTime returns the acquisition stop and whether it is known.
func (s *Spectrum) StopTime() (time.Time, bool) { return s.stop, s.hasStop }

// Clone returns a deep copy of s.
func (s *Spectrum) Clone() *Spectrum {
	c := *s
	c.data = s.data.Clone()
	if s.cal != nil {
		c.cal = s.cal.Clone()
	}
	return &c
}

// String summarizes s on one line.
func (s *Spectrum) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spectrum{%s, %d bins", s.mode, s.Len())
	if s.cal != nil {
		fmt.Fprintf(&b, ", %s", s.cal)
	}
	if s.hasLivetime {
		fmt.Fprintf(&b, ", livetime %gs", s.livetime)
	}
	if s.hasRealtime {
		fmt.Fprintf(&b, ", realtime %gs", s.realtime)
	}
	if s.hasStart {
		fmt.Fprintf(&b, ", start %s", s.start.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, ", total %v}", s.data.Sum())
	return b.String()
}

// derive returns a spectrum sharing s's logger with the given data and a
// copy of cal. Acquisition metadata is left empty.
func derive(s *Spectrum, mode Mode, data uncertain.Array, cal *calib.Calibration) *Spectrum {
	out := &Spectrum{mode: mode, data: data, logger: s.logger}
	if cal != nil {
		out.cal = cal.Clone()
	}
	return out
}

// copyTimes copies realtime, start and stop from src.
func (s *Spectrum) copyTimes(src *Spectrum) {
	s.realtime, s.hasRealtime = src.realtime, src.hasRealtime
	s.start, s.hasStart = src.start, src.hasStart
	s.stop, s.hasStop = src.stop, src.hasStop
}
