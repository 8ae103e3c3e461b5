package spectrum

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-spectrum/internal/testutil"
	"github.com/cwbudde/algo-spectrum/uncertain"
)

const (
	testBins     = 256
	testGain     = 8.23
	testLivetime = 300.0
)

func testCounts(seed uint64) []float64 {
	return testutil.PoissonCounts(seed, testBins, 4)
}

func mustNew(t *testing.T, opts ...Option) *Spectrum {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// calibratedCounts returns a calibrated counts spectrum with livetime.
func calibratedCounts(t *testing.T, seed uint64) *Spectrum {
	t.Helper()
	return mustNew(t,
		Counts(testCounts(seed)),
		WithBinEdges(testutil.LinearEdges(testBins, testGain)),
		WithLivetime(testLivetime),
	)
}

func TestNewCountsDefaults(t *testing.T) {
	assert, require := testutil.MakeAR(t)

	counts := testCounts(1)
	s := mustNew(t, Counts(counts))

	assert.Equal(ModeCounts, s.Mode())
	assert.Equal(testBins, s.Len())
	assert.False(s.IsCalibrated())

	vals, err := s.CountsVals()
	require.NoError(err)
	assert.Equal(counts, vals)

	uncs, err := s.CountsUncs()
	require.NoError(err)
	assert.Equal(testutil.PoissonStd(counts), uncs)

	_, err = s.BinEdges()
	assert.ErrorIs(err, ErrUncalibrated)
	_, err = s.CPS()
	assert.ErrorIs(err, ErrNoLivetime)
	assert.ErrorIs(err, ErrMode)
}

func TestNewZeroCountUncertaintyIsOne(t *testing.T) {
	s := mustNew(t, Counts([]float64{0, 4, 0}))
	uncs, err := s.CountsUncs()
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, uncs, []float64{1, 2, 1}, 0)
}

func TestNewCPSDefaults(t *testing.T) {
	assert, require := testutil.MakeAR(t)

	cps := []float64{0.5, 1.5, 2.5}
	s := mustNew(t, CPS(cps))
	assert.Equal(ModeCPS, s.Mode())

	uncs, err := s.CPSUncs()
	require.NoError(err)
	for i, u := range uncs {
		assert.True(math.IsNaN(u), "bin %d: uncertainty %v, want NaN", i, u)
	}

	_, err = s.Counts()
	assert.ErrorIs(err, ErrRateMode)

	withLT := mustNew(t, CPS(cps), WithLivetime(10))
	counts, err := withLT.CountsVals()
	require.NoError(err)
	testutil.RequireSliceNearlyEqual(t, counts, []float64{5, 15, 25}, 1e-12)
}

func TestNewUncertainInput(t *testing.T) {
	assert, require := testutil.MakeAR(t)

	vals := []uncertain.Value{uncertain.New(10, 2), uncertain.New(-1, 1)}
	s := mustNew(t, CountValues(vals))
	got, err := s.Counts()
	require.NoError(err)
	assert.Equal(vals, got.Values())

	_, err = New(CountValues(vals), WithUncertainties([]float64{2, 1}))
	assert.ErrorIs(err, ErrConflictingUncertainty)

	r := mustNew(t, CPSValues(vals))
	assert.Equal(ModeCPS, r.Mode())
}

func TestNewExplicitUncertaintiesAllowNegative(t *testing.T) {
	s := mustNew(t, Counts([]float64{-3, 5}), WithUncertainties([]float64{1, 2}))
	uncs, err := s.CountsUncs()
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, uncs, []float64{1, 2}, 0)
}

func TestNewErrors(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		opts     []Option
		want     error
		category error
	}{
		{"no data", nil, ErrAmbiguousRepresentation, ErrConstruction},
		{"counts and cps", []Option{Counts([]float64{1}), CPS([]float64{1})}, ErrAmbiguousRepresentation, ErrConstruction},
		{"counts twice", []Option{Counts([]float64{1}), CountValues([]uncertain.Value{{Nominal: 1}})}, ErrAmbiguousRepresentation, ErrConstruction},
		{"edges only", []Option{WithBinEdges([]float64{0, 1})}, ErrMetadataOnly, ErrConstruction},
		{"empty counts", []Option{Counts([]float64{})}, ErrEmpty, ErrConstruction},
		{"empty values", []Option{CPSValues(nil)}, ErrEmpty, ErrConstruction},
		{"edge length", []Option{Counts([]float64{1, 2, 3}), WithBinEdges([]float64{0, 1, 2})}, ErrEdgeLength, ErrConstruction},
		{"edges not increasing", []Option{Counts([]float64{1, 2}), WithBinEdges([]float64{0, 2, 1})}, ErrDomain, ErrDomain},
		{"uncertainty length", []Option{Counts([]float64{1, 2}), WithUncertainties([]float64{1})}, ErrUncertaintyLength, ErrConstruction},
		{
			"conflicting uncertainty",
			[]Option{CountValues([]uncertain.Value{uncertain.New(4, 2)}), WithUncertainties([]float64{3})},
			ErrConflictingUncertainty, ErrConstruction,
		},
		{
			"identical uncertainty override",
			[]Option{CountValues([]uncertain.Value{uncertain.New(10, 1), uncertain.New(4, 1)}), WithUncertainties([]float64{1, 1})},
			ErrConflictingUncertainty, ErrConstruction,
		},
		{"negative counts", []Option{Counts([]float64{1, -1})}, ErrNegativeCounts, ErrConstruction},
		{"negative cps", []Option{CPS([]float64{-0.5})}, ErrNegativeCounts, ErrConstruction},
		{"negative uncertainty", []Option{Counts([]float64{1}), WithUncertainties([]float64{-1})}, ErrDomain, ErrDomain},
		{"nan counts", []Option{Counts([]float64{math.NaN()})}, ErrDomain, ErrDomain},
		{"zero livetime", []Option{Counts([]float64{1}), WithLivetime(0)}, ErrDomain, ErrDomain},
		{"nan livetime", []Option{Counts([]float64{1}), WithLivetime(math.NaN())}, ErrDomain, ErrDomain},
		{"negative realtime", []Option{Counts([]float64{1}), WithRealtime(-5)}, ErrDomain, ErrDomain},
		{"livetime exceeds realtime", []Option{Counts([]float64{1}), WithLivetime(10), WithRealtime(5)}, ErrDomain, ErrDomain},
		{
			"stop before start",
			[]Option{Counts([]float64{1}), WithStartTime(start), WithStopTime(start.Add(-time.Second))},
			ErrDomain, ErrDomain,
		},
		{
			"inconsistent times",
			[]Option{Counts([]float64{1}), WithStartTime(start), WithStopTime(start.Add(time.Minute)), WithRealtime(30)},
			ErrInconsistentTimes, ErrConstruction,
		},
		{
			"livetime exceeds derived realtime",
			[]Option{Counts([]float64{1}), WithStartTime(start), WithStopTime(start.Add(time.Minute)), WithLivetime(61)},
			ErrDomain, ErrDomain,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, tt.category) {
				t.Fatalf("New() error = %v, not in category %v", err, tt.category)
			}
			if s != nil {
				t.Fatalf("New() returned a spectrum alongside error")
			}
		})
	}
}

func TestTimeDerivation(t *testing.T) {
	assert, _ := testutil.MakeAR(t)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stop := start.Add(90 * time.Second)
	counts := Counts([]float64{1, 2})

	s := mustNew(t, counts, WithStartTime(start), WithStopTime(stop))
	rt, ok := s.Realtime()
	assert.True(ok)
	assert.Equal(90.0, rt)

	s = mustNew(t, counts, WithStartTime(start), WithRealtime(90))
	got, ok := s.StopTime()
	assert.True(ok)
	assert.True(got.Equal(stop), "stop = %v, want %v", got, stop)

	s = mustNew(t, counts, WithStopTime(stop), WithRealtime(90))
	got, ok = s.StartTime()
	assert.True(ok)
	assert.True(got.Equal(start), "start = %v, want %v", got, start)

	_, err := New(counts, WithStartTime(start), WithStopTime(stop), WithRealtime(90))
	assert.NoError(err)

	s = mustNew(t, counts)
	_, ok = s.Realtime()
	assert.False(ok)
	_, ok = s.StartTime()
	assert.False(ok)
}

func TestZeroStartTimeIsGiven(t *testing.T) {
	assert, _ := testutil.MakeAR(t)
	s := mustNew(t, Counts([]float64{1, 2}), WithStartTime(time.Time{}), WithRealtime(10))

	start, ok := s.StartTime()
	assert.True(ok)
	assert.True(start.IsZero())
	stop, ok := s.StopTime()
	assert.True(ok)
	assert.Equal(10*time.Second, stop.Sub(start))

	c := s.Clone()
	_, ok = c.StartTime()
	assert.True(ok)

	_, err := New(Counts([]float64{1}), WithStartTime(time.Time{}), WithStopTime(time.Time{}.Add(time.Minute)), WithRealtime(30))
	assert.ErrorIs(err, ErrInconsistentTimes)
}

func TestNewCopiesInput(t *testing.T) {
	counts := []float64{1, 2, 3}
	edges := []float64{0, 1, 2, 3}
	s := mustNew(t, Counts(counts), WithBinEdges(edges))
	counts[0] = 100
	edges[1] = 0.5

	vals, _ := s.CountsVals()
	got, _ := s.BinEdges()
	if vals[0] != 1 || got[1] != 1 {
		t.Fatalf("spectrum aliases caller input: counts %v edges %v", vals, got)
	}
	got[2] = 42
	again, _ := s.BinEdges()
	if again[2] != 2 {
		t.Fatalf("BinEdges exposes internal storage")
	}
}

func TestCountsCPSConversion(t *testing.T) {
	s := calibratedCounts(t, 2)
	counts, _ := s.CountsVals()
	uncs, _ := s.CountsUncs()

	cps, err := s.CPSVals()
	if err != nil {
		t.Fatal(err)
	}
	cpsUncs, _ := s.CPSUncs()
	for i := range counts {
		testutil.RequireNearlyEqual(t, cps[i], counts[i]/testLivetime, 1e-12, "cps")
		testutil.RequireNearlyEqual(t, cpsUncs[i], uncs[i]/testLivetime, 1e-12, "cps uncertainty")
	}
}

func TestCPSkeV(t *testing.T) {
	assert, require := testutil.MakeAR(t)

	uncal := mustNew(t, Counts([]float64{10, 20}), WithLivetime(2))
	_, err := uncal.CPSkeV()
	assert.ErrorIs(err, ErrUncalibrated)

	noLT := mustNew(t, Counts([]float64{10, 20}), WithBinEdges([]float64{0, 1, 3}))
	_, err = noLT.CPSkeVVals()
	assert.ErrorIs(err, ErrNoLivetime)

	s := mustNew(t, Counts([]float64{10, 20}), WithBinEdges([]float64{0, 1, 3}), WithLivetime(2))
	got, err := s.CPSkeVVals()
	require.NoError(err)
	testutil.RequireSliceNearlyEqual(t, got, []float64{5, 5}, 1e-12)
	uncs, err := s.CPSkeVUncs()
	require.NoError(err)
	testutil.RequireSliceNearlyEqual(t, uncs, []float64{math.Sqrt(10) / 2, math.Sqrt(20) / 4}, 1e-12)
}

func TestCalibrationViews(t *testing.T) {
	assert, require := testutil.MakeAR(t)
	s := mustNew(t, Counts([]float64{1, 1, 1}), WithBinEdges([]float64{0, 1, 2, 4}))

	e, err := s.Energies()
	require.NoError(err)
	assert.Equal([]float64{0.5, 1.5, 3}, e)
	w, err := s.BinWidths()
	require.NoError(err)
	assert.Equal([]float64{1, 1, 2}, w)
	uniform, err := s.HasUniformBins()
	require.NoError(err)
	assert.False(uniform)

	tests := []struct {
		x    float64
		want int
		err  error
	}{
		{0, 0, nil},
		{1.5, 1, nil},
		{3.99, 2, nil},
		{4, 0, ErrDomain},
		{-0.1, 0, ErrDomain},
	}
	for _, tt := range tests {
		got, err := s.FindBin(tt.x)
		if tt.err != nil {
			assert.ErrorIs(err, tt.err, "FindBin(%v)", tt.x)
			continue
		}
		require.NoError(err)
		assert.Equal(tt.want, got, "FindBin(%v)", tt.x)
	}

	_, err = mustNew(t, Counts([]float64{1})).FindBin(0)
	assert.ErrorIs(err, ErrUncalibrated)
}

func TestSetLivetime(t *testing.T) {
	assert, _ := testutil.MakeAR(t)
	s := mustNew(t, CPS([]float64{1, 2}), WithRealtime(10))

	assert.ErrorIs(s.SetLivetime(-1), ErrDomain)
	assert.ErrorIs(s.SetLivetime(11), ErrDomain)
	assert.NoError(s.SetLivetime(4))
	counts, err := s.CountsVals()
	assert.NoError(err)
	assert.Equal([]float64{4, 8}, counts)

	s.ClearLivetime()
	_, ok := s.Livetime()
	assert.False(ok)
	_, err = s.Counts()
	assert.ErrorIs(err, ErrRateMode)
}

func TestCloneIsIndependent(t *testing.T) {
	assert, _ := testutil.MakeAR(t)
	s := calibratedCounts(t, 3)
	c := s.Clone()

	c.RemoveCalibration()
	c.ClearLivetime()
	assert.True(s.IsCalibrated())
	_, ok := s.Livetime()
	assert.True(ok)

	a, _ := s.Counts()
	b, _ := c.Counts()
	assert.True(a.Equal(b))
}

func TestString(t *testing.T) {
	s := calibratedCounts(t, 4)
	got := s.String()
	for _, want := range []string{"counts", "256 bins", "livetime 300s"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
