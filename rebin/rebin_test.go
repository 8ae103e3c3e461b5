package rebin

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectrum/calib"
	"github.com/cwbudde/algo-spectrum/internal/testutil"
	"github.com/cwbudde/algo-spectrum/listmode"
	"github.com/cwbudde/algo-spectrum/uncertain"
	"github.com/cwbudde/algo-spectrum/warn"
)

const (
	testBins = 256
	testGain = 8.23
)

func testCounts(seed uint64) uncertain.Array {
	return uncertain.PoissonArray(testutil.PoissonCounts(seed, testBins, 4))
}

func targetEdges() map[string][]float64 {
	src := testutil.LinearEdges(testBins, testGain)
	same := testutil.LinearEdges(testBins, testGain)
	subset := append([]float64(nil), src[1:len(src)-2]...)
	more := make([]float64, len(src)+10)
	for i := range more {
		more[i] = src[len(src)-1] * float64(i) / float64(len(more)-1)
	}
	return map[string][]float64{
		"same edges":            same,
		"subset of edges":       subset,
		"same bounds more bins": more,
	}
}

func TestRebinConservesTotal(t *testing.T) {
	src := testutil.LinearEdges(testBins, testGain)
	in := testCounts(1)
	total := in.Sum().Nominal

	for name, out := range targetEdges() {
		for _, m := range []Method{Interpolation, Listmode} {
			t.Run(name+"/"+m.String(), func(t *testing.T) {
				got, err := Counts(src, in, out,
					WithMethod(m), WithSource(testutil.Source(3)), WithZeroPadWarnings(false))
				if err != nil {
					t.Fatal(err)
				}
				if got.Len() != len(out)-1 {
					t.Fatalf("len = %d, want %d", got.Len(), len(out)-1)
				}
				testutil.RequireNearlyEqual(t, got.Sum().Nominal, total, 1e-9, "total counts")
			})
		}
	}
}

func TestRebinIdentity(t *testing.T) {
	src := testutil.LinearEdges(testBins, testGain)
	in := testCounts(2)

	for _, m := range []Method{Interpolation, Listmode} {
		t.Run(m.String(), func(t *testing.T) {
			got, err := Counts(src, in, src, WithMethod(m), WithSource(testutil.Source(5)))
			if err != nil {
				t.Fatal(err)
			}
			testutil.RequireSliceNearlyEqual(t, got.Nominals(), in.Nominals(), 1e-9)
			testutil.RequireSliceNearlyEqual(t, got.StdDevs(), in.StdDevs(), 1e-9)
		})
	}
}

func TestInterpolationSplitsProportionally(t *testing.T) {
	in, _ := uncertain.NewArray([]float64{10, 20}, []float64{2, 4})
	got, err := Counts([]float64{0, 10, 20}, in, []float64{0, 5, 15, 20}, WithOverflow(OverflowDiscard))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Nominals(), []float64{5, 15, 10}, 1e-12)
	// Half of each source bin: var = 0.25*σ².
	testutil.RequireSliceNearlyEqual(t, got.StdDevs(), []float64{
		1,
		math.Sqrt(0.25*4 + 0.25*16),
		2,
	}, 1e-12)
}

func TestOverflowPolicy(t *testing.T) {
	in, _ := uncertain.NewArray([]float64{10, 20, 30}, []float64{1, 1, 1})
	edges := []float64{0, 10, 20, 30}
	out := []float64{10, 20}

	folded, err := Counts(edges, in, out)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, folded.Nominals(), []float64{60}, 1e-12)

	discarded, err := Counts(edges, in, out, WithOverflow(OverflowDiscard))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, discarded.Nominals(), []float64{20}, 1e-12)
}

func TestZeroPadding(t *testing.T) {
	in, _ := uncertain.NewArray([]float64{4, 9}, []float64{2, 3})
	edges := []float64{10, 20, 30}
	out := []float64{0, 5, 10, 20, 30, 40, 50}

	var c warn.Collector
	got, err := Counts(edges, in, out, WithPadPolicy(PadNaN), WithWarningHandler(c.Handler()))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Nominals(), []float64{0, 0, 4, 9, 0, 0}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, got.StdDevs(),
		[]float64{math.NaN(), math.NaN(), 2, 3, math.NaN(), math.NaN()}, 1e-12)
	if !c.Has(warn.ZeroPad) {
		t.Fatal("expected a zero-pad warning")
	}

	var quiet warn.Collector
	got, err = Counts(edges, in, out, WithZeroPadWarnings(false), WithWarningHandler(quiet.Handler()))
	if err != nil {
		t.Fatal(err)
	}
	if len(quiet.Warnings()) != 0 {
		t.Fatalf("warnings = %v, want none", quiet.Warnings())
	}
	if got.At(0).StdDev != 0 {
		t.Fatalf("PadZero std = %v, want 0", got.At(0).StdDev)
	}
}

func TestListmodeLossyRoundingWarns(t *testing.T) {
	in, _ := uncertain.NewArray([]float64{2.4, 3, 0.6}, []float64{1, 1, 1})
	edges := []float64{0, 1, 2, 3}

	var c warn.Collector
	got, err := Counts(edges, in, edges,
		WithMethod(Listmode), WithSource(testutil.Source(1)), WithWarningHandler(c.Handler()))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Nominals(), []float64{2, 3, 1}, 0)
	if !c.Has(warn.LossyRounding) {
		t.Fatal("expected a lossy-rounding warning")
	}

	var none warn.Collector
	ints, _ := uncertain.NewArray([]float64{2, 3, 1}, []float64{1, 1, 1})
	if _, err := Counts(edges, ints, edges, WithMethod(Listmode), WithWarningHandler(none.Handler())); err != nil {
		t.Fatal(err)
	}
	if none.Has(warn.LossyRounding) {
		t.Fatal("integer counts must not warn")
	}
}

func TestListmodeReproducible(t *testing.T) {
	src := testutil.LinearEdges(testBins, testGain)
	out := targetEdges()["same bounds more bins"]
	in := testCounts(4)

	a, _ := Counts(src, in, out, WithMethod(Listmode), WithSource(testutil.Source(11)))
	b, _ := Counts(src, in, out, WithMethod(Listmode), WithSource(testutil.Source(11)))
	if !a.Equal(b) {
		t.Fatal("same seed must give the same result")
	}
}

func TestRebinErrors(t *testing.T) {
	edges := []float64{0, 1, 2}
	in := uncertain.PoissonArray([]float64{1, 2})

	if _, err := Counts(edges, uncertain.PoissonArray([]float64{1}), edges); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	if _, err := Counts(edges, in, []float64{0, 2, 1}); !errors.Is(err, calib.ErrNotIncreasing) {
		t.Fatalf("err = %v, want ErrNotIncreasing", err)
	}
	if _, err := Counts(edges, in, edges, WithMethod(Method(9))); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
	if _, err := Counts(edges, in, edges, WithPadPolicy(PadPolicy(7))); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("err = %v, want ErrUnknownPolicy", err)
	}
	neg, _ := uncertain.NewArray([]float64{-3, 2}, []float64{1, 1})
	if _, err := Counts(edges, neg, edges, WithMethod(Listmode)); !errors.Is(err, ErrNegativeCounts) {
		t.Fatalf("err = %v, want ErrNegativeCounts", err)
	}
	nan, _ := uncertain.NewArray([]float64{math.NaN(), 2}, []float64{1, 1})
	if _, err := Counts(edges, nan, edges); !errors.Is(err, ErrNonFiniteCounts) {
		t.Fatalf("err = %v, want ErrNonFiniteCounts", err)
	}
}

func TestListmodeEventLimit(t *testing.T) {
	edges := []float64{0, 1, 2}
	for _, counts := range [][]float64{{1e12, 0}, {listmode.MaxEvents, 1}} {
		_, err := Counts(edges, uncertain.PoissonArray(counts), edges, WithMethod(Listmode))
		if !errors.Is(err, listmode.ErrTooManyEvents) {
			t.Fatalf("counts %v: err = %v, want ErrTooManyEvents", counts, err)
		}
	}

	// Interpolation has no event limit.
	out, err := Counts(edges, uncertain.PoissonArray([]float64{1e12, 0}), edges)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Nominals(), []float64{1e12, 0}, 1e-3)
}

func TestParseMethod(t *testing.T) {
	for s, want := range map[string]Method{"interpolation": Interpolation, "Listmode": Listmode, "interp": Interpolation} {
		got, err := ParseMethod(s)
		if err != nil || got != want {
			t.Fatalf("ParseMethod(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseMethod("spline"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
}
