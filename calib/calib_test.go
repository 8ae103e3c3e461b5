package calib

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectrum/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		edges []float64
		want  error
	}{
		{name: "too few", edges: []float64{1}, want: ErrTooFewEdges},
		{name: "repeated", edges: []float64{0, 1, 1, 2}, want: ErrNotIncreasing},
		{name: "decreasing", edges: []float64{0, 2, 1}, want: ErrNotIncreasing},
		{name: "nan", edges: []float64{0, math.NaN(), 2}, want: ErrNonFinite},
		{name: "inf", edges: []float64{0, 1, math.Inf(1)}, want: ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.edges); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDerivedViews(t *testing.T) {
	edges := testutil.LinearEdges(4, 8.23)
	c, err := New(edges)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 4 {
		t.Fatalf("Len = %d, want 4", c.Len())
	}
	testutil.RequireSliceNearlyEqual(t, c.Widths(), []float64{8.23, 8.23, 8.23, 8.23}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, c.Energies(), []float64{4.115, 12.345, 20.575, 28.805}, 1e-12)
	if !c.IsUniform(1e-9) {
		t.Fatal("linear edges should be uniform")
	}

	log, _ := New([]float64{1, 10, 100, 1000})
	if log.IsUniform(1e-9) {
		t.Fatal("log edges should not be uniform")
	}
}

func TestEdgesAreCopied(t *testing.T) {
	edges := []float64{0, 1, 2}
	c, _ := New(edges)
	edges[0] = -5
	if c.Lo() != 0 {
		t.Fatal("New aliased the caller's edges")
	}
	out := c.Edges()
	out[1] = 42
	if c.Edges()[1] != 1 {
		t.Fatal("Edges returned internal storage")
	}
	cl := c.Clone()
	if !cl.Equal(c) || cl == c {
		t.Fatal("Clone must be equal but distinct")
	}
}

func TestFindBinHalfOpen(t *testing.T) {
	c, _ := New([]float64{0, 10, 20})
	tests := []struct {
		x    float64
		want int
	}{
		{x: 0, want: 0},
		{x: 9.999, want: 0},
		{x: 10, want: 1},
		{x: 19.999, want: 1},
	}
	for _, tt := range tests {
		got, err := c.FindBin(tt.x)
		if err != nil || got != tt.want {
			t.Fatalf("FindBin(%v) = %d, %v; want %d", tt.x, got, err, tt.want)
		}
	}
	for _, x := range []float64{20, 25, -0.1, math.NaN()} {
		if _, err := c.FindBin(x); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("FindBin(%v) err = %v, want ErrOutOfRange", x, err)
		}
	}
}

func TestEqualNil(t *testing.T) {
	var a, b *Calibration
	if !a.Equal(b) {
		t.Fatal("nil calibrations should be equal")
	}
	c, _ := New([]float64{0, 1})
	if c.Equal(nil) {
		t.Fatal("calibrated vs nil should differ")
	}
}
