package spectrum

import (
	"testing"

	"github.com/cwbudde/algo-spectrum/internal/testutil"
	"github.com/cwbudde/algo-spectrum/warn"
)

func benchSpectrum(b *testing.B, n int) *Spectrum {
	b.Helper()
	s, err := New(
		Counts(testutil.PoissonCounts(1, n, 50)),
		WithBinEdges(testutil.LinearEdges(n, 0.5)),
		WithLivetime(60),
	)
	if err != nil {
		b.Fatal(err)
	}
	return s
}

func BenchmarkAdd(b *testing.B) {
	x, y := benchSpectrum(b, 4096), benchSpectrum(b, 4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Add(x, y, WithWarningHandler(warn.Discard)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCombineBins(b *testing.B) {
	s := benchSpectrum(b, 4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.CombineBins(4); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDownsample(b *testing.B) {
	s := benchSpectrum(b, 4096)
	src := testutil.Source(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Downsample(3, WithSource(src)); err != nil {
			b.Fatal(err)
		}
	}
}
