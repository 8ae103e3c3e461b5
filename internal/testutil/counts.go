package testutil

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source returns a deterministic random source for seed.
func Source(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// PoissonCounts draws n Poisson(lambda) counts from a seeded source.
func PoissonCounts(seed uint64, n int, lambda float64) []float64 {
	dist := distuv.Poisson{Lambda: lambda, Src: Source(seed)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// GaussianEvents draws n normally distributed event energies.
func GaussianEvents(seed uint64, n int, mean, sigma float64) []float64 {
	dist := distuv.Normal{Mu: mean, Sigma: sigma, Src: Source(seed)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// LinearEdges returns n+1 edges k*gain for k = 0..n.
func LinearEdges(n int, gain float64) []float64 {
	out := make([]float64, n+1)
	for i := range out {
		out[i] = float64(i) * gain
	}
	return out
}

// PoissonStd returns the default count uncertainty: sqrt(c), or 1 for c == 0.
func PoissonStd(counts []float64) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		if c == 0 {
			out[i] = 1
			continue
		}
		out[i] = math.Sqrt(c)
	}
	return out
}
