// Package rebin redistributes histogram contents onto a new set of bin
// edges.
//
// Two methods are available:
//
//   - Interpolation: deterministic. Counts are assumed uniformly distributed
//     inside each source bin; each target bin receives the difference of the
//     piecewise-linear cumulative count at its two edges. Uncertainty is
//     propagated as var_i = Σ_j f_ij² σ_j², where f_ij is the fraction of
//     source bin j that falls in target bin i.
//   - Listmode: stochastic. Every source bin's rounded count is expanded into
//     synthetic events drawn uniformly inside the bin, and the events are
//     histogrammed into the target edges. Output uncertainties are Poisson.
//     The rounded total may not exceed listmode.MaxEvents.
//
// Both methods reproduce the input when the target edges equal the source
// edges. With the default OverflowFold policy, source content below the first
// target edge is assigned to the first target bin and content above the last
// target edge to the last one, so totals are conserved. Target bins that do
// not overlap the source at all are zero-padded and reported with a
// warn.ZeroPad warning.
//
// Common workflow:
//
//	out, err := rebin.Counts(inEdges, counts, outEdges,
//		rebin.WithMethod(rebin.Listmode),
//		rebin.WithSource(rand.NewPCG(1, 2)))
package rebin

import "github.com/cwbudde/algo-spectrum/internal/logging"

var logger = logging.New("rebin")
