package spectrum

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-spectrum/listmode"
)

// FromListmode histograms a list of event energies into a counts spectrum.
//
// The grid comes from WithBinEdges if given. Otherwise it is uniform with
// WithBins bins (default ceil(max(events)), at least 1) over WithRange
// (default [min(min(events), 0), max(events)]). Bins are half-open except
// the last, which includes its upper edge. Events outside the grid are
// dropped. Other options, such as WithLivetime, apply as in New.
func FromListmode(events []float64, opts ...Option) (*Spectrum, error) {
	cfg := applyOptions(opts)
	if len(cfg.data) > 0 {
		return nil, fmt.Errorf("%w: listmode data and explicit counts", ErrAmbiguousRepresentation)
	}

	edges := cfg.edges
	if !cfg.hasEdges {
		var err error
		lo, hi := cfg.xmin, cfg.xmax
		if !cfg.hasRange {
			if len(events) == 0 {
				return nil, fmt.Errorf("%w: no events", ErrEmpty)
			}
			if lo, hi, err = listmode.Range(events); err != nil {
				return nil, domainError(err)
			}
		}
		n := cfg.bins
		if n == 0 {
			n = listmode.DefaultBins(events)
		}
		if edges, err = listmode.UniformEdges(n, lo, hi); err != nil {
			return nil, domainError(err)
		}
	}

	counts, err := listmode.Histogram(events, edges)
	if err != nil {
		return nil, domainError(err)
	}
	return New(append(slices.Clone(opts), Counts(counts), WithBinEdges(edges))...)
}
