package listmode

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-spectrum/calib"
	"github.com/cwbudde/algo-spectrum/internal/numeric"
)

var (
	// ErrInvalidBins indicates a non-positive bin count.
	ErrInvalidBins = errors.New("listmode: bin count must be > 0")
	// ErrInvalidRange indicates a range that is empty or non-finite.
	ErrInvalidRange = errors.New("listmode: invalid range")
	// ErrNoEvents indicates an empty event list where one is required.
	ErrNoEvents = errors.New("listmode: no events")
	// ErrNegativeCount indicates a negative number of events to sample.
	ErrNegativeCount = errors.New("listmode: negative event count")
	// ErrTooManyEvents indicates a request to sample more than MaxEvents.
	ErrTooManyEvents = errors.New("listmode: too many events")
)

// MaxEvents bounds the number of events Sample materializes in one call.
const MaxEvents = 1 << 27

// Histogram counts events into bins defined by edges. Bin i covers
// [edges[i], edges[i+1]); the last bin also includes edges[len-1]. Events
// outside [edges[0], edges[len-1]] and NaN events are ignored.
func Histogram(events, edges []float64) ([]float64, error) {
	if err := calib.Validate(edges); err != nil {
		return nil, err
	}
	counts := make([]float64, len(edges)-1)
	hi := edges[len(edges)-1]
	for _, x := range events {
		if i := floats.Within(edges, x); i >= 0 {
			counts[i]++
		} else if x == hi {
			counts[len(counts)-1]++
		}
	}
	return counts, nil
}

// UniformEdges returns n+1 equally spaced edges spanning [lo, hi].
func UniformEdges(n int, lo, hi float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBins, n)
	}
	if !numeric.IsFinite(lo) || !numeric.IsFinite(hi) || hi <= lo {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, lo, hi)
	}
	return floats.Span(make([]float64, n+1), lo, hi), nil
}

// Range returns the default histogram range for events: from
// min(min(events), 0) to max(events).
func Range(events []float64) (lo, hi float64, err error) {
	if len(events) == 0 {
		return 0, 0, ErrNoEvents
	}
	lo, hi = math.Min(floats.Min(events), 0), floats.Max(events)
	if !numeric.IsFinite(lo) || !numeric.IsFinite(hi) {
		return 0, 0, fmt.Errorf("%w: non-finite events", ErrInvalidRange)
	}
	return lo, hi, nil
}

// DefaultBins returns the default bin count for events: ceil(max(events)),
// at least 1.
func DefaultBins(events []float64) int {
	if len(events) == 0 {
		return 1
	}
	n := int(math.Ceil(floats.Max(events)))
	if n < 1 {
		return 1
	}
	return n
}

// Sample draws counts[i] events uniformly distributed in [edges[i],
// edges[i+1]) for every bin i. The returned events are ordered by bin.
func Sample(edges []float64, counts []int, src rand.Source) ([]float64, error) {
	if err := calib.Validate(edges); err != nil {
		return nil, err
	}
	if len(counts) != len(edges)-1 {
		return nil, fmt.Errorf("listmode: %d counts for %d bins", len(counts), len(edges)-1)
	}

	total := 0
	for i, n := range counts {
		if n < 0 {
			return nil, fmt.Errorf("%w: bin %d has %d", ErrNegativeCount, i, n)
		}
		if n > MaxEvents-total {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyEvents, MaxEvents)
		}
		total += n
	}

	events := make([]float64, 0, total)
	for i, n := range counts {
		if n == 0 {
			continue
		}
		lo, hi := edges[i], edges[i+1]
		u := distuv.Uniform{Min: lo, Max: hi, Src: src}
		for range n {
			x := u.Rand()
			// Rounding in lo + f*(hi-lo) can land exactly on hi.
			if x >= hi {
				x = math.Nextafter(hi, lo)
			}
			events = append(events, x)
		}
	}
	return events, nil
}
