// Package listmode converts between event lists and histograms.
//
// A listmode record is a sequence of individual event energies. Histogram
// bins such a sequence into half-open bins [lo, hi), except that the last
// bin is closed on the right so that an event exactly at the upper bound is
// counted. Sample performs the reverse direction: it draws synthetic events
// uniformly inside each bin of an existing histogram.
package listmode
