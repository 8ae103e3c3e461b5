package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-spectrum/spectrum"
	"github.com/cwbudde/algo-spectrum/uncertain"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Print a summary of each spectrum file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				s, err := readSpectrum(path)
				if err != nil {
					return err
				}
				if err := printInfo(cmd.OutOrStdout(), path, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printInfo(w io.Writer, path string, s *spectrum.Spectrum) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\t%s\n", path)
	fmt.Fprintf(tw, "Mode\t%s\n", s.Mode())
	fmt.Fprintf(tw, "Bins\t%d\n", s.Len())

	data, unit := nativeData(s)
	fmt.Fprintf(tw, "Total\t%v %s\n", data.Sum(), unit)
	if lt, ok := s.Livetime(); ok {
		fmt.Fprintf(tw, "Livetime\t%g s\n", lt)
	}
	if rt, ok := s.Realtime(); ok {
		fmt.Fprintf(tw, "Realtime\t%g s\n", rt)
	}
	if t, ok := s.StartTime(); ok {
		fmt.Fprintf(tw, "Start\t%s\n", t.Format(time.RFC3339))
	}
	if t, ok := s.StopTime(); ok {
		fmt.Fprintf(tw, "Stop\t%s\n", t.Format(time.RFC3339))
	}

	vals := data.Nominals()
	peak := floats.MaxIdx(vals)
	if cal := s.Calibration(); cal != nil {
		uniform, _ := s.HasUniformBins()
		fmt.Fprintf(tw, "Calibration\t[%g, %g], uniform=%t\n", cal.Lo(), cal.Hi(), uniform)
		energies := cal.Energies()
		fmt.Fprintf(tw, "Peak\tbin %d at %g\n", peak, energies[peak])
		mean, std := weightedMoments(energies, vals)
		fmt.Fprintf(tw, "Mean energy\t%s\n", formatMoment(mean, std))
	} else {
		fmt.Fprintf(tw, "Calibration\tnone\n")
		fmt.Fprintf(tw, "Peak\tbin %d\n", peak)
	}
	return tw.Flush()
}

// nativeData returns counts when available and the rates otherwise.
func nativeData(s *spectrum.Spectrum) (uncertain.Array, string) {
	if c, err := s.Counts(); err == nil {
		return c, "counts"
	}
	c, _ := s.CPS()
	return c, "cps"
}

// weightedMoments returns the mean and standard deviation of x weighted by
// w. Negative weights are clipped to zero.
func weightedMoments(x, w []float64) (mean, std float64) {
	weights := make([]float64, len(w))
	for i, v := range w {
		weights[i] = math.Max(v, 0)
	}
	if floats.Sum(weights) == 0 {
		return math.NaN(), math.NaN()
	}
	mean, variance := stat.MeanVariance(x, weights)
	return mean, math.Sqrt(variance)
}

func formatMoment(mean, std float64) string {
	if math.IsNaN(mean) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g (std %.4g)", mean, std)
}
