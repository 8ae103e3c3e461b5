package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-spectrum/listmode"
	"github.com/cwbudde/algo-spectrum/rebin"
	"github.com/cwbudde/algo-spectrum/specio"
	"github.com/cwbudde/algo-spectrum/spectrum"
)

func newRebinCommand() *cobra.Command {
	var (
		out      outputFlags
		edgeList string
		bins     int
		lo, hi   float64
		method   string
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "rebin FILE",
		Short: "Redistribute counts onto new bin edges",
		Long: `Rebin a calibrated spectrum onto explicit --edges, or onto --bins uniform
bins between --min and --max (defaulting to the spectrum's own range).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := rebin.ParseMethod(method)
			if err != nil {
				return err
			}
			s, err := readSpectrum(args[0])
			if err != nil {
				return err
			}

			var edges []float64
			switch {
			case edgeList != "":
				if edges, err = parseFloats(edgeList); err != nil {
					return fmt.Errorf("--edges: %w", err)
				}
			case bins > 0:
				cal := s.Calibration()
				if cal == nil {
					return spectrum.ErrUncalibrated
				}
				if !cmd.Flags().Changed("min") {
					lo = cal.Lo()
				}
				if !cmd.Flags().Changed("max") {
					hi = cal.Hi()
				}
				if edges, err = listmode.UniformEdges(bins, lo, hi); err != nil {
					return err
				}
			default:
				return errors.New("one of --edges or --bins is required")
			}

			r, err := s.Rebin(edges, rebin.WithMethod(m), rebin.WithSource(source(seed)))
			if err != nil {
				return err
			}
			return out.write(cmd, r)
		},
	}
	cmd.Flags().StringVar(&edgeList, "edges", "", "comma-separated target bin edges")
	cmd.Flags().IntVar(&bins, "bins", 0, "number of uniform target bins")
	cmd.Flags().Float64Var(&lo, "min", 0, "lower edge for --bins")
	cmd.Flags().Float64Var(&hi, "max", 0, "upper edge for --bins")
	cmd.Flags().StringVar(&method, "method", "interpolation", "rebin method: interpolation or listmode")
	cmd.Flags().Uint64Var(&seed, "seed", defaultSeed(), "random seed for the listmode method (0: random)")
	out.register(cmd)
	return cmd
}

func newCombineCommand() *cobra.Command {
	var (
		out    outputFlags
		factor int
	)
	cmd := &cobra.Command{
		Use:   "combine FILE",
		Short: "Sum runs of consecutive bins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readSpectrum(args[0])
			if err != nil {
				return err
			}
			r, err := s.CombineBins(factor)
			if err != nil {
				return err
			}
			return out.write(cmd, r)
		},
	}
	cmd.Flags().IntVar(&factor, "factor", 2, "number of bins to combine")
	out.register(cmd)
	return cmd
}

func newDownsampleCommand() *cobra.Command {
	var (
		out      outputFlags
		factor   float64
		livetime string
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "downsample FILE",
		Short: "Thin counts by binomial sampling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := spectrum.ParseLivetimePolicy(livetime)
			if err != nil {
				return err
			}
			s, err := readSpectrum(args[0])
			if err != nil {
				return err
			}
			r, err := s.Downsample(factor,
				spectrum.WithLivetimePolicy(policy),
				spectrum.WithSource(source(seed)),
			)
			if err != nil {
				return err
			}
			return out.write(cmd, r)
		},
	}
	cmd.Flags().Float64Var(&factor, "factor", 2, "downsampling factor (>= 1)")
	cmd.Flags().StringVar(&livetime, "livetime", "drop", "livetime handling: drop, preserve or reduce")
	cmd.Flags().Uint64Var(&seed, "seed", defaultSeed(), "random seed (0: random)")
	out.register(cmd)
	return cmd
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported file extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, ext := range specio.Extensions() {
				fmt.Fprintln(cmd.OutOrStdout(), ext)
			}
			return nil
		},
	}
}
