package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectrum/internal/logging"
	"github.com/cwbudde/algo-spectrum/specio"
	"github.com/cwbudde/algo-spectrum/spectrum"
)

var logger = logging.New("specinfo")

func newRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "specinfo",
		Short: "Inspect and transform detector spectrum files",
		Long: `specinfo reads spectrum files (` + strings.Join(specio.Extensions(), " ") + `),
prints summaries and writes rebinned, combined or downsampled copies.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				_ = os.Setenv("SPECTRUM_LOG", "D")
				logging.Reload()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInfoCommand(),
		newRebinCommand(),
		newCombineCommand(),
		newDownsampleCommand(),
		newFormatsCommand(),
	)
	return root
}

func readSpectrum(path string) (*spectrum.Spectrum, error) {
	s, err := specio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded", zap.String("path", path), zap.Stringer("spectrum", s))
	return s, nil
}

type outputFlags struct {
	path   string
	format string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "output", "o", "", "output file; the extension selects the format")
	cmd.Flags().StringVar(&o.format, "format", "yaml", "format written to stdout when --output is not set")
}

func (o *outputFlags) write(cmd *cobra.Command, s *spectrum.Spectrum) error {
	if o.path != "" {
		return specio.WriteFile(o.path, s)
	}
	return specio.Write(cmd.OutOrStdout(), o.format, s)
}

// defaultSeed returns SPECINFO_SEED, or 0 when unset or invalid.
func defaultSeed() uint64 {
	seed, err := strconv.ParseUint(os.Getenv("SPECINFO_SEED"), 10, 64)
	if err != nil {
		return 0
	}
	return seed
}

// source returns a PCG source for seed; seed 0 selects a random seed.
func source(seed uint64) rand.Source {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func parseFloats(list string) ([]float64, error) {
	fields := strings.Split(list, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = x
	}
	return out, nil
}
