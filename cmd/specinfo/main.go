// Command specinfo inspects and transforms detector spectrum files.
//
// Usage:
//
//	specinfo [command] [flags] FILE
//
// Defaults for some flags are read from the environment and from a .env
// file in the working directory: SPECINFO_SEED seeds the stochastic
// commands, SPECTRUM_LOG and SPECTRUM_LOG_<PKG> set log levels.
//
// Examples:
//
//	specinfo info run42.yaml
//	specinfo rebin --bins 512 --min 0 --max 3000 -o out.csv run42.yaml
//	specinfo rebin --edges 0,100,200,400 --method listmode --seed 7 run42.json
//	specinfo combine --factor 4 run42.toml
//	specinfo downsample --factor 10 --livetime reduce -o thin.yaml run42.yaml
//	specinfo formats
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cwbudde/algo-spectrum/internal/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Reload()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
