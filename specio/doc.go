// Package specio reads and writes spectrum files.
//
// Parsers are registered per file extension. ReadFile dispatches on the
// lower-cased extension of its argument: an extension without a parser fails
// with ErrNoParser, which matches spectrum.ErrNotImplemented, while a parser
// that rejects its input fails with ErrMalformed.
//
// Every parser produces a Record, the flat set of fields a Spectrum is built
// from. Recoverable irregularities, such as a missing livetime that defaults
// to the realtime, are attached to the Record as warn.ParseQuirk warnings.
//
// Built-in formats:
//
//	.csv         one bin per row, "# key: value" metadata comments
//	.yaml, .yml  YAML mapping
//	.toml        TOML table
//	.json        JSON object validated against an embedded JSON schema
package specio

import "github.com/cwbudde/algo-spectrum/internal/logging"

var logger = logging.New("specio")
