package specio

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// TOML reads and writes spectra as a TOML table with the same keys as YAML.
// Times are native TOML offset date-times.
type TOML struct{}

// Parse implements Parser.
func (TOML) Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	md, err := toml.NewDecoder(r).Decode(rec)
	if err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}
	for _, key := range md.Undecoded() {
		rec.quirk("toml: ignored unknown key %q", key.String())
	}
	return rec, nil
}

// Encode implements Encoder.
func (TOML) Encode(w io.Writer, rec *Record) error {
	if err := toml.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	return nil
}
