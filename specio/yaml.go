package specio

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAML reads and writes spectra as a YAML mapping with the keys counts or
// cps, uncertainties, bin_edges, livetime, realtime, start_time and
// stop_time. Unknown keys are ignored with a warning.
type YAML struct{}

var recordKeys = map[string]bool{
	"counts": true, "cps": true, "uncertainties": true, "bin_edges": true,
	"livetime": true, "realtime": true, "start_time": true, "stop_time": true,
}

// Parse implements Parser.
func (YAML) Parse(r io.Reader) (*Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("yaml: empty document")
		}
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("yaml: document is not a mapping")
	}

	rec := &Record{}
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if key := root.Content[i].Value; !recordKeys[key] {
			rec.quirk("yaml: ignored unknown key %q at line %d", key, root.Content[i].Line)
		}
	}
	if err := root.Decode(rec); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return rec, nil
}

// Encode implements Encoder.
func (YAML) Encode(w io.Writer, rec *Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return enc.Close()
}
