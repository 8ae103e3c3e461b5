package specio

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaText []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaText))
})

// JSON reads and writes spectra as a JSON object with the same keys as YAML.
// Input is validated against an embedded JSON schema; unknown keys are
// rejected. Unknown uncertainties are written as null.
type JSON struct{}

// jsonRecord shadows Record.Uncertainties so NaN can travel as null.
type jsonRecord struct {
	*Record
	Uncertainties []*float64 `json:"uncertainties,omitempty"`
}

// Parse implements Parser.
func (JSON) Parse(r io.Reader) (*Record, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("json: load schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(text))
	switch {
	case err != nil:
		return nil, fmt.Errorf("json: %w", err)
	case !result.Valid():
		var b strings.Builder
		fmt.Fprint(&b, "json: document failed schema validation:")
		for _, desc := range result.Errors() {
			fmt.Fprint(&b, "\n- ", desc)
		}
		return nil, errors.New(b.String())
	}

	rec := &Record{}
	in := jsonRecord{Record: rec}
	if err := json.Unmarshal(text, &in); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if in.Uncertainties != nil {
		rec.Uncertainties = make([]float64, len(in.Uncertainties))
		for i, u := range in.Uncertainties {
			if u == nil {
				rec.Uncertainties[i] = math.NaN()
			} else {
				rec.Uncertainties[i] = *u
			}
		}
	}
	return rec, nil
}

// Encode implements Encoder.
func (JSON) Encode(w io.Writer, rec *Record) error {
	out := jsonRecord{Record: rec}
	if rec.Uncertainties != nil {
		out.Uncertainties = make([]*float64, len(rec.Uncertainties))
		for i, u := range rec.Uncertainties {
			if !math.IsNaN(u) {
				out.Uncertainties[i] = &u
			}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}
