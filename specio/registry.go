package specio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectrum/spectrum"
	"github.com/cwbudde/algo-spectrum/warn"
)

var (
	// ErrNoParser indicates a file extension without a registered parser.
	ErrNoParser = fmt.Errorf("specio: no parser registered (%w)", spectrum.ErrNotImplemented)
	// ErrNoEncoder indicates an output format without a registered encoder.
	ErrNoEncoder = errors.New("specio: no encoder registered")
	// ErrMalformed indicates input rejected by its parser.
	ErrMalformed = errors.New("specio: malformed input")
)

// Parser decodes one file format.
type Parser interface {
	Parse(r io.Reader) (*Record, error)
}

// Encoder encodes one file format.
type Encoder interface {
	Encode(w io.Writer, rec *Record) error
}

var registry = struct {
	sync.RWMutex
	parsers  map[string]Parser
	encoders map[string]Encoder
}{
	parsers:  map[string]Parser{},
	encoders: map[string]Encoder{},
}

func init() {
	Register(".csv", CSV{})
	Register(".yaml", YAML{})
	Register(".yml", YAML{})
	Register(".toml", TOML{})
	Register(".json", JSON{})
}

// normalizeExt lower-cases ext and ensures a leading dot, so that "JSON",
// "json" and ".json" name the same format.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Register associates p with a file extension, replacing any previous
// parser. If p also implements Encoder it is registered for writing.
func Register(ext string, p Parser) {
	ext = normalizeExt(ext)
	registry.Lock()
	defer registry.Unlock()
	registry.parsers[ext] = p
	if enc, ok := p.(Encoder); ok {
		registry.encoders[ext] = enc
	}
}

// Lookup returns the parser for ext.
func Lookup(ext string) (Parser, bool) {
	registry.RLock()
	defer registry.RUnlock()
	p, ok := registry.parsers[normalizeExt(ext)]
	return p, ok
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	registry.RLock()
	defer registry.RUnlock()
	exts := make([]string, 0, len(registry.parsers))
	for ext := range registry.parsers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Read parses r in the format registered for ext.
func Read(r io.Reader, ext string) (*Record, error) {
	p, ok := Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoParser, ext)
	}
	rec, err := p.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	rec.fillLivetime()
	return rec, nil
}

// ReadRecord parses the file at path.
func ReadRecord(path string) (*Record, error) {
	ext := filepath.Ext(path)
	if _, ok := Lookup(ext); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoParser, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := Read(f, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("read spectrum file",
		zap.String("path", path),
		zap.Int("warnings", len(warn.List(rec.Warnings))),
	)
	return rec, nil
}

// ReadFile parses the file at path and constructs its Spectrum. Parse
// warnings are logged.
func ReadFile(path string, opts ...spectrum.Option) (*spectrum.Spectrum, error) {
	rec, err := ReadRecord(path)
	if err != nil {
		return nil, err
	}
	rec.Emit(warn.Log(logger.With(zap.String("path", path))))
	s, err := rec.Spectrum(opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func lookupEncoder(format string) (Encoder, error) {
	registry.RLock()
	defer registry.RUnlock()
	enc, ok := registry.encoders[normalizeExt(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoEncoder, format)
	}
	return enc, nil
}

// Write encodes s in format, given as an extension with or without the
// leading dot.
func Write(w io.Writer, format string, s *spectrum.Spectrum) error {
	enc, err := lookupEncoder(format)
	if err != nil {
		return err
	}
	return enc.Encode(w, NewRecord(s))
}

// WriteFile writes s to path in the format given by its extension.
func WriteFile(path string, s *spectrum.Spectrum) (err error) {
	enc, err := lookupEncoder(filepath.Ext(path))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return enc.Encode(f, NewRecord(s))
}
