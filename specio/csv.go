package specio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSV reads and writes spectra as comma-separated rows, one bin per row.
//
// A header row names the columns: exactly one of "counts" or "cps", an
// optional "uncertainty", and optionally "lo" and "hi" bin bounds which must
// tile the axis without gaps. Lines of the form "# key: value" carry the
// metadata keys livetime, realtime, start_time and stop_time. Unknown columns
// and keys are ignored with a warning.
type CSV struct{}

// Parse implements Parser.
func (CSV) Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	var body strings.Builder
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if meta, ok := strings.CutPrefix(text, "#"); ok {
			if err := rec.setMeta(meta, line); err != nil {
				return nil, err
			}
			continue
		}
		body.WriteString(text)
		body.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	rows, err := csv.NewReader(strings.NewReader(body.String())).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, errors.New("csv: need a header and at least one row")
	}
	cols, err := rec.columns(rows[0])
	if err != nil {
		return nil, err
	}

	n := len(rows) - 1
	values := make([]float64, n)
	var uncs, lo, hi []float64
	if cols.unc >= 0 {
		uncs = make([]float64, n)
	}
	if cols.lo >= 0 {
		lo, hi = make([]float64, n), make([]float64, n)
	}
	for i, row := range rows[1:] {
		get := func(col int) (float64, error) {
			x, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return 0, fmt.Errorf("csv: row %d, column %q: %w", i+1, rows[0][col], err)
			}
			return x, nil
		}
		if values[i], err = get(cols.value); err != nil {
			return nil, err
		}
		if uncs != nil {
			if uncs[i], err = get(cols.unc); err != nil {
				return nil, err
			}
		}
		if lo != nil {
			if lo[i], err = get(cols.lo); err != nil {
				return nil, err
			}
			if hi[i], err = get(cols.hi); err != nil {
				return nil, err
			}
		}
	}

	if cols.rate {
		rec.CPS = values
	} else {
		rec.Counts = values
	}
	rec.Uncertainties = uncs
	if lo != nil {
		for i := 1; i < n; i++ {
			if lo[i] != hi[i-1] {
				return nil, fmt.Errorf("csv: row %d starts at %v, previous row ends at %v", i+1, lo[i], hi[i-1])
			}
		}
		rec.BinEdges = append(lo, hi[n-1])
	}
	return rec, nil
}

type csvColumns struct {
	value, unc, lo, hi int
	rate               bool
}

func (rec *Record) columns(header []string) (csvColumns, error) {
	cols := csvColumns{value: -1, unc: -1, lo: -1, hi: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "counts", "cps":
			if cols.value >= 0 {
				return cols, errors.New("csv: more than one of counts and cps")
			}
			cols.value = i
			cols.rate = strings.EqualFold(strings.TrimSpace(name), "cps")
		case "uncertainty":
			cols.unc = i
		case "lo":
			cols.lo = i
		case "hi":
			cols.hi = i
		default:
			rec.quirk("csv: ignored column %q", name)
		}
	}
	switch {
	case cols.value < 0:
		return cols, errors.New("csv: missing counts or cps column")
	case (cols.lo < 0) != (cols.hi < 0):
		return cols, errors.New("csv: lo and hi columns must appear together")
	}
	return cols, nil
}

func (rec *Record) setMeta(meta string, line int) error {
	key, value, ok := strings.Cut(meta, ":")
	if !ok {
		return nil
	}
	key, value = strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)

	seconds := func() (*float64, error) {
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %s: %w", line, key, err)
		}
		return &x, nil
	}
	var err error
	switch key {
	case "livetime":
		rec.Livetime, err = seconds()
	case "realtime":
		rec.Realtime, err = seconds()
	case "start_time":
		rec.StartTime, err = parseTime(key, value)
	case "stop_time":
		rec.StopTime, err = parseTime(key, value)
	default:
		rec.quirk("csv: line %d: ignored metadata key %q", line, key)
	}
	return err
}

// Encode implements Encoder.
func (CSV) Encode(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)
	meta := func(key string, x *float64) {
		if x != nil {
			fmt.Fprintf(bw, "# %s: %s\n", key, formatFloat(*x))
		}
	}
	stamp := func(key string, t *time.Time) {
		if t != nil {
			fmt.Fprintf(bw, "# %s: %s\n", key, t.Format(time.RFC3339Nano))
		}
	}
	meta("livetime", rec.Livetime)
	meta("realtime", rec.Realtime)
	stamp("start_time", rec.StartTime)
	stamp("stop_time", rec.StopTime)

	values, name := rec.Counts, "counts"
	if rec.CPS != nil {
		values, name = rec.CPS, "cps"
	}
	if rec.BinEdges != nil && len(rec.BinEdges) != len(values)+1 {
		return fmt.Errorf("csv: %d edges for %d bins", len(rec.BinEdges), len(values))
	}
	if rec.Uncertainties != nil && len(rec.Uncertainties) != len(values) {
		return fmt.Errorf("csv: %d uncertainties for %d bins", len(rec.Uncertainties), len(values))
	}

	var header []string
	if rec.BinEdges != nil {
		header = append(header, "lo", "hi")
	}
	header = append(header, name)
	if rec.Uncertainties != nil {
		header = append(header, "uncertainty")
	}

	cw := csv.NewWriter(bw)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, x := range values {
		row := make([]string, 0, len(header))
		if rec.BinEdges != nil {
			row = append(row, formatFloat(rec.BinEdges[i]), formatFloat(rec.BinEdges[i+1]))
		}
		row = append(row, formatFloat(x))
		if rec.Uncertainties != nil {
			row = append(row, formatFloat(rec.Uncertainties[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
