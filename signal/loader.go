package signal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type loadConfig struct {
	skipRows int
	sheet    string
	comma    rune
}

// LoadOption configures the loaders.
type LoadOption func(*loadConfig)

// WithSkipRows skips n leading rows before the header. Device exports often
// prepend free-text metadata lines above the column header.
func WithSkipRows(n int) LoadOption {
	return func(cfg *loadConfig) { cfg.skipRows = n }
}

// WithSheet selects the worksheet to read from an XLSX file.
// Default is the workbook's first sheet. Ignored for CSV input.
func WithSheet(name string) LoadOption {
	return func(cfg *loadConfig) { cfg.sheet = name }
}

// WithComma sets the CSV field delimiter. Default is ','.
func WithComma(r rune) LoadOption {
	return func(cfg *loadConfig) { cfg.comma = r }
}

// Load reads a signal from path, dispatching on the file extension.
// Supported formats are .csv and .xlsx.
func Load(path string, cols ColumnSpec, opts ...LoadOption) (*Signal, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, cols, opts...)
	case ".xlsx":
		return LoadXLSX(path, cols, opts...)
	default:
		return nil, fmt.Errorf("%w: %q (use .csv or .xlsx)", ErrUnsupportedFormat, path)
	}
}

// LoadCSV reads a signal from a delimited text file. The first row after
// any skipped rows is the header; required columns are resolved by name.
func LoadCSV(path string, cols ColumnSpec, opts ...LoadOption) (*Signal, error) {
	cfg := applyLoadOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("signal: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if cfg.comma != 0 {
		r.Comma = cfg.comma
	}

	rows := make([][]string, 0, 1024)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("signal: read %s: %w", path, err)
		}

		rows = append(rows, record)
	}

	return buildSignal(path, rows, cols, cfg)
}

// buildSignal converts raw table rows into a Signal. Rows with non-numeric
// amplitudes or unparseable timestamps are dropped; decreasing timestamps
// abort the load with the offending row named.
func buildSignal(path string, rows [][]string, cols ColumnSpec, cfg loadConfig) (*Signal, error) {
	if cfg.skipRows > 0 {
		if cfg.skipRows >= len(rows) {
			return nil, fmt.Errorf("%w: %s has %d rows, skip-rows is %d",
				ErrBadHeader, path, len(rows), cfg.skipRows)
		}
		rows = rows[cfg.skipRows:]
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBadHeader, path)
	}

	header := rows[0]
	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	tsCol, ok := headerMap[strings.ToLower(strings.TrimSpace(cols.Timestamp))]
	if !ok {
		return nil, fmt.Errorf("%w: timestamp column %q in %s (header: %s)",
			ErrMissingColumn, cols.Timestamp, path, strings.Join(header, ", "))
	}

	ampCol, ok := headerMap[strings.ToLower(strings.TrimSpace(cols.Amplitude))]
	if !ok {
		return nil, fmt.Errorf("%w: amplitude column %q in %s (header: %s)",
			ErrMissingColumn, cols.Amplitude, path, strings.Join(header, ", "))
	}

	sig := &Signal{
		Name:       fmt.Sprintf("%s:%s", filepath.Base(path), cols.Amplitude),
		Timestamps: make([]float64, 0, len(rows)-1),
		Samples:    make([]float64, 0, len(rows)-1),
	}

	for i, row := range rows[1:] {
		if tsCol >= len(row) || ampCol >= len(row) {
			continue
		}

		amp, ok := parseAmplitude(row[ampCol])
		if !ok {
			continue
		}

		ts, err := parseTimestamp(row[tsCol])
		if err != nil {
			continue
		}

		if n := len(sig.Timestamps); n > 0 && ts < sig.Timestamps[n-1] {
			// Row numbering: +2 for the header row and 1-based counting.
			return nil, fmt.Errorf("%w: %s row %d (%g after %g)",
				ErrNonMonotonic, path, i+cfg.skipRows+2, ts, sig.Timestamps[n-1])
		}

		sig.Timestamps = append(sig.Timestamps, ts)
		sig.Samples = append(sig.Samples, amp)
	}

	if sig.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyData, path)
	}

	return sig, nil
}

func applyLoadOptions(opts []LoadOption) loadConfig {
	var cfg loadConfig
	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}
