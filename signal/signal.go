// Package signal loads and stores time-series biomedical recordings such
// as ECG and EEG traces.
//
// A recording is a table with a timestamp column and one amplitude column;
// the loaders map column names to data, normalize clock-style timestamps to
// seconds, and drop rows whose amplitude is not numeric, the way exported
// device logs commonly require. Loaded signals are treated as read-only.
package signal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Errors returned by the loaders. All format problems wrap one of these so
// callers can match with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("signal: unsupported file format")
	ErrBadHeader         = errors.New("signal: missing or unreadable header row")
	ErrMissingColumn     = errors.New("signal: required column not found")
	ErrEmptyData         = errors.New("signal: no usable data rows")
	ErrNonMonotonic      = errors.New("signal: timestamps decrease")
)

// Signal is an ordered sequence of samples tagged with timestamps in
// seconds. Timestamps are monotonically non-decreasing; amplitude units are
// device-dependent. Both slices always have equal length.
type Signal struct {
	Name       string // source description, e.g. "recording.csv:ecg"
	Timestamps []float64
	Samples    []float64
}

// Len returns the number of samples.
func (s *Signal) Len() int {
	return len(s.Samples)
}

// Duration returns the time span covered by the signal in seconds.
func (s *Signal) Duration() float64 {
	if len(s.Timestamps) < 2 {
		return 0
	}

	return s.Timestamps[len(s.Timestamps)-1] - s.Timestamps[0]
}

// ColumnSpec names the table columns holding the timestamp and amplitude.
// Matching is case-insensitive on trimmed header names.
type ColumnSpec struct {
	Timestamp string
	Amplitude string
}

// parseTimestamp converts a timestamp cell to seconds. Plain numbers are
// taken as seconds; values containing ':' are parsed as clock strings,
// where "mm:ss(.fff)" is promoted to "hh:mm:ss(.fff)". Stray single quotes,
// as emitted by some spreadsheet exports, are stripped.
func parseTimestamp(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "'", ""))
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	if !strings.Contains(s, ":") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("bad timestamp %q", raw)
		}

		return v, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		parts = append([]string{"00"}, parts...)
	}

	if len(parts) != 3 {
		return 0, fmt.Errorf("bad clock timestamp %q", raw)
	}

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 {
		return 0, fmt.Errorf("bad hours in timestamp %q", raw)
	}

	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minutes in timestamp %q", raw)
	}

	sec, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("bad seconds in timestamp %q", raw)
	}

	return float64(h)*3600 + float64(m)*60 + sec, nil
}

// parseAmplitude converts an amplitude cell to a float. Returns false for
// cells that are not numeric, which the loaders drop row-wise.
func parseAmplitude(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
