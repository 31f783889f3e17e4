// Package samplerate derives a sampling frequency from a recording's
// timestamp column.
//
// The interval between consecutive timestamps is summarized by its median,
// which shrugs off the occasional outlier gap left by dropped samples; the
// mean-based estimate is available as an option. Minor jitter is common in
// real physiological recordings, so irregular spacing is reported as a
// warning flag on the estimate instead of failing the run.
package samplerate

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultCVThreshold is the coefficient of variation of the timestamp
// intervals above which spacing is flagged as irregular.
const DefaultCVThreshold = 0.05

// Errors returned by Estimate.
var (
	ErrTooFewSamples = errors.New("samplerate: need at least two timestamps")
	ErrNonMonotonic  = errors.New("samplerate: timestamps decrease")
	ErrZeroInterval  = errors.New("samplerate: median timestamp interval is zero")
)

// Estimate is the derived sampling rate plus the spacing diagnostics the
// caller needs to decide whether to trust it.
type Estimate struct {
	RateHz      float64 // 1 / IntervalSec
	IntervalSec float64 // representative interval between samples
	CV          float64 // coefficient of variation of the intervals
	Irregular   bool    // CV exceeded the configured threshold
}

type config struct {
	useMean     bool
	cvThreshold float64
}

// Option configures Estimate.
type Option func(*config)

// WithMeanInterval uses the mean of consecutive intervals instead of the
// median. The mean is more sensitive to outlier gaps but matches what older
// acquisition tooling reports.
func WithMeanInterval() Option {
	return func(cfg *config) { cfg.useMean = true }
}

// WithCVThreshold sets the irregularity threshold on the coefficient of
// variation of the intervals. Default is DefaultCVThreshold.
func WithCVThreshold(v float64) Option {
	return func(cfg *config) { cfg.cvThreshold = v }
}

// FromTimestamps derives the sampling rate from a monotonically
// non-decreasing timestamp sequence in seconds. For uniform spacing dt the
// result is exactly 1/dt.
func FromTimestamps(timestamps []float64, opts ...Option) (Estimate, error) {
	cfg := config{cvThreshold: DefaultCVThreshold}
	for _, o := range opts {
		o(&cfg)
	}

	if len(timestamps) < 2 {
		return Estimate{}, fmt.Errorf("%w: have %d", ErrTooFewSamples, len(timestamps))
	}

	diffs := make([]float64, len(timestamps)-1)
	for i := range diffs {
		d := timestamps[i+1] - timestamps[i]
		if d < 0 {
			return Estimate{}, fmt.Errorf("%w: index %d (%g after %g)",
				ErrNonMonotonic, i+1, timestamps[i+1], timestamps[i])
		}
		diffs[i] = d
	}

	mean, std := stat.MeanStdDev(diffs, nil)
	if len(diffs) == 1 {
		std = 0 // MeanStdDev returns NaN for a single sample
	}

	interval := mean
	if !cfg.useMean {
		sorted := make([]float64, len(diffs))
		copy(sorted, diffs)
		sort.Float64s(sorted)
		interval = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}

	if interval <= 0 {
		return Estimate{}, ErrZeroInterval
	}

	cv := 0.0
	if mean > 0 {
		cv = std / mean
	}

	return Estimate{
		RateHz:      1 / interval,
		IntervalSec: interval,
		CV:          cv,
		Irregular:   cv > cfg.cvThreshold,
	}, nil
}
