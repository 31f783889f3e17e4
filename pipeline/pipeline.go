// Package pipeline wires the processing stages into a single batch pass:
// sampling-rate estimation, Butterworth bandpass design, and zero-phase
// application. Each signal is processed independently; the only shared
// state is an optional coefficient cache, which is pure and idempotent.
package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-biosig/dsp/biquad"
	"github.com/cwbudde/algo-biosig/dsp/design"
	"github.com/cwbudde/algo-biosig/dsp/zerophase"
	"github.com/cwbudde/algo-biosig/samplerate"
	"github.com/cwbudde/algo-biosig/signal"
)

// Band is a passband in Hz.
type Band struct {
	LowHz  float64
	HighHz float64
}

// Conventional conditioning bands for the supported signal types.
var (
	// PresetECG keeps the QRS complex and T wave while removing baseline
	// drift below 0.5 Hz and mains interference above 45 Hz.
	PresetECG = Band{LowHz: 0.5, HighHz: 45}

	// PresetEEG covers delta through beta activity.
	PresetEEG = Band{LowHz: 1, HighHz: 30}
)

// Preset returns the band for a signal type name ("ecg" or "eeg").
func Preset(name string) (Band, bool) {
	switch name {
	case "ecg":
		return PresetECG, true
	case "eeg":
		return PresetEEG, true
	default:
		return Band{}, false
	}
}

// Result holds everything one pass produces.
type Result struct {
	Signal   *signal.Signal
	Rate     samplerate.Estimate
	Spec     design.Spec // spec as designed, sample rate resolved
	Sections []biquad.Coefficients
	Filtered []float64 // same length and timestamp alignment as Signal
}

type config struct {
	cache       *design.Cache
	rateOpts    []samplerate.Option
	filterOpts  []zerophase.Option
	knownRateHz float64
}

// Option configures Run.
type Option func(*config)

// WithCache designs coefficients through a shared cache, reusing them for
// signals with identical specs.
func WithCache(c *design.Cache) Option {
	return func(cfg *config) { cfg.cache = c }
}

// WithRateOptions forwards options to the sampling-rate estimator.
func WithRateOptions(opts ...samplerate.Option) Option {
	return func(cfg *config) { cfg.rateOpts = append(cfg.rateOpts, opts...) }
}

// WithFilterOptions forwards options to the zero-phase applier.
func WithFilterOptions(opts ...zerophase.Option) Option {
	return func(cfg *config) { cfg.filterOpts = append(cfg.filterOpts, opts...) }
}

// WithKnownRate skips timestamp-based estimation and uses the given rate.
func WithKnownRate(rateHz float64) Option {
	return func(cfg *config) { cfg.knownRateHz = rateHz }
}

// Run filters one signal: estimate the sampling rate from its timestamps
// (unless known), validate the spec against it, design the Butterworth
// cascade, and apply it with zero phase. The input signal is not modified.
func Run(sig *signal.Signal, spec design.Spec, opts ...Option) (*Result, error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	var rate samplerate.Estimate
	if cfg.knownRateHz > 0 {
		rate = samplerate.Estimate{
			RateHz:      cfg.knownRateHz,
			IntervalSec: 1 / cfg.knownRateHz,
		}
	} else {
		var err error
		rate, err = samplerate.FromTimestamps(sig.Timestamps, cfg.rateOpts...)
		if err != nil {
			return nil, fmt.Errorf("pipeline: estimate rate of %s: %w", sig.Name, err)
		}
	}

	if spec.SampleRate == 0 {
		spec.SampleRate = rate.RateHz
	}

	sections, err := designSections(spec, cfg.cache)
	if err != nil {
		return nil, fmt.Errorf("pipeline: design filter for %s: %w", sig.Name, err)
	}

	filtered, err := zerophase.Filter(sections, sig.Samples, cfg.filterOpts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: filter %s: %w", sig.Name, err)
	}

	return &Result{
		Signal:   sig,
		Rate:     rate,
		Spec:     spec,
		Sections: sections,
		Filtered: filtered,
	}, nil
}

func designSections(spec design.Spec, cache *design.Cache) ([]biquad.Coefficients, error) {
	if cache != nil {
		return cache.Bandpass(spec)
	}

	return design.Bandpass(spec)
}
