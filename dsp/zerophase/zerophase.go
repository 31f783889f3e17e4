// Package zerophase applies an IIR cascade forward and backward over a
// complete signal so that the phase distortions of the two passes cancel.
//
// Zero-phase filtering is non-causal: it needs the full signal in memory
// and is therefore a batch-only operation. Edge behavior is controlled by
// an explicit padding policy rather than an implicit library default; the
// default reflects the signal as an odd (point-symmetric) extension, which
// keeps the first and last samples free of start-up transients.
package zerophase

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-biosig/dsp/biquad"
)

// ErrSignalTooShort is returned when the input is not longer than the
// edge padding required by the filter order.
var ErrSignalTooShort = errors.New("zerophase: signal too short for filter order")

// ErrNoSections is returned when the coefficient cascade is empty.
var ErrNoSections = errors.New("zerophase: empty coefficient cascade")

// Padding selects the edge extension strategy.
type Padding int

const (
	// PadOdd extends the signal by point reflection about its end values.
	// This is the conventional choice for physiological signals since it
	// preserves slope continuity at the edges.
	PadOdd Padding = iota

	// PadEven extends the signal by mirror reflection about its end values.
	PadEven

	// PadNone disables edge extension. Start-up transients then reach the
	// first and last samples; only use this when the edges are discarded.
	PadNone
)

func (p Padding) String() string {
	switch p {
	case PadOdd:
		return "odd"
	case PadEven:
		return "even"
	case PadNone:
		return "none"
	default:
		return fmt.Sprintf("Padding(%d)", int(p))
	}
}

type config struct {
	padding Padding
	padLen  int // <0 means derive from section count
}

// Option configures Filter.
type Option func(*config)

// WithPadding sets the edge extension strategy. Default is PadOdd.
func WithPadding(p Padding) Option {
	return func(cfg *config) { cfg.padding = p }
}

// WithPadLength overrides the edge extension length in samples.
// The default is 3*(2*numSections+1), mirroring the common forward-backward
// convention of three times the filter's coefficient count per edge.
func WithPadLength(n int) Option {
	return func(cfg *config) { cfg.padLen = n }
}

// DefaultPadLength returns the default per-edge extension length for a
// cascade of numSections second-order sections.
func DefaultPadLength(numSections int) int {
	return 3 * (2*numSections + 1)
}

// Filter applies the cascade forward and then backward across x and returns
// the filtered signal. The output has the same length as the input and no
// group delay relative to it. The input slice is not modified.
//
// The signal must be strictly longer than the edge padding; shorter inputs
// fail with ErrSignalTooShort instead of silently producing edge artifacts.
func Filter(sections []biquad.Coefficients, x []float64, opts ...Option) ([]float64, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	cfg := config{padding: PadOdd, padLen: -1}
	for _, o := range opts {
		o(&cfg)
	}

	padLen := cfg.padLen
	if padLen < 0 {
		padLen = DefaultPadLength(len(sections))
	}
	if cfg.padding == PadNone {
		padLen = 0
	}

	if len(x) <= padLen {
		return nil, fmt.Errorf("%w: have %d samples, need more than %d",
			ErrSignalTooShort, len(x), padLen)
	}

	buf := extend(x, padLen, cfg.padding)
	chain := biquad.NewChain(sections)

	// Forward pass.
	chain.ProcessBlock(buf)

	// Backward pass over the forward output with cleared state.
	reverse(buf)
	chain.Reset()
	chain.ProcessBlock(buf)
	reverse(buf)

	out := make([]float64, len(x))
	copy(out, buf[padLen:len(buf)-padLen])

	return out, nil
}

// extend copies x into a new buffer with padLen extension samples on each
// side, generated according to the padding policy.
func extend(x []float64, padLen int, padding Padding) []float64 {
	buf := make([]float64, len(x)+2*padLen)
	copy(buf[padLen:], x)

	if padLen == 0 {
		return buf
	}

	first, last := x[0], x[len(x)-1]
	for i := 1; i <= padLen; i++ {
		switch padding {
		case PadEven:
			buf[padLen-i] = x[i]
			buf[padLen+len(x)-1+i] = x[len(x)-1-i]
		default: // PadOdd
			buf[padLen-i] = 2*first - x[i]
			buf[padLen+len(x)-1+i] = 2*last - x[len(x)-1-i]
		}
	}

	return buf
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
