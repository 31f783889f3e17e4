package design

import (
	"errors"
	"fmt"
)

// DefaultOrder is the filter order used when Spec.Order is zero.
const DefaultOrder = 4

// ErrInvalidSpec is returned when a Spec violates the Nyquist invariant
// 0 < low < high < sampleRate/2 or has a non-positive order.
var ErrInvalidSpec = errors.New("design: invalid filter spec")

// Spec describes a Butterworth bandpass filter.
type Spec struct {
	Order      int     // filter order per edge; 0 means DefaultOrder
	LowHz      float64 // low cutoff in Hz
	HighHz     float64 // high cutoff in Hz
	SampleRate float64 // sample rate in Hz
}

// withDefaults returns the spec with zero fields replaced by defaults.
func (s Spec) withDefaults() Spec {
	if s.Order == 0 {
		s.Order = DefaultOrder
	}

	return s
}

// Validate checks the Nyquist invariant. Violations are reported with the
// offending values so a misconfigured run names its own problem.
func (s Spec) Validate() error {
	s = s.withDefaults()

	if s.Order < 0 {
		return fmt.Errorf("%w: order %d must be positive", ErrInvalidSpec, s.Order)
	}

	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %g Hz must be positive", ErrInvalidSpec, s.SampleRate)
	}

	nyquist := s.SampleRate / 2
	if !(0 < s.LowHz && s.LowHz < s.HighHz && s.HighHz < nyquist) {
		return fmt.Errorf("%w: need 0 < low (%g Hz) < high (%g Hz) < nyquist (%g Hz)",
			ErrInvalidSpec, s.LowHz, s.HighHz, nyquist)
	}

	return nil
}
