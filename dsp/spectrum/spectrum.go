// Package spectrum measures narrow-band signal power, used to verify how
// strongly a filter attenuates interference such as mains hum relative to
// the physiological band of interest.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by spectrum functions.
var (
	ErrEmptySignal       = errors.New("spectrum: signal is empty")
	ErrInvalidSampleRate = errors.New("spectrum: sample rate must be positive")
	ErrInvalidBand       = errors.New("spectrum: invalid frequency band")
)

// captureBins is the half-width, in bins, of the window summed around a
// target frequency. Spectral leakage from the Hann window spreads a tone
// across neighboring bins, so a single-bin readout would undercount it.
const captureBins = 3

// Analysis holds the one-sided power spectrum of a signal.
type Analysis struct {
	Power []float64 // squared magnitude per bin, DC..Nyquist
	BinHz float64   // frequency resolution
}

// Analyze computes the one-sided Hann-windowed power spectrum of x.
// The FFT size is the next power of two at or above len(x).
func Analyze(x []float64, rateHz float64) (*Analysis, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	if rateHz <= 0 {
		return nil, ErrInvalidSampleRate
	}

	fftSize := nextPowerOf2(len(x))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: create FFT plan: %w", err)
	}

	windowed := make([]float64, len(x))
	copy(windowed, x)
	vecmath.MulBlockInPlace(windowed, hann(len(x)))

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)
	for i := 0; i < binCount; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, binCount)
	vecmath.Power(power, re, im)

	return &Analysis{
		Power: power,
		BinHz: rateHz / float64(fftSize),
	}, nil
}

// PowerAt returns the signal power near freqHz, summed over a small capture
// window around the nearest bin.
func (a *Analysis) PowerAt(freqHz float64) float64 {
	if len(a.Power) == 0 || a.BinHz <= 0 {
		return 0
	}

	center := int(math.Round(freqHz / a.BinHz))
	lo := clampInt(center-captureBins, 0, len(a.Power)-1)
	hi := clampInt(center+captureBins, 0, len(a.Power)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += a.Power[i]
	}

	return sum
}

// BandPower returns the total power between loHz and hiHz inclusive.
func (a *Analysis) BandPower(loHz, hiHz float64) (float64, error) {
	if !(0 <= loHz && loHz < hiHz) {
		return 0, fmt.Errorf("%w: [%g, %g] Hz", ErrInvalidBand, loHz, hiHz)
	}

	loBin := clampInt(int(math.Ceil(loHz/a.BinHz)), 0, len(a.Power)-1)
	hiBin := clampInt(int(math.Floor(hiHz/a.BinHz)), 0, len(a.Power)-1)

	sum := 0.0
	for i := loBin; i <= hiBin; i++ {
		sum += a.Power[i]
	}

	return sum, nil
}

// AttenuationDB measures how much power at freqHz the filtered signal lost
// relative to the original: 10*log10(P_orig / P_filtered). Positive values
// mean attenuation.
func AttenuationDB(orig, filtered []float64, rateHz, freqHz float64) (float64, error) {
	if len(orig) != len(filtered) {
		return 0, fmt.Errorf("spectrum: length mismatch: %d vs %d", len(orig), len(filtered))
	}

	ao, err := Analyze(orig, rateHz)
	if err != nil {
		return 0, err
	}

	af, err := Analyze(filtered, rateHz)
	if err != nil {
		return 0, err
	}

	po := ao.PowerAt(freqHz)
	pf := af.PowerAt(freqHz)

	if pf == 0 {
		return math.Inf(1), nil
	}

	return 10 * math.Log10(po/pf), nil
}

// hann returns a periodic Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1

		return w
	}

	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}

	return w
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
