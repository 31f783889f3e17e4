package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-biosig/dsp/design"
	"github.com/cwbudde/algo-biosig/dsp/spectrum"
	"github.com/cwbudde/algo-biosig/dsp/zerophase"
	"github.com/cwbudde/algo-biosig/samplerate"
	"github.com/cwbudde/algo-biosig/signal"
)

// testSignal builds a synthetic recording sampled at rateHz containing the
// sum of the given tones at unit amplitude.
func testSignal(rateHz float64, n int, tones ...float64) *signal.Signal {
	sig := &signal.Signal{
		Name:       "synthetic",
		Timestamps: make([]float64, n),
		Samples:    make([]float64, n),
	}

	for i := 0; i < n; i++ {
		t := float64(i) / rateHz
		sig.Timestamps[i] = t
		for _, f := range tones {
			sig.Samples[i] += math.Sin(2 * math.Pi * f * t)
		}
	}

	return sig
}

func TestRun_ECGScenarioAttenuatesMains(t *testing.T) {
	// 10 Hz physiological component plus 60 Hz mains hum at 500 Hz.
	sig := testSignal(500, 4096, 10, 60)

	res, err := Run(sig, design.Spec{Order: 4, LowHz: PresetECG.LowHz, HighHz: PresetECG.HighHz})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Filtered) != sig.Len() {
		t.Fatalf("filtered length %d, want %d", len(res.Filtered), sig.Len())
	}
	if math.Abs(res.Rate.RateHz-500) > 0.5 {
		t.Fatalf("estimated rate %g Hz, want 500", res.Rate.RateHz)
	}

	at60, err := spectrum.AttenuationDB(sig.Samples, res.Filtered, res.Rate.RateHz, 60)
	if err != nil {
		t.Fatal(err)
	}

	at10, err := spectrum.AttenuationDB(sig.Samples, res.Filtered, res.Rate.RateHz, 10)
	if err != nil {
		t.Fatal(err)
	}

	if rel := at60 - at10; rel < 20 {
		t.Fatalf("60 Hz attenuated by %g dB relative to 10 Hz, want at least 20", rel)
	}
	if at10 > 1 {
		t.Fatalf("10 Hz component attenuated by %g dB, want under 1", at10)
	}
}

func TestRun_EEGPreset(t *testing.T) {
	// 8 Hz alpha activity plus 50 Hz mains at 250 Hz.
	sig := testSignal(250, 4096, 8, 50)

	res, err := Run(sig, design.Spec{LowHz: PresetEEG.LowHz, HighHz: PresetEEG.HighHz})
	if err != nil {
		t.Fatal(err)
	}

	at50, err := spectrum.AttenuationDB(sig.Samples, res.Filtered, res.Rate.RateHz, 50)
	if err != nil {
		t.Fatal(err)
	}

	if at50 < 20 {
		t.Fatalf("50 Hz attenuated by %g dB, want at least 20", at50)
	}
}

func TestRun_ShortSignalFails(t *testing.T) {
	sig := testSignal(500, 20, 10)

	_, err := Run(sig, design.Spec{LowHz: 0.5, HighHz: 45})
	if !errors.Is(err, zerophase.ErrSignalTooShort) {
		t.Fatalf("err=%v, want ErrSignalTooShort", err)
	}
}

func TestRun_InvalidSpecFails(t *testing.T) {
	sig := testSignal(100, 2000, 10)

	// At 100 Hz sampling the Nyquist limit is 50 Hz; a 60 Hz high cutoff
	// must be rejected, never silently clamped.
	_, err := Run(sig, design.Spec{LowHz: 0.5, HighHz: 60})
	if !errors.Is(err, design.ErrInvalidSpec) {
		t.Fatalf("err=%v, want ErrInvalidSpec", err)
	}
}

func TestRun_KnownRateSkipsEstimation(t *testing.T) {
	sig := testSignal(500, 2048, 10)
	// Corrupt the timestamps so estimation would fail; a known rate must
	// never look at them.
	sig.Timestamps[10] = 0

	res, err := Run(sig, design.Spec{LowHz: 0.5, HighHz: 45}, WithKnownRate(500))
	if err != nil {
		t.Fatal(err)
	}
	if res.Rate.RateHz != 500 {
		t.Fatalf("rate=%g, want the provided 500", res.Rate.RateHz)
	}
}

func TestRun_ExplicitSampleRateWins(t *testing.T) {
	sig := testSignal(500, 2048, 10)

	res, err := Run(sig, design.Spec{LowHz: 0.5, HighHz: 45, SampleRate: 500})
	if err != nil {
		t.Fatal(err)
	}
	if res.Spec.SampleRate != 500 {
		t.Fatalf("spec sample rate %g, want 500", res.Spec.SampleRate)
	}
}

func TestRun_SharedCache(t *testing.T) {
	cache := design.NewCache()
	spec := design.Spec{LowHz: 0.5, HighHz: 45}

	for i := 0; i < 3; i++ {
		sig := testSignal(500, 1024, 10)
		if _, err := Run(sig, spec, WithCache(cache)); err != nil {
			t.Fatal(err)
		}
	}

	if cache.Len() != 1 {
		t.Fatalf("cache holds %d designs after identical runs, want 1", cache.Len())
	}
}

func TestRun_ForwardsRateOptions(t *testing.T) {
	sig := testSignal(500, 1024, 10)

	_, err := Run(sig, design.Spec{LowHz: 0.5, HighHz: 45},
		WithRateOptions(samplerate.WithCVThreshold(0.5), samplerate.WithMeanInterval()))
	if err != nil {
		t.Fatal(err)
	}
}

func TestRun_ForwardsFilterOptions(t *testing.T) {
	sig := testSignal(500, 24, 10)

	// 24 samples are too short for the default padding but fine without.
	_, err := Run(sig, design.Spec{LowHz: 0.5, HighHz: 45})
	if !errors.Is(err, zerophase.ErrSignalTooShort) {
		t.Fatalf("err=%v, want ErrSignalTooShort", err)
	}

	if _, err := Run(sig, design.Spec{LowHz: 0.5, HighHz: 45},
		WithFilterOptions(zerophase.WithPadding(zerophase.PadNone))); err != nil {
		t.Fatal(err)
	}
}

func TestPreset_Lookup(t *testing.T) {
	for name, want := range map[string]Band{"ecg": PresetECG, "eeg": PresetEEG} {
		got, ok := Preset(name)
		if !ok || got != want {
			t.Fatalf("Preset(%q) = %+v, %v", name, got, ok)
		}
	}

	if _, ok := Preset("emg"); ok {
		t.Fatal("unknown preset accepted")
	}
}
