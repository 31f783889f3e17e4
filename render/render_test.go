package render

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-biosig/signal"
)

func testSignal(n int) (*signal.Signal, []float64) {
	sig := &signal.Signal{
		Name:       "test",
		Timestamps: make([]float64, n),
		Samples:    make([]float64, n),
	}
	filtered := make([]float64, n)

	for i := 0; i < n; i++ {
		t := float64(i) / 500
		sig.Timestamps[i] = t
		sig.Samples[i] = math.Sin(2*math.Pi*10*t) + 0.3*math.Sin(2*math.Pi*60*t)
		filtered[i] = math.Sin(2 * math.Pi * 10 * t)
	}

	return sig, filtered
}

func TestComparison_WritesFormats(t *testing.T) {
	sig, filtered := testSignal(500)

	for _, format := range []string{"png", "svg", "pdf"} {
		path := filepath.Join(t.TempDir(), "out."+format)

		ctx := NewContext("ECG Signal")
		ctx.Format = format

		if err := Comparison(ctx, sig, filtered, path); err != nil {
			t.Fatalf("%s: %v", format, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s: empty output file", format)
		}
	}
}

func TestComparison_DefaultFormatIsPNG(t *testing.T) {
	sig, filtered := testSignal(100)
	path := filepath.Join(t.TempDir(), "out.png")

	ctx := NewContext("test")
	ctx.Format = ""

	if err := Comparison(ctx, sig, filtered, path); err != nil {
		t.Fatal(err)
	}
}

func TestComparison_UnsupportedFormat(t *testing.T) {
	sig, filtered := testSignal(10)

	ctx := NewContext("test")
	ctx.Format = "bmp"

	err := Comparison(ctx, sig, filtered, filepath.Join(t.TempDir(), "out.bmp"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err=%v, want ErrUnsupportedFormat", err)
	}
}

func TestComparison_LengthMismatch(t *testing.T) {
	sig, filtered := testSignal(10)

	err := Comparison(NewContext("test"), sig, filtered[:5], filepath.Join(t.TempDir(), "out.png"))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err=%v, want ErrLengthMismatch", err)
	}
}

func TestComparison_UnwritablePath(t *testing.T) {
	sig, filtered := testSignal(10)

	err := Comparison(NewContext("test"), sig, filtered,
		filepath.Join(t.TempDir(), "missing", "out.png"))
	if err == nil {
		t.Fatal("unwritable path accepted")
	}
}
