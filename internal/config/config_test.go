package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestDefault_AppliesTagDefaults(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	if c.Input.TimestampColumn != "time" || c.Input.AmplitudeColumn != "signal" {
		t.Fatalf("default columns = %q/%q", c.Input.TimestampColumn, c.Input.AmplitudeColumn)
	}
	if c.Filter.Order != 4 {
		t.Fatalf("default order = %d, want 4", c.Filter.Order)
	}
	if c.Filter.Padding != "odd" {
		t.Fatalf("default padding = %q, want odd", c.Filter.Padding)
	}
	if c.Filter.PadSamples != -1 {
		t.Fatalf("default pad samples = %d, want -1", c.Filter.PadSamples)
	}
	if c.Rate.CVThreshold != 0.05 {
		t.Fatalf("default cv threshold = %g, want 0.05", c.Rate.CVThreshold)
	}
	if c.Output.Format != "png" {
		t.Fatalf("default format = %q, want png", c.Output.Format)
	}
	if c.Log.Level != "info" {
		t.Fatalf("default log level = %q, want info", c.Log.Level)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTemp(t, strings.TrimSpace(`
input:
  path: recording.xlsx
  sheet: lead2
  skip_rows: 2
  timestamp_column: t
  amplitude_column: ecg
filter:
  low_hz: 0.5
  high_hz: 45
  order: 4
  padding: even
rate:
  cv_threshold: 0.1
output:
  plot: out.svg
  format: svg
  save: filtered.csv
  report: true
log:
  level: debug
`))

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if c.Input.Sheet != "lead2" || c.Input.SkipRows != 2 {
		t.Fatalf("input = %+v", c.Input)
	}
	if c.Filter.LowHz != 0.5 || c.Filter.HighHz != 45 || c.Filter.Padding != "even" {
		t.Fatalf("filter = %+v", c.Filter)
	}
	if !c.Output.Report || c.Output.Format != "svg" {
		t.Fatalf("output = %+v", c.Output)
	}
}

func TestLoad_PresetStandsInForBand(t *testing.T) {
	path := writeTemp(t, "filter:\n  preset: ecg\n")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Filter.Preset != "ecg" {
		t.Fatalf("preset = %q", c.Filter.Preset)
	}
}

func TestLoad_RejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no band or preset", "filter:\n  order: 4\n"},
		{"inverted band", "filter:\n  low_hz: 45\n  high_hz: 0.5\n"},
		{"unknown preset", "filter:\n  preset: emg\n"},
		{"bad padding", "filter:\n  preset: ecg\n  padding: mirror\n"},
		{"bad format", "filter:\n  preset: ecg\noutput:\n  format: bmp\n"},
		{"bad log level", "filter:\n  preset: ecg\nlog:\n  level: loud\n"},
		{"negative skip rows", "filter:\n  preset: ecg\ninput:\n  skip_rows: -1\n"},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		path := writeTemp(t, tt.content)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: accepted", tt.name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
