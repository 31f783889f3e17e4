// Package render draws before/after comparison plots for filtered
// recordings.
//
// All drawing state lives in an explicit Context; there is no shared
// implicit figure, so concurrent renders of independent signals cannot
// interfere with each other.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/cwbudde/algo-biosig/signal"
)

// Errors returned by the renderer.
var (
	ErrUnsupportedFormat = errors.New("render: unsupported output format")
	ErrLengthMismatch    = errors.New("render: filtered length does not match signal")
)

// Trace colors follow the source-tool convention: original in gray,
// filtered in blue.
var (
	originalColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	filteredColor = color.RGBA{B: 0xff, A: 0xff}
)

// Context holds the rendering configuration for one comparison figure.
// The zero value is not usable; construct with NewContext.
type Context struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	Format string // "png", "svg" or "pdf"
}

// NewContext returns a Context with a 30x20 cm canvas and PNG output.
func NewContext(title string) *Context {
	return &Context{
		Title:  title,
		Width:  30 * vg.Centimeter,
		Height: 20 * vg.Centimeter,
		Format: "png",
	}
}

// Comparison renders the original and filtered traces as two stacked panels
// sharing the time axis and writes the figure to path.
func Comparison(ctx *Context, sig *signal.Signal, filtered []float64, path string) error {
	if len(filtered) != sig.Len() {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(filtered), sig.Len())
	}

	top, err := tracePanel(ctx.Title+" - Original", "", sig.Timestamps, sig.Samples, originalColor)
	if err != nil {
		return err
	}

	bottom, err := tracePanel(ctx.Title+" - Filtered", "Time (s)", sig.Timestamps, filtered, filteredColor)
	if err != nil {
		return err
	}

	canvas, err := newCanvas(ctx)
	if err != nil {
		return err
	}

	dc := draw.New(canvas)
	tiles := draw.Tiles{
		Rows: 2,
		Cols: 1,
		PadY: 5 * vg.Millimeter,
	}

	panels := [][]*plot.Plot{{top}, {bottom}}
	aligned := plot.Align(panels, tiles, dc)
	top.Draw(aligned[0][0])
	bottom.Draw(aligned[1][0])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := canvas.WriteTo(f); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}

	return f.Close()
}

// writerCanvas is the drawing surface plus its encoder.
type writerCanvas interface {
	vg.Canvas
	Size() (x, y vg.Length)
	io.WriterTo
}

func newCanvas(ctx *Context) (writerCanvas, error) {
	switch strings.ToLower(ctx.Format) {
	case "", "png":
		return vgimg.PngCanvas{Canvas: vgimg.New(ctx.Width, ctx.Height)}, nil
	case "svg":
		return vgsvg.New(ctx.Width, ctx.Height), nil
	case "pdf":
		return vgpdf.New(ctx.Width, ctx.Height), nil
	default:
		return nil, fmt.Errorf("%w: %q (use png, svg or pdf)", ErrUnsupportedFormat, ctx.Format)
	}
}

// tracePanel builds one time-series panel with a grid and a single line.
func tracePanel(title, xLabel string, ts, values []float64, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Amplitude"
	p.Add(plotter.NewGrid())

	xy := make(plotter.XYs, len(values))
	for i := range values {
		xy[i].X = ts[i]
		xy[i].Y = values[i]
	}

	line, err := plotter.NewLine(xy)
	if err != nil {
		return nil, fmt.Errorf("render: build trace %q: %w", title, err)
	}
	line.Color = c

	p.Add(line)

	return p, nil
}
