// Package export renders propagated series to image files.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/dartsim/internal/analysis"
	"github.com/san-kum/dartsim/internal/dynamo"
)

var ErrEmptySeries = errors.New("export: series has no samples")

// Options controls the figure size and labels.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

func DefaultOptions() Options {
	return Options{Width: 8 * vg.Inch, Height: 4 * vg.Inch}
}

var formats = map[string]bool{
	".png": true, ".svg": true, ".pdf": true, ".eps": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

// Plot draws one line per channel against time and saves it to path. The
// output format follows the file extension.
func Plot(path string, s *dynamo.Series, channels []analysis.Channel, opts Options) error {
	if s == nil || s.Len() == 0 {
		return ErrEmptySeries
	}
	if len(channels) == 0 {
		return fmt.Errorf("export: no channels to plot")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !formats[ext] {
		return fmt.Errorf("export: unsupported format %q", ext)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}

	p, err := NewPlot(s, channels)
	if err != nil {
		return err
	}
	if opts.Title != "" {
		p.Title.Text = opts.Title
	}
	return p.Save(opts.Width, opts.Height, path)
}

// NewPlot builds the time-history figure without saving it.
func NewPlot(s *dynamo.Series, channels []analysis.Channel) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "t (s)"
	p.Add(plotter.NewGrid())

	units := make([]string, 0, len(channels))
	for i, ch := range channels {
		values := analysis.Extract(s, ch)
		xys := make(plotter.XYs, len(values))
		for j, v := range values {
			xys[j].X = s.Times[j]
			xys[j].Y = v
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", ch.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		p.Add(line)
		p.Legend.Add(ch.Name, line)

		if ch.Unit != "" && !slices.Contains(units, ch.Unit) {
			units = append(units, ch.Unit)
		}
	}
	p.Legend.Top = true
	p.Y.Label.Text = strings.Join(units, ", ")
	return p, nil
}
