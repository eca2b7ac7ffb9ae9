package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dartsim/internal/analysis"
	"github.com/san-kum/dartsim/internal/dynamo"
)

// Chart plots one channel of s against sample index.
func Chart(s *dynamo.Series, ch analysis.Channel, width, height int) string {
	data := analysis.Extract(s, ch)
	if len(data) == 0 {
		return ""
	}
	caption := ch.Name
	if ch.Unit != "" {
		caption = fmt.Sprintf("%s (%s)", ch.Name, ch.Unit)
	}
	if n := s.Len(); n > 1 {
		caption = fmt.Sprintf("%s, t = %.0f..%.0f s", caption, s.Times[0], s.Times[n-1])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SpectrumChart plots the low-frequency part of a spectrum, up to fmax Hz.
func SpectrumChart(spec *analysis.Spectrum, fmax float64, width, height int) string {
	n := len(spec.Power)
	for i, f := range spec.Freq {
		if f > fmax {
			n = i
			break
		}
	}
	if n < 2 {
		return ""
	}
	return asciigraph.Plot(spec.Power[:n],
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("amplitude spectrum, 0..%.4g Hz", spec.Freq[n-1])),
	)
}
