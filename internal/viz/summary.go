package viz

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// Summary renders the headline of a run followed by its metrics.
func Summary(title string, result *dynamo.Result) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(title))
	sb.WriteString("\n")

	row := func(label, value string) {
		sb.WriteString(MetricLabel.Render(fmt.Sprintf("  %-24s", label)))
		sb.WriteString(MetricValue.Render(value))
		sb.WriteString("\n")
	}
	row("segments", fmt.Sprintf("%d", result.Segments))
	row("samples", fmt.Sprintf("%d", result.Series.Len()))
	row("solver steps", fmt.Sprintf("%d", result.StepsTaken))
	if t, _, ok := result.Series.Last(); ok {
		row("final time", fmt.Sprintf("%.1f s", t))
	}

	sb.WriteString(Separator(40))
	sb.WriteString("\n")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		row(name, fmt.Sprintf("%.6g", result.Metrics[name]))
	}
	return sb.String()
}

// Progress is an observer that redraws a progress bar every Every
// segments.
type Progress struct {
	W       io.Writer
	Horizon float64
	Every   int
	Width   int
}

func NewProgress(w io.Writer, horizon float64) *Progress {
	return &Progress{W: w, Horizon: horizon, Every: 50, Width: 30}
}

func (p *Progress) OnSegment(segment int, x dynamo.State, t float64) {
	if p.Every > 1 && segment%p.Every != 0 && t < p.Horizon {
		return
	}
	frac := 1.0
	if p.Horizon > 0 {
		frac = min(1, t/p.Horizon)
	}
	fmt.Fprintf(p.W, "\r%s %5.1f%%  t=%.0f s", ProgressBar(frac, p.Width), 100*frac, t)
	if t >= p.Horizon {
		fmt.Fprintln(p.W)
	}
}

var _ dynamo.Observer = (*Progress)(nil)
