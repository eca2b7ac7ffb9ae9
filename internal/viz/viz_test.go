package viz

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/analysis"
	"github.com/san-kum/dartsim/internal/dynamo"
)

func testSeries() *dynamo.Series {
	s := dynamo.NewSeries(20)
	for i := 0; i < 20; i++ {
		s.Append(float64(i)*15, dynamo.NewSatState(r3.Vec{X: 6878}, r3.Vec{Y: 7.6}, [4]float64{1, 0, 0, 0}, r3.Vec{X: 0.3 / float64(i+1)}))
	}
	return s
}

func TestChart(t *testing.T) {
	ch, err := analysis.LookupChannel("rate")
	if err != nil {
		t.Fatal(err)
	}
	out := Chart(testSeries(), ch, 40, 8)
	if !strings.Contains(out, "rate (rad/s)") {
		t.Errorf("missing caption in\n%s", out)
	}
	if Chart(dynamo.NewSeries(0), ch, 40, 8) != "" {
		t.Error("empty series should render nothing")
	}
}

func TestSpectrumChart(t *testing.T) {
	spec := &analysis.Spectrum{Freq: []float64{0, 0.1, 0.2, 0.3}, Power: []float64{1, 3, 2, 9}}
	out := SpectrumChart(spec, 0.25, 20, 5)
	if !strings.Contains(out, "0..0.2 Hz") {
		t.Errorf("unexpected caption in\n%s", out)
	}
	if SpectrumChart(spec, 0.05, 20, 5) != "" {
		t.Error("a single bin should render nothing")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.7, 10},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.percent, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("ProgressBar(%v): expected %d filled cells, got %d", tt.percent, tt.filled, got)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("ProgressBar(%v): expected width 10, got %d", tt.percent, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
	out := SparklineChart([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("sparkline should span the full range, got %q", out)
	}
}

func TestSummary(t *testing.T) {
	result := &dynamo.Result{
		Series:     testSeries(),
		Metrics:    map[string]float64{"rate_damping": 0.05, "final_rate": 0.015},
		Segments:   19,
		StepsTaken: 42,
	}
	out := Summary("dart", result)
	for _, want := range []string{"dart", "segments", "19", "rate_damping", "final_rate", "285.0 s"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "final_rate") > strings.Index(out, "rate_damping") {
		t.Error("metrics should be sorted by name")
	}
}

func TestProgressObserver(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 100)
	p.Every = 2

	p.OnSegment(1, nil, 30)
	if buf.Len() != 0 {
		t.Errorf("odd segment should not redraw, got %q", buf.String())
	}
	p.OnSegment(2, nil, 50)
	if !strings.Contains(buf.String(), "50.0%") {
		t.Errorf("expected 50%% progress, got %q", buf.String())
	}
	p.OnSegment(3, nil, 105)
	if !strings.HasSuffix(buf.String(), "\n") || !strings.Contains(buf.String(), "100.0%") {
		t.Errorf("final segment should complete the bar, got %q", buf.String())
	}
}
