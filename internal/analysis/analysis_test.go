package analysis

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
)

func sampleSeries() *dynamo.Series {
	s := dynamo.NewSeries(3)
	for i := 0; i < 3; i++ {
		x := dynamo.NewSatState(
			r3.Vec{X: 6878},
			r3.Vec{Y: 7.6},
			[4]float64{1, 0, 0, 0},
			r3.Vec{X: 0.3, Y: 0.4 * float64(i)},
		)
		s.Append(float64(i), x)
	}
	return s
}

func TestLookupChannel(t *testing.T) {
	for _, name := range ChannelNames() {
		ch, err := LookupChannel(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if ch.Name != name {
			t.Errorf("channel %q reports name %q", name, ch.Name)
		}
	}
	if _, err := LookupChannel("bogus"); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestExtract(t *testing.T) {
	s := sampleSeries()
	tests := []struct {
		channel string
		want    []float64
	}{
		{"wx", []float64{0.3, 0.3, 0.3}},
		{"rate", []float64{0.3, 0.5, math.Sqrt(0.09 + 0.64)}},
		{"radius", []float64{6878, 6878, 6878}},
		{"speed", []float64{7.6, 7.6, 7.6}},
		{"nose", []float64{0, 0, 0}},
		{"q0", []float64{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			ch, err := LookupChannel(tt.channel)
			if err != nil {
				t.Fatal(err)
			}
			got := Extract(s, ch)
			if !floats.EqualApprox(got, tt.want, 1e-12) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResample(t *testing.T) {
	times := []float64{0, 1, 3}
	values := []float64{0, 2, 6}

	got, err := Resample(times, values, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 2, 3, 4, 5, 6}
	if !floats.EqualApprox(got, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResampleErrors(t *testing.T) {
	tests := []struct {
		name   string
		times  []float64
		values []float64
		dt     float64
	}{
		{"length mismatch", []float64{0, 1}, []float64{0}, 1},
		{"single sample", []float64{0}, []float64{0}, 1},
		{"zero step", []float64{0, 1}, []float64{0, 1}, 0},
		{"repeated time", []float64{0, 0, 1}, []float64{0, 1, 2}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resample(tt.times, tt.values, tt.dt); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPowerSpectrumConstant(t *testing.T) {
	ps := PowerSpectrum([]float64{2, 2, 2, 2, 2, 2})
	if len(ps) != 3 {
		t.Fatalf("expected 3 bins, got %d", len(ps))
	}
	if !scalar.EqualWithinAbs(ps[0], 12, 1e-9) {
		t.Errorf("expected DC 12, got %v", ps[0])
	}
	for i := 1; i < len(ps); i++ {
		if ps[i] > 1e-9 {
			t.Errorf("bin %d should vanish, got %v", i, ps[i])
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	const f0 = 0.05
	var times, values []float64
	for tm := 0.0; tm <= 400; tm += 0.3 + 0.2*math.Abs(math.Sin(tm)) {
		times = append(times, tm)
		values = append(values, 1+math.Sin(2*math.Pi*f0*tm))
	}

	f, err := DominantFrequency(times, values, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-f0) > 0.003 {
		t.Errorf("expected ~%v Hz, got %v", f0, f)
	}
}

func TestUniformSpectrumTooShort(t *testing.T) {
	if _, err := UniformSpectrum([]float64{1, 2}, 1); err != ErrTooFewSamples {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
}

func TestPhasePortrait(t *testing.T) {
	s := sampleSeries()
	wx, _ := LookupChannel("wx")
	wy, _ := LookupChannel("wy")

	p := GeneratePhasePortrait(s, wx, wy)
	if len(p.Points) != s.Len() {
		t.Fatalf("expected %d points, got %d", s.Len(), len(p.Points))
	}
	if p.Points[2].Y != 0.8 {
		t.Errorf("expected wy 0.8, got %v", p.Points[2].Y)
	}

	art := PhasePortraitToASCII(p, 20, 8)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 8 {
		t.Errorf("expected 8 rows, got %d", len(lines))
	}
	if !strings.Contains(art, "•") {
		t.Error("expected plotted points")
	}
	if PhasePortraitToASCII(nil, 20, 8) != "" {
		t.Error("nil portrait should render empty")
	}
}
