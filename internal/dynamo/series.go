package dynamo

// Series is an ordered, growable time series of state samples.
type Series struct {
	Times  []float64
	States []State
}

// NewSeries preallocates room for capacity samples. The hint is not a limit.
func NewSeries(capacity int) *Series {
	if capacity < 0 {
		capacity = 0
	}
	return &Series{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
}

// Append stores a copy of x at time t.
func (s *Series) Append(t float64, x State) {
	s.Times = append(s.Times, t)
	s.States = append(s.States, x.Clone())
}

// Extend appends every sample of o, optionally skipping its first one.
func (s *Series) Extend(o *Series, skipFirst bool) {
	start := 0
	if skipFirst {
		start = 1
	}
	for i := start; i < o.Len(); i++ {
		s.Append(o.Times[i], o.States[i])
	}
}

func (s *Series) Len() int { return len(s.Times) }

func (s *Series) At(i int) (float64, State) {
	return s.Times[i], s.States[i]
}

// Last returns the final sample. ok is false for an empty series.
func (s *Series) Last() (t float64, x State, ok bool) {
	if len(s.Times) == 0 {
		return 0, nil, false
	}
	n := len(s.Times) - 1
	return s.Times[n], s.States[n], true
}

// Trim drops everything past the first n samples.
func (s *Series) Trim(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(s.Times) {
		return
	}
	s.Times = s.Times[:n]
	s.States = s.States[:n]
}

// Column extracts state component idx across all samples.
func (s *Series) Column(idx int) []float64 {
	out := make([]float64, len(s.States))
	for i, x := range s.States {
		if idx < len(x) {
			out[i] = x[idx]
		}
	}
	return out
}

// Monotonic reports whether sample times strictly increase.
func (s *Series) Monotonic() bool {
	for i := 1; i < len(s.Times); i++ {
		if s.Times[i] <= s.Times[i-1] {
			return false
		}
	}
	return true
}
