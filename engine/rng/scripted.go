package rng

// Scripted replays fixed values. Floats and Ints are consumed in order;
// once exhausted, Float64 returns 0.99 (a miss for any chance check)
// and Intn returns 0.
type Scripted struct {
	Floats []float64
	Ints   []int
}

// Float64 returns the next scripted float.
func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	f := s.Floats[0]
	s.Floats = s.Floats[1:]
	return f
}

// Intn returns the next scripted int, clamped to [0, n).
func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Remaining returns how many scripted floats are left.
func (s *Scripted) Remaining() int {
	return len(s.Floats)
}
