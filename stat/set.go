package stat

// FloatSet is a set of float64 values.
type FloatSet map[float64]struct{}

func NewFloatSet() FloatSet {
	return make(FloatSet)
}

// Add adds x to s.
func (s FloatSet) Add(x float64) {
	s[x] = struct{}{}
}

// Contains reports membership of x in s.
func (s FloatSet) Contains(x float64) bool {
	_, ok := s[x]
	return ok
}
