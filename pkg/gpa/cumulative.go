package gpa

// CumulativeState is completed academic history: units and weighted points.
// The zero value is a student with no completed units and no scale yet.
type CumulativeState struct {
	// Scale is fixed by the seed or by the first appended semester.
	Scale       Scale
	PriorUnits  int
	PriorPoints float64
}

// NewCumulativeState seeds history from a previously computed CGPA and the
// units it covers.
func NewCumulativeState(cgpa float64, units int, scale Scale) (CumulativeState, error) {
	if !scale.Valid() {
		return CumulativeState{}, configErr("unknown scale %q", scale)
	}
	if units < 0 {
		return CumulativeState{}, configErr("completed units cannot be negative, got %d", units)
	}
	if cgpa < 0 || cgpa > scale.Max() {
		return CumulativeState{}, configErr("cgpa %g outside 0..%g", cgpa, scale.Max())
	}
	return CumulativeState{Scale: scale, PriorUnits: units, PriorPoints: cgpa * float64(units)}, nil
}

// Append returns the state extended by one semester. A semester on another
// scale, or one whose units would overflow the total, fails with
// ErrConfiguration and leaves the state unchanged.
func (s CumulativeState) Append(semester SemesterResult) (CumulativeState, error) {
	if s.Scale != "" && semester.Scale != s.Scale {
		return s, configErr("cannot fold a %q semester into %q history", semester.Scale, s.Scale)
	}
	units, ok := addUnits(s.PriorUnits, semester.TotalUnits)
	if !ok {
		return s, configErr("total units overflow")
	}
	s.Scale = semester.Scale
	s.PriorUnits = units
	s.PriorPoints += semester.TotalPoints
	return s, nil
}

// CGPA returns PriorPoints / PriorUnits. ok is false when there are no units.
func (s CumulativeState) CGPA() (cgpa float64, ok bool) {
	if s.PriorUnits <= 0 {
		return 0, false
	}
	return s.PriorPoints / float64(s.PriorUnits), true
}

// Err returns ErrNoData when the state holds no units.
func (s CumulativeState) Err() error {
	if s.PriorUnits <= 0 {
		return ErrNoData
	}
	return nil
}

// Fold appends every semester to prior. A nil prior is a fresher. The first
// failing Append stops the fold; the state up to that semester is returned.
func Fold(semesters []SemesterResult, prior *CumulativeState) (CumulativeState, error) {
	var state CumulativeState
	if prior != nil {
		state = *prior
	}
	for _, semester := range semesters {
		next, err := state.Append(semester)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}
