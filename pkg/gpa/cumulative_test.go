package gpa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

func semester(t *testing.T, scale Scale, entries ...CourseEntry) SemesterResult {
	t.Helper()
	result, err := Aggregate(entries, scale)
	require.NoError(t, err)
	return result
}

func TestFoldWithoutPrior(t *testing.T) {
	a := semester(t, ScaleFivePoint, CourseEntry{Grade: GradeA, Units: 3}, CourseEntry{Grade: GradeC, Units: 3})
	b := semester(t, ScaleFivePoint, CourseEntry{Grade: GradeB, Units: 4})

	state, err := Fold([]SemesterResult{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, ScaleFivePoint, state.Scale)
	assert.Equal(t, 10, state.PriorUnits)
	assert.Equal(t, 40.0, state.PriorPoints)
	cgpa, ok := state.CGPA()
	require.True(t, ok)
	assert.Equal(t, 4.0, cgpa)
}

func TestFoldWithPriorSeed(t *testing.T) {
	prior, err := NewCumulativeState(3.5, 30, ScaleFivePoint)
	require.NoError(t, err)
	assert.Equal(t, 105.0, prior.PriorPoints)

	a := semester(t, ScaleFivePoint, CourseEntry{Grade: GradeA, Units: 10})
	state, err := Fold([]SemesterResult{a}, &prior)
	require.NoError(t, err)
	cgpa, ok := state.CGPA()
	require.True(t, ok)
	assert.InDelta(t, 155.0/40.0, cgpa, 1e-12)

	// the seed itself is untouched
	assert.Equal(t, 30, prior.PriorUnits)
}

func TestFoldZeroDenominator(t *testing.T) {
	empty := semester(t, ScaleFivePoint)
	state, err := Fold([]SemesterResult{empty, empty}, nil)
	require.NoError(t, err)
	_, ok := state.CGPA()
	assert.False(t, ok)
	assert.ErrorIs(t, state.Err(), ErrNoData)

	state, err = Fold(nil, &CumulativeState{})
	require.NoError(t, err)
	_, ok = state.CGPA()
	assert.False(t, ok)
}

func TestFoldAssociative(t *testing.T) {
	prior, err := NewCumulativeState(2.87, 47, ScaleFivePoint)
	require.NoError(t, err)
	semesters := []SemesterResult{
		semester(t, ScaleFivePoint, CourseEntry{Grade: GradeA, Units: 3}, CourseEntry{Grade: GradeE, Units: 2}, CourseEntry{Grade: GradeC, Units: 1}),
		semester(t, ScaleFivePoint, CourseEntry{Grade: GradeD, Units: 5}, CourseEntry{Grade: GradeB, Units: 3}),
		semester(t, ScaleFivePoint, CourseEntry{Grade: GradeA, Units: 6}, CourseEntry{Grade: GradeF, Units: 1}),
	}

	atOnce, err := Fold(semesters, &prior)
	require.NoError(t, err)
	incremental := prior
	for _, s := range semesters {
		incremental, err = Fold([]SemesterResult{s}, &incremental)
		require.NoError(t, err)
	}
	appended := prior
	for _, s := range semesters {
		appended, err = appended.Append(s)
		require.NoError(t, err)
	}

	want, ok := atOnce.CGPA()
	require.True(t, ok)
	for _, got := range []CumulativeState{incremental, appended} {
		cgpa, ok := got.CGPA()
		require.True(t, ok)
		assert.True(t, scalar.EqualWithinRel(want, cgpa, 1e-9), "want %v got %v", want, cgpa)
		assert.Equal(t, atOnce.PriorUnits, got.PriorUnits)
	}
}

func TestNewCumulativeStateValidation(t *testing.T) {
	_, err := NewCumulativeState(4.5, 10, ScaleFourPoint)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewCumulativeState(-0.1, 10, ScaleFivePoint)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewCumulativeState(3.0, -1, ScaleFivePoint)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewCumulativeState(3.0, 1, Scale(""))
	assert.ErrorIs(t, err, ErrConfiguration)

	state, err := NewCumulativeState(0, 0, ScaleFourPoint)
	require.NoError(t, err)
	assert.Equal(t, CumulativeState{Scale: ScaleFourPoint}, state)
}

func TestAppendRejectsMixedScales(t *testing.T) {
	four := semester(t, ScaleFourPoint, CourseEntry{Grade: GradeA, Units: 3})
	five := semester(t, ScaleFivePoint, CourseEntry{Grade: GradeA, Units: 3})

	state, err := CumulativeState{}.Append(four)
	require.NoError(t, err)
	assert.Equal(t, ScaleFourPoint, state.Scale)

	after, err := state.Append(five)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, state, after)

	prior, err := NewCumulativeState(4.0, 10, ScaleFivePoint)
	require.NoError(t, err)
	folded, err := Fold([]SemesterResult{five, four}, &prior)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 13, folded.PriorUnits)
}

func TestAppendRejectsUnitOverflow(t *testing.T) {
	state := CumulativeState{Scale: ScaleFivePoint, PriorUnits: math.MaxInt - 1}
	_, err := state.Append(semester(t, ScaleFivePoint, CourseEntry{Grade: GradeA, Units: 3}))
	assert.ErrorIs(t, err, ErrConfiguration)
}
