package gpa

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workedExample() []CourseEntry {
	return []CourseEntry{
		{Title: "MTH101", Grade: GradeA, Units: 3},
		{Title: "PHY101", Grade: GradeB, Units: 4},
		{Title: "CHM101", Grade: GradeA, Units: 3},
		{Title: "GST101", Grade: GradeC, Units: 2},
		{Title: "BIO101", Grade: GradeB, Units: 4},
	}
}

func TestAggregateWorkedExample(t *testing.T) {
	result, err := Aggregate(workedExample(), ScaleFivePoint)
	require.NoError(t, err)

	assert.Equal(t, 16, result.TotalUnits)
	assert.Equal(t, 68.0, result.TotalPoints)
	gpa, ok := result.GPA()
	require.True(t, ok)
	assert.Equal(t, 4.25, gpa)
	assert.Empty(t, result.Rejected)
	assert.Len(t, result.Courses, 5)
}

// The tutorial text quotes 72 points and 4.50 for the same courses; the
// arithmetic gives 68 and 4.25.
func TestAggregateWorkedExampleNarrativeFigures(t *testing.T) {
	result, err := Aggregate(workedExample(), ScaleFivePoint)
	require.NoError(t, err)
	gpa, _ := result.GPA()
	assert.NotEqual(t, 72.0, result.TotalPoints)
	assert.NotEqual(t, 4.50, gpa)
}

func TestAggregateCommutative(t *testing.T) {
	entries := []CourseEntry{
		{Grade: GradeA, Units: 3}, {Grade: GradeE, Units: 1}, {Grade: GradeC, Units: 2},
		{Grade: GradeD, Units: 6}, {Grade: GradeB, Units: 4}, {Grade: GradeF, Units: 2},
		{Grade: GradeA, Units: 5}, {Grade: Letter("Q"), Units: 3}, {Grade: GradeB, Units: 0},
	}
	base, err := Aggregate(entries, ScaleFivePoint)
	require.NoError(t, err)
	baseGPA, _ := base.GPA()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]CourseEntry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		result, err := Aggregate(shuffled, ScaleFivePoint)
		require.NoError(t, err)
		assert.Equal(t, base.TotalUnits, result.TotalUnits)
		assert.Equal(t, base.TotalPoints, result.TotalPoints)
		gpa, _ := result.GPA()
		assert.Equal(t, baseGPA, gpa)
		assert.Len(t, result.Rejected, len(base.Rejected))
	}
}

func TestAggregateZeroUnitGuard(t *testing.T) {
	empty, err := Aggregate(nil, ScaleFivePoint)
	require.NoError(t, err)
	_, ok := empty.GPA()
	assert.False(t, ok)
	assert.ErrorIs(t, empty.Err(), ErrNoData)

	allRejected, err := Aggregate([]CourseEntry{{Grade: GradeE, Units: 3}, {Grade: GradeA, Units: 0}}, ScaleFourPoint)
	require.NoError(t, err)
	_, ok = allRejected.GPA()
	assert.False(t, ok)
	assert.ErrorIs(t, allRejected.Err(), ErrNoData)
	assert.Len(t, allRejected.Rejected, 2)
}

func TestAggregateAllFailsIsZeroNotNoData(t *testing.T) {
	result, err := Aggregate([]CourseEntry{{Grade: GradeF, Units: 3}}, ScaleFivePoint)
	require.NoError(t, err)
	gpa, ok := result.GPA()
	assert.True(t, ok)
	assert.Zero(t, gpa)
	assert.NoError(t, result.Err())
}

func TestAggregateRejectsEntriesIndividually(t *testing.T) {
	entries := []CourseEntry{
		{Title: "ok", Grade: GradeA, Units: 2},
		{Title: "bad-letter", Grade: GradeE, Units: 3},
		{Title: "bad-units", Grade: GradeB, Units: -1},
	}
	result, err := Aggregate(entries, ScaleFourPoint)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalUnits)
	assert.Equal(t, 8.0, result.TotalPoints)
	require.Len(t, result.Rejected, 2)
	assert.Equal(t, 1, result.Rejected[0].Index)
	assert.Equal(t, "bad-letter", result.Rejected[0].Title)
	assert.True(t, errors.Is(result.Rejected[0], ErrConfiguration))
	assert.Equal(t, 2, result.Rejected[1].Index)
	assert.True(t, errors.Is(result.Rejected[1], ErrConfiguration))
	assert.Contains(t, result.Rejected[1].Error(), "bad-units")
}

func TestAggregateUnboundedUnits(t *testing.T) {
	result, err := Aggregate([]CourseEntry{{Grade: GradeB, Units: 40}}, ScaleFivePoint)
	require.NoError(t, err)
	assert.Equal(t, 40, result.TotalUnits)
	assert.Equal(t, 160.0, result.TotalPoints)
}

func TestAggregateRejectsUnitOverflow(t *testing.T) {
	result, err := Aggregate([]CourseEntry{
		{Title: "huge", Grade: GradeA, Units: math.MaxInt},
		{Title: "one more", Grade: GradeA, Units: 1},
	}, ScaleFivePoint)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, result.TotalUnits)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 1, result.Rejected[0].Index)
	assert.ErrorIs(t, result.Rejected[0], ErrConfiguration)
	_, ok := result.GPA()
	assert.True(t, ok)

	scored, err := AggregateScores([]ScoredEntry{
		{Test: 30, Exam: 50, Units: math.MaxInt},
		{Test: 30, Exam: 50, Units: 2},
	}, ScaleFivePoint, nil)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, scored.TotalUnits)
	require.Len(t, scored.Rejected, 1)
	assert.ErrorIs(t, scored.Rejected[0], ErrConfiguration)
}

func TestAggregateUnknownScale(t *testing.T) {
	_, err := Aggregate(workedExample(), Scale("TEN"))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = AggregateScores(nil, Scale("TEN"), nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAggregateScoresFivePoint(t *testing.T) {
	entries := []ScoredEntry{
		{Title: "MTH101", Test: 30, Exam: 45, Units: 3},
		{Title: "PHY101", Test: 20, Exam: 40, Units: 2},
		{Title: "CHM101", Test: 60, Exam: 50, Units: 2},
		{Title: "GST101", Test: 10, Exam: 25, Units: 1},
	}
	result, err := AggregateScores(entries, ScaleFivePoint, nil)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalUnits)
	assert.Equal(t, 23.0, result.TotalPoints)
	gpa, ok := result.GPA()
	require.True(t, ok)
	assert.InDelta(t, 23.0/6.0, gpa, 1e-12)

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 2, result.Rejected[0].Index)
	assert.ErrorIs(t, result.Rejected[0], ErrScoreRange)

	require.Len(t, result.Courses, 3)
	assert.Equal(t, GradeA, result.Courses[0].Grade)
	require.NotNil(t, result.Courses[0].Score)
	assert.Equal(t, 75.0, *result.Courses[0].Score)
	assert.Equal(t, GradeB, result.Courses[1].Grade)
	assert.Equal(t, GradeF, result.Courses[2].Grade)
}

func TestAggregateScoresFourPoint(t *testing.T) {
	entries := []ScoredEntry{
		{Test: 35, Exam: 50, Units: 2},
		{Test: 34.9, Exam: 50, Units: 2},
		{Test: -5, Exam: 50, Units: 2},
	}
	result, err := AggregateScores(entries, ScaleFourPoint, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalUnits)
	assert.Equal(t, 14.0, result.TotalPoints)
	require.Len(t, result.Rejected, 1)
	assert.ErrorIs(t, result.Rejected[0], ErrScoreRange)
}

func TestAggregateScoresCustomPolicy(t *testing.T) {
	passFail := ThresholdPolicy{{Min: 50, Letter: GradeA}}
	result, err := AggregateScores([]ScoredEntry{{Test: 20, Exam: 30, Units: 1}, {Test: 20, Exam: 29, Units: 1}}, ScaleFivePoint, passFail)
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.TotalPoints)
}

func TestAggregateScoresPolicyLetterOutsideScale(t *testing.T) {
	onlyE := ThresholdPolicy{{Min: 0, Letter: GradeE}}
	result, err := AggregateScores([]ScoredEntry{{Test: 20, Exam: 30, Units: 1}}, ScaleFourPoint, onlyE)
	require.NoError(t, err)
	assert.ErrorIs(t, result.Err(), ErrNoData)
	require.Len(t, result.Rejected, 1)
	assert.ErrorIs(t, result.Rejected[0], ErrConfiguration)
}
