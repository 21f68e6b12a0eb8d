package service

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cgpa-planner-api/internal/dto"
	appErrors "github.com/noah-isme/cgpa-planner-api/pkg/errors"
	"github.com/noah-isme/cgpa-planner-api/pkg/gpa"
)

func newTestCalculator(t *testing.T) (*CalculatorService, *MetricsService) {
	t.Helper()
	metrics := NewMetricsService()
	return NewCalculatorService(nil, metrics, nil, CalculatorConfig{DefaultScale: gpa.ScaleFivePoint, Precision: 2}), metrics
}

func ptr(v float64) *float64 { return &v }

func gradeCourses() []dto.CourseInput {
	return []dto.CourseInput{
		{Title: "MTH101", Grade: "A", Units: 3},
		{Title: "PHY101", Grade: "b", Units: 4},
		{Title: "CHM101", Grade: "A", Units: 3},
		{Title: "GST101", Grade: "C", Units: 2},
		{Title: "BIO101", Grade: "B", Units: 4},
	}
}

func TestCalculatorSemesterGradeMode(t *testing.T) {
	svc, metrics := newTestCalculator(t)

	res, err := svc.Semester(dto.SemesterCalculationRequest{Courses: gradeCourses()})
	require.NoError(t, err)
	require.NotNil(t, res.GPA)
	assert.Equal(t, 4.25, *res.GPA)
	assert.Equal(t, 16, res.TotalUnits)
	assert.Equal(t, 68.0, res.TotalPoints)
	assert.Equal(t, string(gpa.ScaleFivePoint), res.Scale)
	assert.Equal(t, dto.ModeGrade, res.Mode)
	assert.Len(t, res.Courses, 5)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, "B", res.Courses[1].Grade)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.calculations.WithLabelValues(CalculationSemester, string(gpa.ScaleFivePoint))))
}

func TestCalculatorSemesterRejectsLetterOutsideScale(t *testing.T) {
	svc, metrics := newTestCalculator(t)

	res, err := svc.Semester(dto.SemesterCalculationRequest{
		Scale: "4.0",
		Courses: []dto.CourseInput{
			{Title: "MTH101", Grade: "A", Units: 3},
			{Title: "GST101", Grade: "E", Units: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.GPA)
	assert.Equal(t, 4.0, *res.GPA)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, RejectInvalidEntry, res.Rejected[0].Code)
	assert.Contains(t, res.Rejected[0].Reason, "E")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rejectedEntries.WithLabelValues(RejectInvalidEntry)))
}

func TestCalculatorSemesterScoreMode(t *testing.T) {
	svc, _ := newTestCalculator(t)

	res, err := svc.Semester(dto.SemesterCalculationRequest{
		Mode: dto.ModeScore,
		Courses: []dto.CourseInput{
			{Title: "MTH101", Test: ptr(25), Exam: ptr(50), Units: 3},
			{Title: "PHY101", Test: ptr(20), Exam: ptr(35), Units: 2},
			{Title: "CHM101", Test: ptr(60), Exam: ptr(50), Units: 3},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.GPA)
	// (5*3 + 3*2) / 5
	assert.Equal(t, 4.2, *res.GPA)
	require.Len(t, res.Courses, 2)
	assert.Equal(t, "A", res.Courses[0].Grade)
	require.NotNil(t, res.Courses[0].Score)
	assert.Equal(t, 75.0, *res.Courses[0].Score)
	assert.Equal(t, "C", res.Courses[1].Grade)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, RejectScoreRange, res.Rejected[0].Code)
}

func TestCalculatorSemesterNoData(t *testing.T) {
	svc, _ := newTestCalculator(t)

	res, err := svc.Semester(dto.SemesterCalculationRequest{Courses: []dto.CourseInput{}})
	require.NoError(t, err)
	assert.Nil(t, res.GPA)
	assert.True(t, res.NoData)
	assert.Equal(t, noDataMessage, res.Message)
}

func TestCalculatorSemesterErrors(t *testing.T) {
	svc, _ := newTestCalculator(t)

	_, err := svc.Semester(dto.SemesterCalculationRequest{Scale: "7", Courses: gradeCourses()})
	assert.True(t, errors.Is(err, appErrors.ErrUnknownScale))

	_, err = svc.Semester(dto.SemesterCalculationRequest{Courses: []dto.CourseInput{{Grade: "A", Units: 7}}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Semester(dto.SemesterCalculationRequest{Mode: "letters"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCalculatorCGPAAcrossSessions(t *testing.T) {
	svc, _ := newTestCalculator(t)

	res, err := svc.CGPA(dto.CGPACalculationRequest{
		Sessions: []dto.SessionInput{
			{Name: "2022/2023", Semesters: []dto.SemesterInput{
				{Name: "First", Courses: gradeCourses()},
				{Name: "Second", Courses: []dto.CourseInput{{Grade: "A", Units: 4}}},
			}},
			{Name: "2023/2024", Semesters: []dto.SemesterInput{
				{Name: "First", Courses: []dto.CourseInput{}},
			}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SessionCount)
	assert.Equal(t, 3, res.SemesterCount)
	assert.Equal(t, 2, res.CountedCount)
	assert.Equal(t, 20, res.TotalUnits)
	assert.Equal(t, 88.0, res.TotalPoints)
	require.NotNil(t, res.CGPA)
	assert.Equal(t, 4.4, *res.CGPA)
	assert.True(t, res.Sessions[1].Semesters[0].NoData)
}

func TestCalculatorCGPAWithPrior(t *testing.T) {
	svc, _ := newTestCalculator(t)

	res, err := svc.CGPA(dto.CGPACalculationRequest{
		Prior: &dto.PriorInput{CGPA: 4.0, Units: 20},
		Sessions: []dto.SessionInput{{Semesters: []dto.SemesterInput{
			{Courses: []dto.CourseInput{{Grade: "A", Units: 20}}},
		}}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.CGPA)
	assert.Equal(t, 4.5, *res.CGPA)
	assert.Equal(t, 40, res.TotalUnits)

	_, err = svc.CGPA(dto.CGPACalculationRequest{
		Prior:    &dto.PriorInput{CGPA: 5.5, Units: 20},
		Sessions: []dto.SessionInput{{Semesters: []dto.SemesterInput{{}}}},
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCalculatorCGPAAllEmptyIsNoData(t *testing.T) {
	svc, _ := newTestCalculator(t)

	res, err := svc.CGPA(dto.CGPACalculationRequest{
		Sessions: []dto.SessionInput{{Semesters: []dto.SemesterInput{{}}}},
	})
	require.NoError(t, err)
	assert.Nil(t, res.CGPA)
	assert.True(t, res.NoData)
}

func TestCalculatorPlanTwoSemesters(t *testing.T) {
	svc, metrics := newTestCalculator(t)

	res, err := svc.Plan(dto.PlanRequest{CurrentCGPA: 4.0, CompletedUnits: 36, FutureUnitLoads: []int{18, 18}, TargetCGPA: 4.25})
	require.NoError(t, err)
	assert.Equal(t, 4.5, res.RequiredGPA)
	assert.Equal(t, string(gpa.FeasibilityHighPerformance), res.Feasibility)
	assert.Equal(t, 4.5, res.BestAchievableCGPA)
	require.Len(t, res.Scenarios, 3)
	assert.Equal(t, []float64{4.5, 4.5}, res.Scenarios[0].SemesterGPAs)
	assert.Equal(t, string(gpa.ScenarioStartLower), res.Scenarios[1].Name)
	assert.Equal(t, []float64{4.05, 4.95}, res.Scenarios[1].SemesterGPAs)
	assert.Equal(t, []float64{4.95, 4.05}, res.Scenarios[2].SemesterGPAs)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.planVerdicts.WithLabelValues(string(gpa.FeasibilityHighPerformance))))
}

func TestCalculatorPlanInfeasibleStillResponds(t *testing.T) {
	svc, _ := newTestCalculator(t)

	res, err := svc.Plan(dto.PlanRequest{CurrentCGPA: 3.0, CompletedUnits: 36, FutureUnitLoads: []int{18, 18}, TargetCGPA: 4.5})
	require.NoError(t, err)
	assert.Equal(t, string(gpa.FeasibilityInfeasible), res.Feasibility)
	assert.Equal(t, 6.0, res.RequiredGPA)
	assert.Equal(t, 4.0, res.BestAchievableCGPA)
}

func TestCalculatorPlanRejectsOutOfRange(t *testing.T) {
	svc, _ := newTestCalculator(t)

	_, err := svc.Plan(dto.PlanRequest{CurrentCGPA: 3.0, FutureUnitLoads: []int{18}, TargetCGPA: 5.5})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidPlan))

	_, err = svc.Plan(dto.PlanRequest{CurrentCGPA: 3.0, TargetCGPA: 4})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCalculatorPlanRejectsHugeUnitCounts(t *testing.T) {
	svc, _ := newTestCalculator(t)

	_, err := svc.Plan(dto.PlanRequest{FutureUnitLoads: []int{math.MaxInt, 1}, TargetCGPA: 4})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Plan(dto.PlanRequest{CompletedUnits: math.MaxInt, FutureUnitLoads: []int{18}, TargetCGPA: 4})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.CGPA(dto.CGPACalculationRequest{
		Prior:    &dto.PriorInput{CGPA: 3, Units: math.MaxInt},
		Sessions: []dto.SessionInput{{Semesters: []dto.SemesterInput{{Courses: []dto.CourseInput{{Grade: "A", Units: 3}}}}}},
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCalculatorScales(t *testing.T) {
	svc, _ := newTestCalculator(t)

	scales := svc.Scales()
	require.Len(t, scales, 2)
	assert.Equal(t, string(gpa.ScaleFivePoint), scales[0].Scale)
	assert.True(t, scales[0].Default)
	assert.Len(t, scales[0].Grades, 6)
	assert.Len(t, scales[1].Grades, 5)
	assert.Equal(t, dto.ScoreBand{MinScore: 70, Letter: "A"}, scales[0].Thresholds[0])
}
