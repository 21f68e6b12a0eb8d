package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cgpa-planner-api/internal/dto"
	appErrors "github.com/noah-isme/cgpa-planner-api/pkg/errors"
	"github.com/noah-isme/cgpa-planner-api/pkg/gpa"
)

// Rejection codes reported for skipped course lines.
const (
	RejectInvalidEntry = "INVALID_ENTRY"
	RejectScoreRange   = "SCORE_OUT_OF_RANGE"
)

const noDataMessage = "No valid course entries"

// CalculatorConfig holds request defaults.
type CalculatorConfig struct {
	DefaultScale gpa.Scale
	Precision    int
}

// CalculatorService runs the GPA engine for API requests.
type CalculatorService struct {
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       CalculatorConfig
}

// NewCalculatorService constructs the calculator.
func NewCalculatorService(validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg CalculatorConfig) *CalculatorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.DefaultScale.Valid() {
		cfg.DefaultScale = gpa.ScaleFivePoint
	}
	if cfg.Precision != 3 {
		cfg.Precision = 2
	}
	return &CalculatorService{validator: validate, metrics: metrics, logger: logger, cfg: cfg}
}

// Scales describes every supported scale.
func (s *CalculatorService) Scales() []dto.ScaleResult {
	scales := gpa.Scales()
	out := make([]dto.ScaleResult, 0, len(scales))
	for _, scale := range scales {
		item := dto.ScaleResult{
			Scale:   string(scale),
			Max:     scale.Max(),
			Default: scale == s.cfg.DefaultScale,
		}
		for _, letter := range scale.Letters() {
			points, _ := scale.Points(letter)
			item.Grades = append(item.Grades, dto.GradePoint{Letter: string(letter), Points: points})
		}
		for _, t := range gpa.DefaultPolicy(scale) {
			item.Thresholds = append(item.Thresholds, dto.ScoreBand{MinScore: t.Min, Letter: string(t.Letter)})
		}
		out = append(out, item)
	}
	return out
}

// Semester computes a single semester GPA.
func (s *CalculatorService) Semester(req dto.SemesterCalculationRequest) (*dto.SemesterResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	scale, err := s.resolveScale(req.Scale)
	if err != nil {
		return nil, err
	}
	mode := resolveMode(req.Mode, "")
	result, err := s.compute(scale, mode, req.Courses)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCalculation(CalculationSemester, scale)
	return s.semesterResult("", mode, result), nil
}

// CGPA folds sessions of semesters, optionally on top of a prior CGPA.
// Semesters without valid entries are reported and contribute nothing.
func (s *CalculatorService) CGPA(req dto.CGPACalculationRequest) (*dto.CGPAResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	scale, err := s.resolveScale(req.Scale)
	if err != nil {
		return nil, err
	}

	var state gpa.CumulativeState
	if req.Prior != nil {
		state, err = gpa.NewCumulativeState(req.Prior.CGPA, req.Prior.Units, scale)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, engineMessage(err))
		}
	}

	out := &dto.CGPAResult{
		Scale:        string(scale),
		Prior:        req.Prior,
		Sessions:     make([]dto.SessionResult, 0, len(req.Sessions)),
		SessionCount: len(req.Sessions),
	}
	for _, session := range req.Sessions {
		sessionOut := dto.SessionResult{Name: session.Name, Semesters: make([]dto.SemesterResult, 0, len(session.Semesters))}
		for _, semester := range session.Semesters {
			mode := resolveMode(semester.Mode, req.Mode)
			result, err := s.compute(scale, mode, semester.Courses)
			if err != nil {
				return nil, err
			}
			next, err := state.Append(result)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, engineMessage(err))
			}
			state = next
			out.SemesterCount++
			if result.Err() == nil {
				out.CountedCount++
			}
			sessionOut.Semesters = append(sessionOut.Semesters, *s.semesterResult(semester.Name, mode, result))
		}
		out.Sessions = append(out.Sessions, sessionOut)
	}

	out.TotalUnits = state.PriorUnits
	out.TotalPoints = s.round(state.PriorPoints)
	if cgpa, ok := state.CGPA(); ok {
		rounded := s.round(cgpa)
		out.CGPA = &rounded
	} else {
		out.NoData = true
	}
	s.metrics.RecordCalculation(CalculationCGPA, scale)
	return out, nil
}

// Plan solves for the GPAs needed to reach a target CGPA. An infeasible
// target is a successful response with verdict INFEASIBLE.
func (s *CalculatorService) Plan(req dto.PlanRequest) (*dto.PlanResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	scale, err := s.resolveScale(req.Scale)
	if err != nil {
		return nil, err
	}

	result, err := gpa.Plan(gpa.PlanningRequest{
		Scale:           scale,
		CurrentCGPA:     req.CurrentCGPA,
		CompletedUnits:  req.CompletedUnits,
		FutureUnitLoads: req.FutureUnitLoads,
		TargetCGPA:      req.TargetCGPA,
		Skew:            req.Skew,
	})
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidPlan, engineMessage(err))
	}

	s.metrics.RecordCalculation(CalculationPlan, scale)
	s.metrics.RecordPlan(result.Feasibility)
	if errors.Is(result.Err(), gpa.ErrInfeasibleTarget) {
		s.logger.Debug("infeasible target",
			zap.Float64("target", req.TargetCGPA),
			zap.Float64("required_gpa", result.EqualGPA),
			zap.Float64("best_achievable", result.BestAchievableCGPA))
	}

	out := &dto.PlanResult{
		Scale:              string(result.Scale),
		TotalFutureUnits:   result.TotalFutureUnits,
		TotalUnits:         result.TotalUnits,
		PointsNeeded:       s.round(result.PointsNeeded),
		PointsRemaining:    s.round(result.PointsRemaining),
		RequiredGPA:        s.round(result.EqualGPA),
		Feasibility:        string(result.Feasibility),
		Secured:            result.Secured,
		BestAchievableCGPA: s.round(result.BestAchievableCGPA),
		Scenarios:          []dto.ScenarioResult{s.scenario(result.Equal)},
	}
	if result.StartLower != nil {
		out.Scenarios = append(out.Scenarios, s.scenario(*result.StartLower))
	}
	if result.StartHigher != nil {
		out.Scenarios = append(out.Scenarios, s.scenario(*result.StartHigher))
	}
	return out, nil
}

// compute runs the engine for one semester of course lines.
func (s *CalculatorService) compute(scale gpa.Scale, mode string, courses []dto.CourseInput) (gpa.SemesterResult, error) {
	var (
		result gpa.SemesterResult
		err    error
	)
	if mode == dto.ModeScore {
		entries := make([]gpa.ScoredEntry, len(courses))
		for i, c := range courses {
			entries[i] = gpa.ScoredEntry{Title: c.Title, Test: valueOrZero(c.Test), Exam: valueOrZero(c.Exam), Units: c.Units}
		}
		result, err = gpa.AggregateScores(entries, scale, nil)
	} else {
		entries := make([]gpa.CourseEntry, len(courses))
		for i, c := range courses {
			entries[i] = gpa.CourseEntry{Title: c.Title, Grade: gpa.ParseLetter(c.Grade), Units: c.Units}
		}
		result, err = gpa.Aggregate(entries, scale)
	}
	if err != nil {
		return gpa.SemesterResult{}, appErrors.Clone(appErrors.ErrUnknownScale, engineMessage(err))
	}
	s.metrics.RecordRejections(result.Rejected)
	return result, nil
}

func (s *CalculatorService) semesterResult(name, mode string, result gpa.SemesterResult) *dto.SemesterResult {
	out := &dto.SemesterResult{
		Name:        name,
		Scale:       string(result.Scale),
		Mode:        mode,
		TotalUnits:  result.TotalUnits,
		TotalPoints: s.round(result.TotalPoints),
		Courses:     make([]dto.CourseResult, 0, len(result.Courses)),
		Rejected:    rejectedCourses(result.Rejected),
	}
	if value, ok := result.GPA(); ok {
		rounded := s.round(value)
		out.GPA = &rounded
	} else {
		out.NoData = true
		out.Message = noDataMessage
	}
	for _, c := range result.Courses {
		out.Courses = append(out.Courses, dto.CourseResult{
			Index:  c.Index,
			Title:  c.Title,
			Score:  c.Score,
			Grade:  string(c.Grade),
			Points: c.Points,
			Units:  c.Units,
		})
	}
	return out
}

func (s *CalculatorService) scenario(sc gpa.Scenario) dto.ScenarioResult {
	gpas := make([]float64, len(sc.SemesterGPAs))
	for i, v := range sc.SemesterGPAs {
		gpas[i] = s.round(v)
	}
	return dto.ScenarioResult{Name: string(sc.Name), SemesterGPAs: gpas, Clamped: sc.Clamped}
}

func (s *CalculatorService) resolveScale(raw string) (gpa.Scale, error) {
	if strings.TrimSpace(raw) == "" {
		return s.cfg.DefaultScale, nil
	}
	scale, err := gpa.ParseScale(raw)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnknownScale, engineMessage(err))
	}
	return scale, nil
}

func (s *CalculatorService) round(v float64) float64 {
	return gpa.Round(v, s.cfg.Precision)
}

func resolveMode(mode, fallback string) string {
	if mode == "" {
		mode = fallback
	}
	if mode == dto.ModeScore {
		return dto.ModeScore
	}
	return dto.ModeGrade
}

func rejectedCourses(rejected []gpa.Rejection) []dto.RejectedCourse {
	out := make([]dto.RejectedCourse, 0, len(rejected))
	for _, r := range rejected {
		out = append(out, dto.RejectedCourse{
			Index:  r.Index,
			Title:  r.Title,
			Code:   rejectionCode(r.Err),
			Reason: engineMessage(r.Err),
		})
	}
	return out
}

func rejectionCode(err error) string {
	if errors.Is(err, gpa.ErrScoreRange) {
		return RejectScoreRange
	}
	return RejectInvalidEntry
}

// engineMessage drops the package prefix from engine errors.
func engineMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "gpa: ")
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
