package gpa

import "math"

// CourseEntry is a graded course. Titles are informational only.
type CourseEntry struct {
	Title string
	Grade Letter
	Units int
}

// ScoredEntry is a course graded from a test and an exam score.
type ScoredEntry struct {
	Title string
	Test  float64
	Exam  float64
	Units int
}

// Total returns the combined raw score.
func (e ScoredEntry) Total() float64 {
	return e.Test + e.Exam
}

// GradedCourse is an accepted entry together with its resolved point value.
type GradedCourse struct {
	Index  int
	Title  string
	Score  *float64
	Grade  Letter
	Points float64
	Units  int
}

// WeightedPoints returns points × units.
func (c GradedCourse) WeightedPoints() float64 {
	return c.Points * float64(c.Units)
}

// SemesterResult is the reduction of one semester's course entries.
type SemesterResult struct {
	Scale       Scale
	TotalUnits  int
	TotalPoints float64
	Courses     []GradedCourse
	Rejected    []Rejection
}

// GPA returns TotalPoints / TotalUnits. ok is false when no units were
// accepted; callers must not present that case as a zero GPA.
func (r SemesterResult) GPA() (gpa float64, ok bool) {
	if r.TotalUnits <= 0 {
		return 0, false
	}
	return r.TotalPoints / float64(r.TotalUnits), true
}

// Err returns ErrNoData when the semester has no accepted units.
func (r SemesterResult) Err() error {
	if r.TotalUnits <= 0 {
		return ErrNoData
	}
	return nil
}

// Aggregate reduces graded course entries on the given scale. Entries with a
// letter outside the scale or non-positive units are rejected individually.
// The returned error is non-nil only for an unknown scale.
func Aggregate(entries []CourseEntry, scale Scale) (SemesterResult, error) {
	if !scale.Valid() {
		return SemesterResult{}, configErr("unknown scale %q", scale)
	}
	result := SemesterResult{Scale: scale}
	for i, entry := range entries {
		if entry.Units <= 0 {
			result.reject(i, entry.Title, configErr("units must be positive, got %d", entry.Units))
			continue
		}
		points, err := scale.Points(entry.Grade)
		if err != nil {
			result.reject(i, entry.Title, err)
			continue
		}
		if err := result.accept(GradedCourse{Index: i, Title: entry.Title, Grade: entry.Grade, Points: points, Units: entry.Units}); err != nil {
			result.reject(i, entry.Title, err)
		}
	}
	return result, nil
}

// AggregateScores grades each entry's combined score through policy before
// reducing. A nil policy selects DefaultPolicy(scale). Entries whose combined
// score falls outside 0..MaxScore are skipped with ErrScoreRange.
func AggregateScores(entries []ScoredEntry, scale Scale, policy ScorePolicy) (SemesterResult, error) {
	if !scale.Valid() {
		return SemesterResult{}, configErr("unknown scale %q", scale)
	}
	if policy == nil {
		policy = DefaultPolicy(scale)
	}
	result := SemesterResult{Scale: scale}
	for i, entry := range entries {
		total := entry.Total()
		if entry.Test < 0 || entry.Exam < 0 || total > MaxScore {
			result.reject(i, entry.Title, fmtScoreErr(total))
			continue
		}
		if entry.Units <= 0 {
			result.reject(i, entry.Title, configErr("units must be positive, got %d", entry.Units))
			continue
		}
		letter := policy.Letter(total)
		points, err := scale.Points(letter)
		if err != nil {
			result.reject(i, entry.Title, err)
			continue
		}
		score := total
		if err := result.accept(GradedCourse{Index: i, Title: entry.Title, Score: &score, Grade: letter, Points: points, Units: entry.Units}); err != nil {
			result.reject(i, entry.Title, err)
		}
	}
	return result, nil
}

// accept adds the course to the totals. It refuses a course whose units would
// overflow the semester total.
func (r *SemesterResult) accept(course GradedCourse) error {
	units, ok := addUnits(r.TotalUnits, course.Units)
	if !ok {
		return configErr("units %d overflow the semester total", course.Units)
	}
	r.TotalUnits = units
	r.TotalPoints += course.WeightedPoints()
	r.Courses = append(r.Courses, course)
	return nil
}

// addUnits sums two non-negative unit counts. ok is false on overflow.
func addUnits(a, b int) (sum int, ok bool) {
	if b > math.MaxInt-a {
		return 0, false
	}
	return a + b, true
}

func (r *SemesterResult) reject(index int, title string, err error) {
	r.Rejected = append(r.Rejected, Rejection{Index: index, Title: title, Err: err})
}
