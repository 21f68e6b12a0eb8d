package dto

// Calculation modes. Grade mode reads letters, score mode grades test + exam.
const (
	ModeGrade = "grade"
	ModeScore = "score"
)

// CourseInput is one course line. Grade mode reads Grade; score mode reads
// Test and Exam, treating a missing part as zero.
type CourseInput struct {
	Title string   `json:"title" validate:"max=120"`
	Grade string   `json:"grade,omitempty" validate:"max=2"`
	Test  *float64 `json:"test,omitempty" validate:"omitempty,min=0,max=100"`
	Exam  *float64 `json:"exam,omitempty" validate:"omitempty,min=0,max=100"`
	Units int      `json:"units" validate:"min=1,max=6"`
}

// SemesterCalculationRequest computes one semester GPA.
type SemesterCalculationRequest struct {
	Scale   string        `json:"scale"`
	Mode    string        `json:"mode" validate:"omitempty,oneof=grade score"`
	Courses []CourseInput `json:"courses" validate:"max=40,dive"`
}

// PriorInput seeds a cumulative computation with earlier history.
type PriorInput struct {
	CGPA  float64 `json:"cgpa" validate:"min=0"`
	Units int     `json:"units" validate:"min=0,max=1000"`
}

// SemesterInput is one semester inside a session.
type SemesterInput struct {
	Name    string        `json:"name" validate:"max=60"`
	Mode    string        `json:"mode" validate:"omitempty,oneof=grade score"`
	Courses []CourseInput `json:"courses" validate:"max=40,dive"`
}

// SessionInput groups semesters of one academic session.
type SessionInput struct {
	Name      string          `json:"name" validate:"max=60"`
	Semesters []SemesterInput `json:"semesters" validate:"required,min=1,max=4,dive"`
}

// CGPACalculationRequest computes a CGPA over sessions of semesters.
type CGPACalculationRequest struct {
	Scale    string         `json:"scale"`
	Mode     string         `json:"mode" validate:"omitempty,oneof=grade score"`
	Prior    *PriorInput    `json:"prior,omitempty"`
	Sessions []SessionInput `json:"sessions" validate:"required,min=1,max=12,dive"`
}

// CourseResult echoes an accepted course with its derived grade point.
type CourseResult struct {
	Index  int      `json:"index"`
	Title  string   `json:"title,omitempty"`
	Score  *float64 `json:"score,omitempty"`
	Grade  string   `json:"grade"`
	Points float64  `json:"points"`
	Units  int      `json:"units"`
}

// RejectedCourse describes a skipped course line.
type RejectedCourse struct {
	Index  int    `json:"index"`
	Title  string `json:"title,omitempty"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// SemesterResult is a computed semester. GPA is null when NoData is set.
type SemesterResult struct {
	Name        string           `json:"name,omitempty"`
	Scale       string           `json:"scale"`
	Mode        string           `json:"mode"`
	GPA         *float64         `json:"gpa"`
	NoData      bool             `json:"noData"`
	Message     string           `json:"message,omitempty"`
	TotalUnits  int              `json:"totalUnits"`
	TotalPoints float64          `json:"totalPoints"`
	Courses     []CourseResult   `json:"courses"`
	Rejected    []RejectedCourse `json:"rejected"`
}

// SessionResult groups computed semesters.
type SessionResult struct {
	Name      string           `json:"name,omitempty"`
	Semesters []SemesterResult `json:"semesters"`
}

// CGPAResult is the cumulative computation over every submitted semester.
type CGPAResult struct {
	Scale         string          `json:"scale"`
	Prior         *PriorInput     `json:"prior,omitempty"`
	Sessions      []SessionResult `json:"sessions"`
	SessionCount  int             `json:"sessionCount"`
	SemesterCount int             `json:"semesterCount"`
	CountedCount  int             `json:"countedSemesters"`
	TotalUnits    int             `json:"totalUnits"`
	TotalPoints   float64         `json:"totalPoints"`
	CGPA          *float64        `json:"cgpa"`
	NoData        bool            `json:"noData"`
}

// GradePoint is one letter of a scale.
type GradePoint struct {
	Letter string  `json:"letter"`
	Points float64 `json:"points"`
}

// ScoreBand awards Letter to combined scores at or above MinScore.
type ScoreBand struct {
	MinScore float64 `json:"minScore"`
	Letter   string  `json:"letter"`
}

// ScaleResult describes a supported grading scale.
type ScaleResult struct {
	Scale      string       `json:"scale"`
	Max        float64      `json:"max"`
	Default    bool         `json:"default"`
	Grades     []GradePoint `json:"grades"`
	Thresholds []ScoreBand  `json:"thresholds"`
}
