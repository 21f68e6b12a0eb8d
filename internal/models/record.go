package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/cgpa-planner-api/pkg/gpa"
)

// SemesterRecord is a saved semester result for a user.
type SemesterRecord struct {
	ID           string        `db:"id" json:"id"`
	UserID       string        `db:"user_id" json:"user_id"`
	AcademicYear string        `db:"academic_year" json:"academic_year"`
	SemesterName string        `db:"semester_name" json:"semester_name"`
	Scale        gpa.Scale     `db:"scale" json:"scale"`
	GPA          float64       `db:"gpa" json:"gpa"`
	TotalUnits   int           `db:"total_units" json:"total_units"`
	TotalPoints  float64       `db:"total_points" json:"total_points"`
	Courses      CourseRecords `db:"courses" json:"courses"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// Result rebuilds the engine view of the record for folding.
func (r SemesterRecord) Result() gpa.SemesterResult {
	return gpa.SemesterResult{Scale: r.Scale, TotalUnits: r.TotalUnits, TotalPoints: r.TotalPoints}
}

// CourseRecord is a single saved course line.
type CourseRecord struct {
	Title  string     `json:"title"`
	Grade  gpa.Letter `json:"grade"`
	Units  int        `json:"units"`
	Points float64    `json:"points"`
	Score  *float64   `json:"score,omitempty"`
}

// CourseRecords is persisted as JSONB.
type CourseRecords []CourseRecord

// Value marshals courses to JSON for persistence.
func (c CourseRecords) Value() (driver.Value, error) {
	if c == nil {
		c = CourseRecords{}
	}
	data, err := json.Marshal([]CourseRecord(c))
	if err != nil {
		return nil, fmt.Errorf("marshal course records: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the course list.
func (c *CourseRecords) Scan(value interface{}) error {
	if value == nil {
		*c = CourseRecords{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for CourseRecords", value)
	}
	if len(data) == 0 {
		*c = CourseRecords{}
		return nil
	}
	var out []CourseRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal course records: %w", err)
	}
	*c = out
	return nil
}

// RecordFilter scopes record listing.
type RecordFilter struct {
	UserID       string
	AcademicYear string
	Page         int
	PageSize     int
}

// CGPASummary is the fold of every saved record for a user. CGPA is nil when
// the user has no units on record.
type CGPASummary struct {
	UserID        string                `json:"user_id"`
	Scale         gpa.Scale             `json:"scale"`
	CGPA          *float64              `json:"cgpa"`
	NoData        bool                  `json:"no_data"`
	TotalUnits    int                   `json:"total_units"`
	TotalPoints   float64               `json:"total_points"`
	SemesterCount int                   `json:"semester_count"`
	MixedScales   []gpa.Scale           `json:"mixed_scales,omitempty"`
	Semesters     []SemesterSummaryLine `json:"semesters"`
	ComputedAt    time.Time             `json:"computed_at"`
}

// SemesterSummaryLine is one row of the running CGPA.
type SemesterSummaryLine struct {
	RecordID       string   `json:"record_id"`
	AcademicYear   string   `json:"academic_year"`
	SemesterName   string   `json:"semester_name"`
	GPA            *float64 `json:"gpa"`
	TotalUnits     int      `json:"total_units"`
	CumulativeCGPA *float64 `json:"cumulative_cgpa"`
}
