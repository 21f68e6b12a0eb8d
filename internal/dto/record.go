package dto

import "github.com/noah-isme/cgpa-planner-api/internal/models"

// SaveRecordRequest computes and stores one semester for a user.
type SaveRecordRequest struct {
	AcademicYear string        `json:"academicYear" validate:"required,max=20"`
	SemesterName string        `json:"semesterName" validate:"required,max=60"`
	Scale        string        `json:"scale"`
	Mode         string        `json:"mode" validate:"omitempty,oneof=grade score"`
	Courses      []CourseInput `json:"courses" validate:"required,min=1,max=40,dive"`
}

// ListRecordsQuery filters the record listing.
type ListRecordsQuery struct {
	AcademicYear string `form:"academicYear" validate:"max=20"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// SummaryQuery selects the scale a summary is folded on.
type SummaryQuery struct {
	Scale string `form:"scale"`
}

// TranscriptQuery selects the transcript scale and format.
type TranscriptQuery struct {
	Scale  string `form:"scale"`
	Format string `form:"format"`
}

// SavedRecord is returned after saving, including any skipped course lines.
type SavedRecord struct {
	Record   *models.SemesterRecord `json:"record"`
	Rejected []RejectedCourse       `json:"rejected"`
}
