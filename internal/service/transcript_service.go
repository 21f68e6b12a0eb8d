package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cgpa-planner-api/internal/dto"
	"github.com/noah-isme/cgpa-planner-api/internal/models"
	appErrors "github.com/noah-isme/cgpa-planner-api/pkg/errors"
	"github.com/noah-isme/cgpa-planner-api/pkg/export"
)

const (
	colYear     = "Academic Year"
	colSemester = "Semester"
	colCourse   = "Course"
	colScore    = "Score"
	colGrade    = "Grade"
	colUnits    = "Units"
	colPoints   = "Grade Point"
)

var transcriptHeaders = []string{colYear, colSemester, colCourse, colScore, colGrade, colUnits, colPoints}

type historyProvider interface {
	History(ctx context.Context, userID, scale string) ([]models.SemesterRecord, *models.CGPASummary, error)
}

// Transcript is a rendered transcript document.
type Transcript struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// TranscriptService renders a user's saved history as CSV or PDF.
type TranscriptService struct {
	history   historyProvider
	precision int
	logger    *zap.Logger
	now       func() time.Time
}

// NewTranscriptService constructs the transcript renderer.
func NewTranscriptService(history historyProvider, precision int, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if precision != 3 {
		precision = 2
	}
	return &TranscriptService{history: history, precision: precision, logger: logger, now: time.Now}
}

// Render builds the transcript for the user in the requested format.
func (s *TranscriptService) Render(ctx context.Context, userID string, query dto.TranscriptQuery) (*Transcript, error) {
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, err.Error())
	}
	records, summary, err := s.history.History(ctx, userID, query.Scale)
	if err != nil {
		return nil, err
	}
	if summary.NoData {
		return nil, appErrors.Clone(appErrors.ErrNoGPAData, "no saved semesters on the "+string(summary.Scale)+" scale")
	}

	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, err.Error())
	}
	payload, err := renderer.Render(s.buildDataset(records, summary))
	if err != nil {
		s.logger.Error("render transcript", zap.String("user_id", userID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}

	return &Transcript{
		Filename:    s.buildFilename(userID, format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *TranscriptService) buildDataset(records []models.SemesterRecord, summary *models.CGPASummary) export.Dataset {
	gpaBySemester := make(map[string]*float64, len(summary.Semesters))
	for _, line := range summary.Semesters {
		gpaBySemester[line.RecordID] = line.GPA
	}

	data := export.Dataset{
		Title: "Academic Transcript",
		Notes: []string{
			"Student: " + summary.UserID,
			"Scale: " + string(summary.Scale),
			"Generated: " + s.now().UTC().Format(time.RFC3339),
		},
		Headers: transcriptHeaders,
		Weights: []float64{1.2, 1.2, 2.4, 0.8, 0.8, 0.8, 1},
	}
	for _, record := range records {
		semesterGPA, ok := gpaBySemester[record.ID]
		if !ok {
			continue
		}
		for _, course := range record.Courses {
			row := map[string]string{
				colYear:     record.AcademicYear,
				colSemester: record.SemesterName,
				colCourse:   course.Title,
				colGrade:    string(course.Grade),
				colUnits:    strconv.Itoa(course.Units),
				colPoints:   s.format(course.Points),
			}
			if course.Score != nil {
				row[colScore] = strconv.FormatFloat(*course.Score, 'f', -1, 64)
			}
			data.Rows = append(data.Rows, row)
		}
		data.Rows = append(data.Rows, map[string]string{
			colYear:     record.AcademicYear,
			colSemester: record.SemesterName,
			colCourse:   "Semester GPA",
			colUnits:    strconv.Itoa(record.TotalUnits),
			colPoints:   s.formatPtr(semesterGPA),
		})
	}
	data.Footer = []map[string]string{{
		colCourse: "CGPA",
		colUnits:  strconv.Itoa(summary.TotalUnits),
		colPoints: s.formatPtr(summary.CGPA),
	}}
	return data
}

func (s *TranscriptService) format(v float64) string {
	return strconv.FormatFloat(v, 'f', s.precision, 64)
}

func (s *TranscriptService) formatPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return s.format(*v)
}

func (s *TranscriptService) buildFilename(userID string, format export.Format) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("transcript_%s_%s.%s", sanitizeFilename(userID), timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
