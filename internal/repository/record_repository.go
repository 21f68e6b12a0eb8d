package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cgpa-planner-api/internal/models"
)

const recordColumns = "id, user_id, academic_year, semester_name, scale, gpa, total_units, total_points, courses, created_at"

// RecordRepository persists saved semester records. Rows are append-only.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs the repository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts a record, generating its identifier and timestamp when absent.
func (r *RecordRepository) Create(ctx context.Context, record *models.SemesterRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO semester_records (id, user_id, academic_year, semester_name, scale, gpa, total_units, total_points, courses, created_at)
VALUES (:id, :user_id, :academic_year, :semester_name, :scale, :gpa, :total_units, :total_points, :courses, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create semester record: %w", err)
	}
	return nil
}

// FindByID loads a record owned by the user.
func (r *RecordRepository) FindByID(ctx context.Context, userID, id string) (*models.SemesterRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM semester_records WHERE id = $1 AND user_id = $2", recordColumns)
	var record models.SemesterRecord
	if err := r.db.GetContext(ctx, &record, query, id, userID); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns a page of records for a user, oldest first, with the total count.
func (r *RecordRepository) List(ctx context.Context, filter models.RecordFilter) ([]models.SemesterRecord, int, error) {
	base := "FROM semester_records WHERE user_id = $1"
	args := []interface{}{filter.UserID}
	if filter.AcademicYear != "" {
		base += fmt.Sprintf(" AND academic_year = $%d", len(args)+1)
		args = append(args, filter.AcademicYear)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC LIMIT %d OFFSET %d", recordColumns, base, size, offset)
	var records []models.SemesterRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list semester records: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count semester records: %w", err)
	}
	return records, total, nil
}

// ListAll returns every record for a user in the order they were saved.
func (r *RecordRepository) ListAll(ctx context.Context, userID string) ([]models.SemesterRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM semester_records WHERE user_id = $1 ORDER BY created_at ASC", recordColumns)
	var records []models.SemesterRecord
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("list all semester records: %w", err)
	}
	return records, nil
}
