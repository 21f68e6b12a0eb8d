package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS semester_records (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	academic_year TEXT NOT NULL,
	semester_name TEXT NOT NULL,
	scale TEXT NOT NULL,
	gpa DOUBLE PRECISION NOT NULL,
	total_units INTEGER NOT NULL CHECK (total_units > 0),
	total_points DOUBLE PRECISION NOT NULL CHECK (total_points >= 0),
	courses JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_semester_records_user_created ON semester_records (user_id, created_at)`,
}

// EnsureSchema creates the record store tables when they are missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
