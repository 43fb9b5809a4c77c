package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS programs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schools (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT 'N/A',
		contact TEXT NOT NULL DEFAULT 'N/A',
		program_id INTEGER NOT NULL REFERENCES programs(id)
	)`,
	`CREATE TABLE IF NOT EXISTS classrooms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		school_id INTEGER NOT NULL REFERENCES schools(id)
	)`,
	`CREATE TABLE IF NOT EXISTS work_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		requestor_name TEXT NOT NULL,
		submitted_date TEXT NOT NULL,
		priority TEXT NOT NULL,
		status TEXT NOT NULL,
		school_id INTEGER REFERENCES schools(id),
		program_id INTEGER REFERENCES programs(id),
		classroom TEXT,
		due_date TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_requests_submitted ON work_requests(submitted_date)`,
}

// EnsureSchema creates the four gateway tables on an embedded SQLite database.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
