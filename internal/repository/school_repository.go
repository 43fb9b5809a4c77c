package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

const schoolsTable = "schools"

var schoolColumns = columnSet("name", "address", "contact", "program_id")

// SchoolRepository manages persistence for schools.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a new school repository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// ListAll returns every school ordered by name.
func (r *SchoolRepository) ListAll(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, "SELECT id, name, address, contact, program_id FROM schools ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// Insert stores a new school. Missing address and contact default to the N/A placeholder.
func (r *SchoolRepository) Insert(ctx context.Context, school models.School) (int64, error) {
	address := strings.TrimSpace(school.Address)
	if address == "" {
		address = models.PlaceholderValue
	}
	contact := strings.TrimSpace(school.Contact)
	if contact == "" {
		contact = models.PlaceholderValue
	}
	return insertReturningID(ctx, r.db, schoolsTable,
		[]string{"name", "address", "contact", "program_id"},
		[]interface{}{strings.TrimSpace(school.Name), address, contact, school.ProgramID},
	)
}

// Update writes the given columns of a school.
func (r *SchoolRepository) Update(ctx context.Context, id int64, fields Fields) error {
	return updateByID(ctx, r.db, schoolsTable, schoolColumns, id, fields)
}

// Delete removes a school.
func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, schoolsTable, id)
}

// CountReferences returns how many classrooms and work requests point at the school.
func (r *SchoolRepository) CountReferences(ctx context.Context, id int64) (classrooms int, requests int, err error) {
	if err = r.db.GetContext(ctx, &classrooms, r.db.Rebind("SELECT COUNT(*) FROM classrooms WHERE school_id = ?"), id); err != nil {
		return 0, 0, fmt.Errorf("count school classrooms: %w", err)
	}
	if err = r.db.GetContext(ctx, &requests, r.db.Rebind("SELECT COUNT(*) FROM work_requests WHERE school_id = ?"), id); err != nil {
		return 0, 0, fmt.Errorf("count school work requests: %w", err)
	}
	return classrooms, requests, nil
}

// SchoolFields maps a school to the columns written on update. Only the name is editable.
func SchoolFields(school models.School) Fields {
	return Fields{"name": strings.TrimSpace(school.Name)}
}
