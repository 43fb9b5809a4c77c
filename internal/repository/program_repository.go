package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

const programsTable = "programs"

var programColumns = columnSet("name")

// ProgramRepository manages persistence for programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a new program repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// ListAll returns every program ordered by name.
func (r *ProgramRepository) ListAll(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, "SELECT id, name FROM programs ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Insert stores a new program and returns its id.
func (r *ProgramRepository) Insert(ctx context.Context, program models.Program) (int64, error) {
	return insertReturningID(ctx, r.db, programsTable, []string{"name"}, []interface{}{strings.TrimSpace(program.Name)})
}

// Update writes the given columns of a program.
func (r *ProgramRepository) Update(ctx context.Context, id int64, fields Fields) error {
	return updateByID(ctx, r.db, programsTable, programColumns, id, fields)
}

// Delete removes a program.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, programsTable, id)
}

// ProgramFields maps a program to the columns written on update. Only the name is editable.
func ProgramFields(program models.Program) Fields {
	return Fields{"name": strings.TrimSpace(program.Name)}
}
