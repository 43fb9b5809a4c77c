package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

const classroomsTable = "classrooms"

var classroomColumns = columnSet("name", "school_id")

// ClassroomRepository manages persistence for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a new classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// ListAll returns every classroom ordered by name.
func (r *ClassroomRepository) ListAll(ctx context.Context) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, "SELECT id, name, school_id FROM classrooms ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// Insert stores a new classroom.
func (r *ClassroomRepository) Insert(ctx context.Context, classroom models.Classroom) (int64, error) {
	return insertReturningID(ctx, r.db, classroomsTable,
		[]string{"name", "school_id"},
		[]interface{}{strings.TrimSpace(classroom.Name), classroom.SchoolID},
	)
}

// Update writes the given columns of a classroom.
func (r *ClassroomRepository) Update(ctx context.Context, id int64, fields Fields) error {
	return updateByID(ctx, r.db, classroomsTable, classroomColumns, id, fields)
}

// Delete removes a classroom.
func (r *ClassroomRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, classroomsTable, id)
}

// ClassroomFields maps a classroom to the columns written on update. Only the name is editable.
func ClassroomFields(classroom models.Classroom) Fields {
	return Fields{"name": strings.TrimSpace(classroom.Name)}
}
