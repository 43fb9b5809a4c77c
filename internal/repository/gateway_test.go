package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

func newGatewayMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, driver), mock, func() { db.Close() }
}

func TestProgramRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t, "sqlmock")
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM programs ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Assistive Technology").AddRow(2, "Facilities"))

	programs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, "assistive-technology", programs[0].Slug())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryInsertRebindsForPostgres(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t, "postgres")
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO programs (name) VALUES ($1) RETURNING id")).
		WithArgs("Facilities").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := repo.Insert(context.Background(), models.Program{Name: "  Facilities "})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryInsertDefaultsPlaceholders(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t, "sqlmock")
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO schools (name, address, contact, program_id) VALUES (?, ?, ?, ?) RETURNING id")).
		WithArgs("Lincoln Elementary", models.PlaceholderValue, models.PlaceholderValue, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := repo.Insert(context.Background(), models.School{Name: "Lincoln Elementary", ProgramID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryCountReferences(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t, "sqlmock")
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM classrooms WHERE school_id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM work_requests WHERE school_id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	classrooms, requests, err := repo.CountReferences(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, classrooms)
	assert.Equal(t, 0, requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsUnknownColumns(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t, "sqlmock")
	defer cleanup()
	repo := NewSchoolRepository(db)

	err := repo.Update(context.Background(), 1, Fields{"principal": "x"})
	var unknown *ErrUnknownColumn
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "principal", unknown.Column)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryUpdateNameOnly(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t, "sqlmock")
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classrooms SET name = ? WHERE id = ?")).
		WithArgs("Room 12", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), 4, ClassroomFields(models.Classroom{Name: "Room 12", SchoolID: 99})))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRowReturnsNoRows(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t, "sqlmock")
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classrooms WHERE id = ?")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
