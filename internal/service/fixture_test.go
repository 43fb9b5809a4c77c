package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/repository"
	"github.com/noah-isme/program-workboard-api/internal/store"
	"github.com/noah-isme/program-workboard-api/pkg/config"
	"github.com/noah-isme/program-workboard-api/pkg/database"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestStore returns a store over a private in-memory SQLite database.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.New(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.EnsureSchema(context.Background(), db))

	s := store.New(store.Gateways{
		Programs:     repository.NewProgramRepository(db),
		Schools:      repository.NewSchoolRepository(db),
		Classrooms:   repository.NewClassroomRepository(db),
		WorkRequests: repository.NewWorkRequestRepository(db),
	}, store.Options{Clock: func() time.Time { return testNow }})
	require.NoError(t, s.Reload(context.Background()))
	return s
}

func seedProgram(t *testing.T, s *store.Store, name string) int64 {
	t.Helper()
	id, err := s.CreateProgram(context.Background(), name)
	require.NoError(t, err)
	return id
}

func seedSchool(t *testing.T, s *store.Store, programID int64, name string) int64 {
	t.Helper()
	id, err := s.CreateSchool(context.Background(), models.School{Name: name, ProgramID: programID})
	require.NoError(t, err)
	return id
}

func seedRequest(t *testing.T, s *store.Store, description string, priority models.Priority, programID, schoolID *int64) int64 {
	t.Helper()
	id, err := s.CreateWorkRequest(context.Background(), store.NewWorkRequest{
		Description:   description,
		RequestorName: "J. Ortiz",
		Priority:      priority,
		ProgramID:     programID,
		SchoolID:      schoolID,
	})
	require.NoError(t, err)
	return id
}

func errorCode(err error) string {
	return appErrors.FromError(err).Code
}
