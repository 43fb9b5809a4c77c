package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/program-workboard-api/internal/models"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

var fixedNow = time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *memoryDB) {
	t.Helper()
	db := newMemoryDB()
	s := New(db.gateways(), Options{Clock: func() time.Time { return fixedNow }})
	require.NoError(t, s.Reload(context.Background()))
	return s, db
}

func appCode(err error) string {
	return appErrors.FromError(err).Code
}

func TestCreateWorkRequestDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	programID, err := s.CreateProgram(ctx, "Facilities")
	require.NoError(t, err)

	id, err := s.CreateWorkRequest(ctx, NewWorkRequest{
		Description:   "Fix sink",
		RequestorName: "A. Lee",
		Priority:      models.PriorityMedium,
		ProgramID:     models.Int64Ptr(programID),
	})
	require.NoError(t, err)

	got, ok := s.Snapshot().WorkRequestByID(id)
	require.True(t, ok)
	assert.Equal(t, models.StatusNewRequest, got.Status)
	assert.Equal(t, "2025-03-01", got.SubmittedDate.String())
	assert.Nil(t, got.DueDate)
	assert.Nil(t, got.SchoolID)
	assert.Equal(t, s.Today(), got.SubmittedDate)
}

func TestCreateWorkRequestValidation(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input NewWorkRequest
	}{
		{"missing description", NewWorkRequest{RequestorName: "A", Priority: models.PriorityLow}},
		{"blank requestor", NewWorkRequest{Description: "x", RequestorName: "  ", Priority: models.PriorityLow}},
		{"missing priority", NewWorkRequest{Description: "x", RequestorName: "A"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateWorkRequest(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appCode(err))
		})
	}
	assert.Equal(t, 0, db.writes)
}

func TestUpdateSchoolWritesNameOnly(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	programID, err := s.CreateProgram(ctx, "Facilities")
	require.NoError(t, err)
	schoolID, err := s.CreateSchool(ctx, models.School{Name: "Lincoln", ProgramID: programID})
	require.NoError(t, err)

	school, ok := s.Snapshot().SchoolByID(schoolID)
	require.True(t, ok)
	assert.Equal(t, models.PlaceholderValue, school.Address)

	require.NoError(t, s.UpdateSchool(ctx, models.School{ID: schoolID, Name: "Lincoln Elementary", Address: "1 Main St"}))
	school, _ = s.Snapshot().SchoolByID(schoolID)
	assert.Equal(t, "Lincoln Elementary", school.Name)
	assert.Equal(t, models.PlaceholderValue, school.Address)
}

func TestCreateSchoolRequiresProgram(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.CreateSchool(context.Background(), models.School{Name: "Orphan", ProgramID: 99})
	assert.Equal(t, appErrors.ErrValidation.Code, appCode(err))
}

func TestDeleteSchoolRejectedWhileReferenced(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	programID, _ := s.CreateProgram(ctx, "Facilities")
	schoolID, err := s.CreateSchool(ctx, models.School{Name: "Lincoln", ProgramID: programID})
	require.NoError(t, err)
	classroomID, err := s.CreateClassroom(ctx, models.Classroom{Name: "Room 1", SchoolID: schoolID})
	require.NoError(t, err)

	err = s.DeleteSchool(ctx, schoolID)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appCode(err))
	_, ok := s.Snapshot().SchoolByID(schoolID)
	assert.True(t, ok)

	require.NoError(t, s.DeleteClassroom(ctx, classroomID))
	require.NoError(t, s.DeleteSchool(ctx, schoolID))
	_, ok = s.Snapshot().SchoolByID(schoolID)
	assert.False(t, ok)
}

func TestMutationFailureKeepsSnapshot(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateProgram(ctx, "Facilities")
	require.NoError(t, err)
	before := s.Snapshot()

	db.writeErr = errors.New("connection reset")
	_, err = s.CreateProgram(ctx, "Transport")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appCode(err))
	assert.Same(t, before, s.Snapshot())
}

func TestReloadFailureKeepsLastGoodSnapshot(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateProgram(ctx, "Facilities")
	require.NoError(t, err)
	before := s.Snapshot()

	db.listErr = errors.New("timeout")
	err = s.Reload(ctx)
	require.Error(t, err)
	assert.Same(t, before, s.Snapshot())
	assert.Len(t, s.Snapshot().Programs, 1)
}

func TestCommittedWriteWithFailedReloadIsRefreshFailed(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateProgram(ctx, "Facilities")
	require.NoError(t, err)
	before := s.Snapshot()

	db.listErr = errors.New("timeout")
	id, err := s.CreateProgram(ctx, "Transport")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRefreshFailed.Code, appCode(err))
	assert.NotEqual(t, appErrors.ErrInternal.Code, appCode(err))
	assert.NotZero(t, id)
	assert.Len(t, db.programs, 2)
	assert.Same(t, before, s.Snapshot())

	db.listErr = nil
	require.NoError(t, s.Reload(ctx))
	assert.Len(t, s.Snapshot().Programs, 2)
}

func TestUpdateMissingRequestIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.UpdateWorkRequestStatus(context.Background(), 404, models.StatusCompleted)
	assert.Equal(t, appErrors.ErrNotFound.Code, appCode(err))
}

func TestStaleReloadIsDiscarded(t *testing.T) {
	db := newMemoryDB()
	s := New(db.gateways(), Options{})

	entered := make(chan struct{})
	release := make(chan struct{})
	db.onListAll = func(call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background()) }()
	<-entered

	db.mu.Lock()
	db.programs[1] = models.Program{ID: 1, Name: "Facilities"}
	db.mu.Unlock()
	require.NoError(t, s.Reload(context.Background()))
	installed := s.Snapshot()
	assert.Equal(t, uint64(2), installed.Version)

	db.mu.Lock()
	db.programs[2] = models.Program{ID: 2, Name: "Transport"}
	db.mu.Unlock()
	close(release)
	require.NoError(t, <-done)

	assert.Same(t, installed, s.Snapshot())
	assert.Len(t, s.Snapshot().Programs, 1)
}

func TestOnReloadHookReceivesSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	var versions []uint64
	s.OnReload(func(ctx context.Context, snap *Snapshot) {
		versions = append(versions, snap.Version)
	})

	_, err := s.CreateProgram(context.Background(), "Facilities")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, s.Snapshot().Version, versions[0])
}

func TestUIState(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, ZoomMedium, s.UI().Zoom)
	assert.Nil(t, s.ActiveModal())

	require.NoError(t, s.SetZoom(ZoomLarge))
	assert.Error(t, s.SetZoom(Zoom("xl")))
	s.SetSidebarCollapsed(true)

	s.OpenModal(PendingHoldTransition{RequestID: 4})
	ui := s.UI()
	assert.True(t, ui.SidebarCollapsed)
	assert.Equal(t, ZoomLarge, ui.Zoom)
	id, ok := PendingTransitionRequestID(ui.Modal)
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)

	s.OpenModal(EditingProgram{Program: models.Program{ID: 1}})
	_, ok = PendingTransitionRequestID(s.ActiveModal())
	assert.False(t, ok)
	assert.Equal(t, ModalEditingProgram, s.ActiveModal().Kind())

	s.CloseModal()
	assert.Nil(t, s.ActiveModal())
}

func TestSnapshotLookups(t *testing.T) {
	snap := &Snapshot{
		Programs:   []models.Program{{ID: 1, Name: "Assistive Technology"}},
		Schools:    []models.School{{ID: 10, Name: "Lincoln", ProgramID: 1}, {ID: 11, Name: "Adams", ProgramID: 2}},
		Classrooms: []models.Classroom{{ID: 100, Name: "Room 1", SchoolID: 10}},
	}

	p, ok := snap.ProgramBySlug("assistive-technology")
	require.True(t, ok)
	assert.Equal(t, int64(1), p.ID)
	_, ok = snap.ProgramBySlug("missing")
	assert.False(t, ok)

	assert.Len(t, snap.SchoolsByProgramID(1), 1)
	assert.Len(t, snap.ClassroomsBySchoolID(10), 1)
	assert.Empty(t, snap.ClassroomsBySchoolID(11))
	_, ok = snap.SchoolByID(99)
	assert.False(t, ok)
}
