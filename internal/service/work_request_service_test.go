package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

func newWorkRequestService(t *testing.T) (*WorkRequestService, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	return NewWorkRequestService(s, nil, NewMetricsService(), nil), s
}

func TestWorkRequestCreate(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	programID := seedProgram(t, s, "Facilities")

	created, err := svc.Create(ctx, dto.CreateWorkRequestRequest{
		Description:   "Replace projector bulb",
		RequestorName: "M. Chen",
		Priority:      models.PriorityHigh,
		ProgramID:     models.Int64Ptr(programID),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNewRequest, created.Status)
	assert.Equal(t, "2025-03-10", created.SubmittedDate.String())
	assert.Nil(t, created.DueDate)

	sink, err := svc.Create(ctx, dto.CreateWorkRequestRequest{
		Description:   "Fix sink",
		RequestorName: "A. Lee",
		Priority:      models.PriorityMedium,
		ProgramID:     models.Int64Ptr(programID),
	})
	require.NoError(t, err)

	columns := board.Kanban(s.Snapshot().WorkRequests, s.Today(), board.SortByPriority)
	require.Equal(t, board.ColumnNewRecent, columns[0].Column)
	assert.Contains(t, requestIDs(columns[0].Requests), sink.ID)
	for _, column := range columns[1:] {
		assert.NotContains(t, requestIDs(column.Requests), sink.ID, column.Column)
	}

	rows, err := svc.List(ctx, dto.WorkRequestListQuery{})
	require.NoError(t, err)
	listed := make([]int64, 0, len(rows))
	for _, row := range rows {
		listed = append(listed, row.ID)
	}
	assert.Contains(t, listed, sink.ID)
	assert.Contains(t, listed, created.ID)

	_, err = svc.Create(ctx, dto.CreateWorkRequestRequest{Description: "x", RequestorName: "y", Priority: "Urgent"})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))

	_, err = svc.Create(ctx, dto.CreateWorkRequestRequest{Description: "x", RequestorName: "y", Priority: models.PriorityLow, ProgramID: models.Int64Ptr(999)})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
}

func TestWorkRequestMoveCommitsPlainTransition(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	id := seedRequest(t, s, "Fix door", models.PriorityMedium, nil, nil)

	resp, err := svc.Move(ctx, id, dto.MoveRequest{Column: "Completed"})
	require.NoError(t, err)
	assert.Equal(t, dto.MoveCommitted, resp.Outcome)
	assert.Nil(t, resp.Modal)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Nil(t, s.ActiveModal())
}

func TestWorkRequestMoveWithinNewBucketsIsNoOp(t *testing.T) {
	svc, s := newWorkRequestService(t)
	id := seedRequest(t, s, "Fix door", models.PriorityMedium, nil, nil)
	before := s.Snapshot().Version

	resp, err := svc.Move(context.Background(), id, dto.MoveRequest{Column: "new_15_plus"})
	require.NoError(t, err)
	assert.Equal(t, dto.MoveNoOp, resp.Outcome)
	assert.Equal(t, before, s.Snapshot().Version)
}

func TestWorkRequestMoveToInProgressNeedsDueDate(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	id := seedRequest(t, s, "Install ramp", models.PriorityHigh, nil, nil)

	resp, err := svc.Move(ctx, id, dto.MoveRequest{Column: "In Progress"})
	require.NoError(t, err)
	assert.Equal(t, dto.MovePending, resp.Outcome)
	assert.Equal(t, models.StatusNewRequest, resp.Status)
	require.NotNil(t, resp.Modal)
	assert.Equal(t, string(store.ModalPendingInProgressTransition), resp.Modal.Kind)
	require.NotNil(t, resp.Modal.Request)
	assert.Equal(t, id, resp.Modal.Request.ID)

	got, _ := svc.Get(ctx, id)
	assert.Equal(t, models.StatusNewRequest, got.Status)

	_, err = svc.SubmitTransition(ctx, dto.SubmitTransitionRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
	assert.NotNil(t, s.ActiveModal())

	due := models.NewDate(2025, 3, 20)
	description := "Install ramp at east entrance"
	updated, err := svc.SubmitTransition(ctx, dto.SubmitTransitionRequest{DueDate: &due, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2025-03-20", updated.DueDate.String())
	assert.Equal(t, description, updated.Description)
	assert.Equal(t, "2025-03-10", updated.SubmittedDate.String())
	assert.Nil(t, s.ActiveModal())
}

func TestWorkRequestSubmitTransitionRejectsStaleModal(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	id := seedRequest(t, s, "Install ramp", models.PriorityHigh, nil, nil)

	resp, err := svc.Move(ctx, id, dto.MoveRequest{Column: "In Progress"})
	require.NoError(t, err)
	require.Equal(t, dto.MovePending, resp.Outcome)

	_, err = svc.UpdateStatus(ctx, id, dto.UpdateStatusRequest{Status: models.StatusCompleted})
	require.NoError(t, err)

	due := models.NewDate(2025, 3, 20)
	_, err = svc.SubmitTransition(ctx, dto.SubmitTransitionRequest{DueDate: &due})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(err))
	assert.Nil(t, s.ActiveModal())

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Nil(t, got.DueDate)
}

func TestWorkRequestMoveToOnHoldKeepsDescriptionWhenBlank(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	id := seedRequest(t, s, "Order chairs", models.PriorityLow, nil, nil)
	_, err := svc.UpdateStatus(ctx, id, dto.UpdateStatusRequest{Status: models.StatusInProgress})
	require.NoError(t, err)

	resp, err := svc.Move(ctx, id, dto.MoveRequest{Column: "on_hold"})
	require.NoError(t, err)
	assert.Equal(t, dto.MovePending, resp.Outcome)
	assert.Equal(t, string(store.ModalPendingHoldTransition), resp.Modal.Kind)

	blank := "   "
	updated, err := svc.SubmitTransition(ctx, dto.SubmitTransitionRequest{Description: &blank})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnHold, updated.Status)
	assert.Equal(t, "Order chairs", updated.Description)
}

func TestWorkRequestCancelTransitionPersistsNothing(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	id := seedRequest(t, s, "Paint hallway", models.PriorityMedium, nil, nil)

	_, err := svc.Move(ctx, id, dto.MoveRequest{Column: "On Hold"})
	require.NoError(t, err)
	version := s.Snapshot().Version

	svc.CancelTransition(ctx)
	assert.Nil(t, s.ActiveModal())
	assert.Equal(t, version, s.Snapshot().Version)
	got, _ := svc.Get(ctx, id)
	assert.Equal(t, models.StatusNewRequest, got.Status)

	_, err = svc.SubmitTransition(ctx, dto.SubmitTransitionRequest{})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(err))
}

func TestWorkRequestMoveRejectsUnknownColumn(t *testing.T) {
	svc, s := newWorkRequestService(t)
	id := seedRequest(t, s, "Paint hallway", models.PriorityMedium, nil, nil)

	_, err := svc.Move(context.Background(), id, dto.MoveRequest{Column: "Archived"})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))

	_, err = svc.Move(context.Background(), 4040, dto.MoveRequest{Column: "Completed"})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))
}

func TestWorkRequestDeleteClosesPendingModal(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	id := seedRequest(t, s, "Fix heater", models.PriorityHigh, nil, nil)

	_, err := svc.Move(ctx, id, dto.MoveRequest{Column: "In Progress"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	assert.Nil(t, s.ActiveModal())

	_, err = svc.Get(ctx, id)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))
}

func TestWorkRequestUpdateWritesAllFields(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	programID := seedProgram(t, s, "Transport")
	schoolID := seedSchool(t, s, programID, "Adams")
	id := seedRequest(t, s, "Bus schedule", models.PriorityLow, nil, nil)

	due := models.NewDate(2025, 4, 1)
	room := "Room 12"
	updated, err := svc.Update(ctx, id, dto.UpdateWorkRequestRequest{
		Description:   "Bus schedule for spring",
		RequestorName: "K. Patel",
		Priority:      models.PriorityHigh,
		Status:        models.StatusInProgress,
		ProgramID:     models.Int64Ptr(programID),
		SchoolID:      models.Int64Ptr(schoolID),
		Classroom:     &room,
		DueDate:       &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bus schedule for spring", updated.Description)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, schoolID, *updated.SchoolID)
	assert.Equal(t, "Room 12", *updated.Classroom)
	assert.Equal(t, "2025-04-01", updated.DueDate.String())
}

func TestWorkRequestListScopesByProgram(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	facilities := seedProgram(t, s, "Facilities")
	transport := seedProgram(t, s, "Student Transport")
	school := seedSchool(t, s, facilities, "Lincoln")
	seedRequest(t, s, "Leaky roof", models.PriorityHigh, models.Int64Ptr(facilities), nil)
	seedRequest(t, s, "Broken window", models.PriorityLow, models.Int64Ptr(facilities), models.Int64Ptr(school))
	seedRequest(t, s, "Bus route", models.PriorityMedium, models.Int64Ptr(transport), nil)

	rows, err := svc.List(ctx, dto.WorkRequestListQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = svc.List(ctx, dto.WorkRequestListQuery{Program: "facilities", SortBy: "priority", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, "Bus route", row.Description)
	}

	rows, err = svc.List(ctx, dto.WorkRequestListQuery{Program: "student-transport"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Student Transport", rows[0].ProgramName)

	rows, err = svc.List(ctx, dto.WorkRequestListQuery{Program: "unknown"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.List(ctx, dto.WorkRequestListQuery{SortBy: "color"})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
}

func TestWorkRequestListTreatsAllAsNoFilter(t *testing.T) {
	svc, s := newWorkRequestService(t)
	ctx := context.Background()
	programID := seedProgram(t, s, "Facilities")
	school := seedSchool(t, s, programID, "Lincoln")
	seedRequest(t, s, "Leaky roof", models.PriorityHigh, models.Int64Ptr(programID), models.Int64Ptr(school))
	seedRequest(t, s, "Bus route", models.PriorityLow, nil, nil)
	done := seedRequest(t, s, "Paint fence", models.PriorityMedium, nil, nil)
	_, err := svc.UpdateStatus(ctx, done, dto.UpdateStatusRequest{Status: models.StatusCompleted})
	require.NoError(t, err)

	rows, err := svc.List(ctx, dto.WorkRequestListQuery{Status: "All", Priority: "all", SchoolID: "ALL"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = svc.List(ctx, dto.WorkRequestListQuery{Status: "All", SchoolID: strconv.FormatInt(school, 10)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Leaky roof", rows[0].Description)

	rows, err = svc.List(ctx, dto.WorkRequestListQuery{Status: string(models.StatusCompleted), Priority: "All"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, done, rows[0].ID)
}

func TestWorkRequestListRejectsUnknownFilterValues(t *testing.T) {
	svc, _ := newWorkRequestService(t)
	ctx := context.Background()

	for _, query := range []dto.WorkRequestListQuery{
		{Status: "Bogus"},
		{Priority: "Urgent"},
		{SchoolID: "x"},
		{SchoolID: "-3"},
	} {
		_, err := svc.List(ctx, query)
		assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err), "%+v", query)
	}
}

func requestIDs(requests []models.WorkRequest) []int64 {
	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	return ids
}
