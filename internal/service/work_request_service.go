package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/lifecycle"
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

type workRequestStore interface {
	snapshotReader
	CreateWorkRequest(ctx context.Context, input store.NewWorkRequest) (int64, error)
	UpdateWorkRequest(ctx context.Context, request models.WorkRequest) error
	UpdateWorkRequestStatus(ctx context.Context, id int64, status models.Status) error
	DeleteWorkRequest(ctx context.Context, id int64) error
	OpenModal(m store.Modal)
	CloseModal()
	ActiveModal() store.Modal
}

// WorkRequestService handles work request edits, the list view and guided board moves.
type WorkRequestService struct {
	store     workRequestStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewWorkRequestService constructs the service.
func NewWorkRequestService(store workRequestStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *WorkRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkRequestService{store: store, validator: domainValidator(validate), metrics: metrics, logger: logger}
}

// List returns the filtered and sorted list view, scoped to a program when query.Program is
// set. An unknown program slug yields an empty list.
func (s *WorkRequestService) List(ctx context.Context, query dto.WorkRequestListQuery) ([]dto.WorkRequestRow, error) {
	filter, err := query.Filter()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return listRows(s.store.Snapshot(), query.Program, filter)
}

func listRows(snap *store.Snapshot, programSlug string, filter models.WorkRequestFilter) ([]dto.WorkRequestRow, error) {
	scoped, _ := board.ScopeToProgram(snap, programSlug)
	dir := board.NewDirectory(snap.Programs, snap.Schools)
	requests, err := board.ListView(scoped, dir, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	rows := make([]dto.WorkRequestRow, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, dto.WorkRequestRow{
			WorkRequest: r,
			ProgramName: dir.ProgramName(r.ProgramID),
			SchoolName:  dir.SchoolName(r.SchoolID),
		})
	}
	return rows, nil
}

// Get returns one request.
func (s *WorkRequestService) Get(ctx context.Context, id int64) (*models.WorkRequest, error) {
	request, ok := s.store.Snapshot().WorkRequestByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "work request not found")
	}
	return &request, nil
}

// Create inserts a New Request submitted today.
func (s *WorkRequestService) Create(ctx context.Context, req dto.CreateWorkRequestRequest) (*models.WorkRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid work request payload")
	}
	if err := s.checkReferences(req.ProgramID, req.SchoolID); err != nil {
		return nil, err
	}
	id, err := s.store.CreateWorkRequest(ctx, store.NewWorkRequest{
		Description:   req.Description,
		RequestorName: req.RequestorName,
		Priority:      req.Priority,
		SchoolID:      req.SchoolID,
		ProgramID:     req.ProgramID,
		Classroom:     req.Classroom,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("work request created", zap.Int64("request_id", id), zap.String("priority", string(req.Priority)))
	return s.Get(ctx, id)
}

// Update writes every editable field of a request.
func (s *WorkRequestService) Update(ctx context.Context, id int64, req dto.UpdateWorkRequestRequest) (*models.WorkRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid work request payload")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(req.ProgramID, req.SchoolID); err != nil {
		return nil, err
	}
	updated := *current
	updated.Description = req.Description
	updated.RequestorName = req.RequestorName
	updated.Priority = req.Priority
	updated.Status = req.Status
	updated.SchoolID = req.SchoolID
	updated.ProgramID = req.ProgramID
	updated.Classroom = req.Classroom
	updated.DueDate = req.DueDate
	if err := s.store.UpdateWorkRequest(ctx, updated); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateStatus sets the status directly. Setting the current status persists nothing.
func (s *WorkRequestService) UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (*models.WorkRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid status payload")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == req.Status {
		return current, nil
	}
	if err := s.store.UpdateWorkRequestStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a request. A guided transition pending on it is dropped.
func (s *WorkRequestService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteWorkRequest(ctx, id); err != nil {
		return err
	}
	if pending, ok := store.PendingTransitionRequestID(s.store.ActiveModal()); ok && pending == id {
		s.store.CloseModal()
	}
	s.logger.Info("work request deleted", zap.Int64("request_id", id))
	return nil
}

// Move drops a request on a board column. Plain moves commit a status-only update; the two
// guided moves open their modal and report a pending outcome.
func (s *WorkRequestService) Move(ctx context.Context, id int64, req dto.MoveRequest) (*dto.MoveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid move payload")
	}
	column, err := board.ParseColumn(req.Column)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch decision := lifecycle.Decide(*current, column).(type) {
	case lifecycle.NoOp:
		s.metrics.RecordTransition("noop")
		return &dto.MoveResponse{Outcome: dto.MoveNoOp, RequestID: id, Status: current.Status}, nil
	case lifecycle.CommitStatus:
		if err := s.store.UpdateWorkRequestStatus(ctx, id, decision.Status); err != nil {
			return nil, err
		}
		s.metrics.RecordTransition("commit")
		s.logger.Info("work request moved",
			zap.Int64("request_id", id),
			zap.String("from", string(current.Status)),
			zap.String("to", string(decision.Status)),
		)
		return &dto.MoveResponse{Outcome: dto.MoveCommitted, RequestID: id, Status: decision.Status}, nil
	case lifecycle.RequireDueDate:
		return s.suspend(current, store.PendingInProgressTransition{RequestID: decision.RequestID}, "require_due_date"), nil
	case lifecycle.RequireHoldReason:
		return s.suspend(current, store.PendingHoldTransition{RequestID: decision.RequestID}, "require_hold_reason"), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrInternal, "unknown transition decision")
	}
}

func (s *WorkRequestService) suspend(current *models.WorkRequest, modal store.Modal, label string) *dto.MoveResponse {
	s.store.OpenModal(modal)
	s.metrics.RecordTransition(label)
	return &dto.MoveResponse{
		Outcome:   dto.MovePending,
		RequestID: current.ID,
		Status:    current.Status,
		Modal:     modalResponse(s.store.Snapshot(), modal),
	}
}

// SubmitTransition completes the pending guided transition. The modal stays open when the
// input is rejected or the write fails.
func (s *WorkRequestService) SubmitTransition(ctx context.Context, req dto.SubmitTransitionRequest) (*models.WorkRequest, error) {
	modal := s.store.ActiveModal()
	id, ok := store.PendingTransitionRequestID(modal)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no status transition is pending")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		s.store.CloseModal()
		return nil, err
	}

	if !stillPending(*current, modal) {
		s.store.CloseModal()
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "work request status changed; transition no longer applies")
	}

	var updated models.WorkRequest
	switch modal.(type) {
	case store.PendingInProgressTransition:
		updated, err = lifecycle.StartWork(*current, req.DueDate, req.Description)
		if errors.Is(err, lifecycle.ErrDueDateRequired) {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
	case store.PendingHoldTransition:
		updated = lifecycle.PutOnHold(*current, req.Description)
	}

	if err := s.store.UpdateWorkRequest(ctx, updated); err != nil {
		return nil, err
	}
	s.store.CloseModal()
	s.metrics.RecordTransition("submit")
	s.logger.Info("guided transition committed",
		zap.Int64("request_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
	)
	return s.Get(ctx, id)
}

// stillPending reports whether the request's current status would still route the move through
// the open modal.
func stillPending(current models.WorkRequest, modal store.Modal) bool {
	switch modal.(type) {
	case store.PendingInProgressTransition:
		_, ok := lifecycle.DecideStatus(current, models.StatusInProgress).(lifecycle.RequireDueDate)
		return ok
	case store.PendingHoldTransition:
		_, ok := lifecycle.DecideStatus(current, models.StatusOnHold).(lifecycle.RequireHoldReason)
		return ok
	}
	return false
}

// CancelTransition closes the active modal without persisting anything.
func (s *WorkRequestService) CancelTransition(ctx context.Context) {
	if id, ok := store.PendingTransitionRequestID(s.store.ActiveModal()); ok {
		s.metrics.RecordTransition("cancel")
		s.logger.Debug("guided transition cancelled", zap.Int64("request_id", id))
	}
	s.store.CloseModal()
}

func (s *WorkRequestService) checkReferences(programID, schoolID *int64) error {
	snap := s.store.Snapshot()
	if programID != nil {
		if _, ok := snap.ProgramByID(*programID); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "program does not exist")
		}
	}
	if schoolID != nil {
		if _, ok := snap.SchoolByID(*schoolID); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "school does not exist")
		}
	}
	return nil
}
