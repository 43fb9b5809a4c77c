package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

type uiStore interface {
	Snapshot() *store.Snapshot
	UI() store.UIState
	SetSidebarCollapsed(collapsed bool)
	SetZoom(zoom store.Zoom) error
	OpenModal(m store.Modal)
	ActiveModal() store.Modal
}

// UIService exposes the shell state: sidebar, zoom and the active modal.
type UIService struct {
	store     uiStore
	validator *validator.Validate
}

// NewUIService constructs the service.
func NewUIService(store uiStore, validate *validator.Validate) *UIService {
	return &UIService{store: store, validator: domainValidator(validate)}
}

// State returns the current UI state.
func (s *UIService) State(ctx context.Context) dto.UIStateResponse {
	ui := s.store.UI()
	return dto.UIStateResponse{
		SidebarCollapsed: ui.SidebarCollapsed,
		Zoom:             string(ui.Zoom),
		Modal:            modalResponse(s.store.Snapshot(), ui.Modal),
	}
}

// Update applies the provided fields.
func (s *UIService) Update(ctx context.Context, req dto.UIStateRequest) (dto.UIStateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UIStateResponse{}, invalidPayload(err, "invalid ui state payload")
	}
	if req.Zoom != nil {
		if err := s.store.SetZoom(store.Zoom(*req.Zoom)); err != nil {
			return dto.UIStateResponse{}, err
		}
	}
	if req.SidebarCollapsed != nil {
		s.store.SetSidebarCollapsed(*req.SidebarCollapsed)
	}
	return s.State(ctx), nil
}

// ActiveModal returns the active modal, nil when none is open.
func (s *UIService) ActiveModal(ctx context.Context) *dto.ModalResponse {
	return modalResponse(s.store.Snapshot(), s.store.ActiveModal())
}

// OpenModal opens a create or edit modal. Guided transition modals are only opened by board
// moves.
func (s *UIService) OpenModal(ctx context.Context, req dto.OpenModalRequest) (*dto.ModalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid modal payload")
	}
	snap := s.store.Snapshot()
	modal, err := buildModal(snap, req)
	if err != nil {
		return nil, err
	}
	s.store.OpenModal(modal)
	return modalResponse(snap, modal), nil
}

func buildModal(snap *store.Snapshot, req dto.OpenModalRequest) (store.Modal, error) {
	switch store.ModalKind(req.Kind) {
	case store.ModalCreatingProgram:
		return store.CreatingProgram{}, nil
	case store.ModalCreatingWorkRequest:
		return store.CreatingWorkRequest{}, nil
	case store.ModalEditingProgram:
		program, ok := lookup(req.ID, snap.ProgramByID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return store.EditingProgram{Program: program}, nil
	case store.ModalCreatingSchool:
		if _, ok := lookup(req.ProgramID, snap.ProgramByID); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "programId must reference an existing program")
		}
		return store.CreatingSchool{ProgramID: *req.ProgramID}, nil
	case store.ModalEditingSchool:
		school, ok := lookup(req.ID, snap.SchoolByID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return store.EditingSchool{School: school}, nil
	case store.ModalCreatingClassroom:
		if _, ok := lookup(req.SchoolID, snap.SchoolByID); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "schoolId must reference an existing school")
		}
		return store.CreatingClassroom{SchoolID: *req.SchoolID}, nil
	case store.ModalEditingClassroom:
		classroom, ok := lookup(req.ID, snap.ClassroomByID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return store.EditingClassroom{Classroom: classroom}, nil
	case store.ModalEditingWorkRequest:
		request, ok := lookup(req.ID, snap.WorkRequestByID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "work request not found")
		}
		return store.EditingWorkRequest{Request: request}, nil
	case store.ModalPendingInProgressTransition, store.ModalPendingHoldTransition:
		return nil, appErrors.Clone(appErrors.ErrValidation, "transition modals open from board moves")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown modal kind")
	}
}

func lookup[T any](id *int64, find func(int64) (T, bool)) (T, bool) {
	if id == nil {
		var zero T
		return zero, false
	}
	return find(*id)
}

// modalResponse renders a modal. Transition modals carry the current request so the client
// can prefill the hold reason.
func modalResponse(snap *store.Snapshot, m store.Modal) *dto.ModalResponse {
	if m == nil {
		return nil
	}
	resp := &dto.ModalResponse{Kind: string(m.Kind())}
	switch v := m.(type) {
	case store.CreatingProgram, store.CreatingWorkRequest:
	case store.EditingProgram:
		resp.Program = &v.Program
	case store.CreatingSchool:
		resp.ProgramID = models.Int64Ptr(v.ProgramID)
	case store.EditingSchool:
		resp.School = &v.School
	case store.CreatingClassroom:
		resp.SchoolID = models.Int64Ptr(v.SchoolID)
	case store.EditingClassroom:
		resp.Classroom = &v.Classroom
	case store.EditingWorkRequest:
		resp.Request = &v.Request
	case store.PendingInProgressTransition:
		resp.RequestID = models.Int64Ptr(v.RequestID)
		resp.Request = requestPtr(snap, v.RequestID)
	case store.PendingHoldTransition:
		resp.RequestID = models.Int64Ptr(v.RequestID)
		resp.Request = requestPtr(snap, v.RequestID)
	}
	return resp
}

func requestPtr(snap *store.Snapshot, id int64) *models.WorkRequest {
	request, ok := snap.WorkRequestByID(id)
	if !ok {
		return nil
	}
	return &request
}
