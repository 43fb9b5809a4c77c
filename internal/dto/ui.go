package dto

import "github.com/noah-isme/program-workboard-api/internal/models"

// UIStateRequest captures PUT /ui/state payload. Omitted fields are unchanged.
type UIStateRequest struct {
	SidebarCollapsed *bool   `json:"sidebarCollapsed"`
	Zoom             *string `json:"zoom" validate:"omitempty,oneof=sm md lg"`
}

// UIStateResponse exposes the shell state.
type UIStateResponse struct {
	SidebarCollapsed bool           `json:"sidebarCollapsed"`
	Zoom             string         `json:"zoom"`
	Modal            *ModalResponse `json:"modal"`
}

// OpenModalRequest captures PUT /ui/modal payload for the create and edit modals.
type OpenModalRequest struct {
	Kind      string `json:"kind" validate:"required"`
	ID        *int64 `json:"id,omitempty" validate:"omitempty,gt=0"`
	ProgramID *int64 `json:"programId,omitempty" validate:"omitempty,gt=0"`
	SchoolID  *int64 `json:"schoolId,omitempty" validate:"omitempty,gt=0"`
}

// ModalResponse is the active modal. Only the fields of its kind are set.
type ModalResponse struct {
	Kind      string              `json:"kind"`
	RequestID *int64              `json:"requestId,omitempty"`
	ProgramID *int64              `json:"programId,omitempty"`
	SchoolID  *int64              `json:"schoolId,omitempty"`
	Program   *models.Program     `json:"program,omitempty"`
	School    *models.School      `json:"school,omitempty"`
	Classroom *models.Classroom   `json:"classroom,omitempty"`
	Request   *models.WorkRequest `json:"request,omitempty"`
}

// SubmitTransitionRequest captures POST /ui/modal payload. DueDate is required for the
// in-progress step; Description is optional for both steps and a blank value leaves the
// description unchanged.
type SubmitTransitionRequest struct {
	DueDate     *models.Date `json:"dueDate"`
	Description *string      `json:"description"`
}
