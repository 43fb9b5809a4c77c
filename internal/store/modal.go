package store

import "github.com/noah-isme/program-workboard-api/internal/models"

// ModalKind names the active modal case.
type ModalKind string

const (
	ModalCreatingProgram             ModalKind = "creating_program"
	ModalEditingProgram              ModalKind = "editing_program"
	ModalCreatingSchool              ModalKind = "creating_school"
	ModalEditingSchool               ModalKind = "editing_school"
	ModalCreatingClassroom           ModalKind = "creating_classroom"
	ModalEditingClassroom            ModalKind = "editing_classroom"
	ModalCreatingWorkRequest         ModalKind = "creating_work_request"
	ModalEditingWorkRequest          ModalKind = "editing_work_request"
	ModalPendingInProgressTransition ModalKind = "pending_in_progress_transition"
	ModalPendingHoldTransition       ModalKind = "pending_hold_transition"
)

// Modal is the active modal. It is a closed union; the concrete cases are the types below.
type Modal interface {
	Kind() ModalKind
	modal()
}

type CreatingProgram struct{}

type EditingProgram struct {
	Program models.Program
}

type CreatingSchool struct {
	ProgramID int64
}

type EditingSchool struct {
	School models.School
}

type CreatingClassroom struct {
	SchoolID int64
}

type EditingClassroom struct {
	Classroom models.Classroom
}

type CreatingWorkRequest struct{}

type EditingWorkRequest struct {
	Request models.WorkRequest
}

// PendingInProgressTransition waits for a due date before moving a request to In Progress.
type PendingInProgressTransition struct {
	RequestID int64
}

// PendingHoldTransition waits for an optional reason before putting a request on hold.
type PendingHoldTransition struct {
	RequestID int64
}

func (CreatingProgram) Kind() ModalKind             { return ModalCreatingProgram }
func (EditingProgram) Kind() ModalKind              { return ModalEditingProgram }
func (CreatingSchool) Kind() ModalKind              { return ModalCreatingSchool }
func (EditingSchool) Kind() ModalKind               { return ModalEditingSchool }
func (CreatingClassroom) Kind() ModalKind           { return ModalCreatingClassroom }
func (EditingClassroom) Kind() ModalKind            { return ModalEditingClassroom }
func (CreatingWorkRequest) Kind() ModalKind         { return ModalCreatingWorkRequest }
func (EditingWorkRequest) Kind() ModalKind          { return ModalEditingWorkRequest }
func (PendingInProgressTransition) Kind() ModalKind { return ModalPendingInProgressTransition }
func (PendingHoldTransition) Kind() ModalKind       { return ModalPendingHoldTransition }

func (CreatingProgram) modal()             {}
func (EditingProgram) modal()              {}
func (CreatingSchool) modal()              {}
func (EditingSchool) modal()               {}
func (CreatingClassroom) modal()           {}
func (EditingClassroom) modal()            {}
func (CreatingWorkRequest) modal()         {}
func (EditingWorkRequest) modal()          {}
func (PendingInProgressTransition) modal() {}
func (PendingHoldTransition) modal()       {}

// PendingTransitionRequestID returns the request a transition modal is waiting on.
func PendingTransitionRequestID(m Modal) (int64, bool) {
	switch v := m.(type) {
	case PendingInProgressTransition:
		return v.RequestID, true
	case PendingHoldTransition:
		return v.RequestID, true
	default:
		return 0, false
	}
}

// Zoom is the board zoom level.
type Zoom string

const (
	ZoomSmall  Zoom = "sm"
	ZoomMedium Zoom = "md"
	ZoomLarge  Zoom = "lg"
)

// Valid reports whether z is a known zoom level.
func (z Zoom) Valid() bool {
	return z == ZoomSmall || z == ZoomMedium || z == ZoomLarge
}

// UIState is the UI-adjacent state kept beside the cached collections.
type UIState struct {
	SidebarCollapsed bool
	Zoom             Zoom
	Modal            Modal
}
