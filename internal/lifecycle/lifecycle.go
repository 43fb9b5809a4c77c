// Package lifecycle decides how a work request moves between statuses when it is dropped on a
// board column. Two moves need operator input before they commit: New Request to In Progress
// needs a due date, and any move to On Hold takes an optional reason that replaces the
// description. Everything else commits a plain status change.
package lifecycle

import (
	"errors"
	"strings"

	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/models"
)

// ErrDueDateRequired is returned when the in-progress step is submitted without a due date.
var ErrDueDateRequired = errors.New("due date is required to start work")

// Decision is the outcome of a move. It is one of NoOp, CommitStatus, RequireDueDate or
// RequireHoldReason.
type Decision interface {
	decision()
}

// NoOp means the target resolves to the current status; nothing is persisted.
type NoOp struct {
	RequestID int64
}

// CommitStatus persists a status-only update immediately.
type CommitStatus struct {
	RequestID int64
	Status    models.Status
}

// RequireDueDate suspends a New Request to In Progress move until a due date is supplied.
type RequireDueDate struct {
	RequestID int64
}

// RequireHoldReason suspends a move to On Hold until the operator confirms or edits the
// description.
type RequireHoldReason struct {
	RequestID   int64
	Description string
}

func (NoOp) decision()              {}
func (CommitStatus) decision()      {}
func (RequireDueDate) decision()    {}
func (RequireHoldReason) decision() {}

// Decide folds the target column to its stored status and decides the move.
func Decide(request models.WorkRequest, target board.Column) Decision {
	return DecideStatus(request, board.RealStatusFor(target))
}

// DecideStatus decides a move to an already resolved status.
func DecideStatus(request models.WorkRequest, target models.Status) Decision {
	switch {
	case target == request.Status:
		return NoOp{RequestID: request.ID}
	case request.Status == models.StatusNewRequest && target == models.StatusInProgress:
		return RequireDueDate{RequestID: request.ID}
	case target == models.StatusOnHold:
		return RequireHoldReason{RequestID: request.ID, Description: request.Description}
	default:
		return CommitStatus{RequestID: request.ID, Status: target}
	}
}

// StartWork completes the due-date step. The description is replaced only when provided.
func StartWork(request models.WorkRequest, dueDate *models.Date, description *string) (models.WorkRequest, error) {
	if dueDate == nil || dueDate.IsZero() {
		return request, ErrDueDateRequired
	}
	due := *dueDate
	request.DueDate = &due
	request.Status = models.StatusInProgress
	applyDescription(&request, description)
	return request, nil
}

// PutOnHold completes the hold step. The description is replaced only when provided.
func PutOnHold(request models.WorkRequest, description *string) models.WorkRequest {
	request.Status = models.StatusOnHold
	applyDescription(&request, description)
	return request
}

func applyDescription(request *models.WorkRequest, description *string) {
	if description == nil || strings.TrimSpace(*description) == "" {
		return
	}
	request.Description = *description
}
