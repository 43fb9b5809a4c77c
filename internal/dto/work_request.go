package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// FilterAll is the list filter value that matches every request.
const FilterAll = "All"

// CreateWorkRequestRequest captures POST /work-requests payload.
type CreateWorkRequestRequest struct {
	Description   string          `json:"description" validate:"required"`
	RequestorName string          `json:"requestorName" validate:"required,max=200"`
	Priority      models.Priority `json:"priority" validate:"required,priority"`
	SchoolID      *int64          `json:"schoolId,omitempty" validate:"omitempty,gt=0"`
	ProgramID     *int64          `json:"programId,omitempty" validate:"omitempty,gt=0"`
	Classroom     *string         `json:"classroom,omitempty" validate:"omitempty,max=200"`
}

// UpdateWorkRequestRequest captures PUT /work-requests/:id payload. Every editable field is
// written; the submitted date is kept.
type UpdateWorkRequestRequest struct {
	Description   string          `json:"description" validate:"required"`
	RequestorName string          `json:"requestorName" validate:"required,max=200"`
	Priority      models.Priority `json:"priority" validate:"required,priority"`
	Status        models.Status   `json:"status" validate:"required,status"`
	SchoolID      *int64          `json:"schoolId" validate:"omitempty,gt=0"`
	ProgramID     *int64          `json:"programId" validate:"omitempty,gt=0"`
	Classroom     *string         `json:"classroom" validate:"omitempty,max=200"`
	DueDate       *models.Date    `json:"dueDate"`
}

// UpdateStatusRequest captures PATCH /work-requests/:id/status payload.
type UpdateStatusRequest struct {
	Status models.Status `json:"status" validate:"required,status"`
}

// MoveRequest captures POST /work-requests/:id/move payload. Column accepts a board column
// label, key or status value.
type MoveRequest struct {
	Column string `json:"column" validate:"required"`
}

// WorkRequestListQuery is the list view query string. Status, Priority and SchoolID accept
// "All" (any case) or an empty value to disable that filter.
type WorkRequestListQuery struct {
	Program   string `form:"program"`
	Status    string `form:"status"`
	Priority  string `form:"priority"`
	SchoolID  string `form:"schoolId"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// Filter converts the query into a list filter. Unknown statuses, priorities and
// non-numeric school ids are errors.
func (q WorkRequestListQuery) Filter() (models.WorkRequestFilter, error) {
	filter := models.WorkRequestFilter{
		SortBy:    strings.TrimSpace(q.SortBy),
		SortOrder: models.SortDirection(strings.TrimSpace(q.SortOrder)),
	}
	if raw, ok := filterValue(q.Status); ok {
		status := models.Status(raw)
		if !status.Valid() {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.Status = &status
	}
	if raw, ok := filterValue(q.Priority); ok {
		priority := models.Priority(raw)
		if !priority.Valid() {
			return filter, fmt.Errorf("unknown priority %q", raw)
		}
		filter.Priority = &priority
	}
	if raw, ok := filterValue(q.SchoolID); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("invalid schoolId %q", raw)
		}
		filter.SchoolID = &id
	}
	return filter, nil
}

// filterValue trims raw and reports false for the empty and "All" values.
func filterValue(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, FilterAll) {
		return "", false
	}
	return raw, true
}

// WorkRequestRow is a list row with program and school names resolved.
type WorkRequestRow struct {
	models.WorkRequest
	ProgramName string `json:"programName"`
	SchoolName  string `json:"schoolName"`
}

// MoveOutcome names what a board move did.
type MoveOutcome string

const (
	MoveNoOp      MoveOutcome = "noop"
	MoveCommitted MoveOutcome = "committed"
	MovePending   MoveOutcome = "pending"
)

// MoveResponse reports the result of a board move. Modal is set when the move waits for
// operator input.
type MoveResponse struct {
	Outcome   MoveOutcome    `json:"outcome"`
	RequestID int64          `json:"requestId"`
	Status    models.Status  `json:"status"`
	Modal     *ModalResponse `json:"modal,omitempty"`
}
