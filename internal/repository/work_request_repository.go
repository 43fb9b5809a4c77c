package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

const workRequestsTable = "work_requests"

// submitted_date is set once at creation and never written by updates.
var workRequestColumns = columnSet(
	"description", "requestor_name", "priority", "status",
	"school_id", "program_id", "classroom", "due_date",
)

const workRequestSelect = `SELECT id, description, requestor_name, submitted_date, priority, status, school_id, program_id, classroom, due_date FROM work_requests`

// WorkRequestRepository manages persistence for work requests.
type WorkRequestRepository struct {
	db *sqlx.DB
}

// NewWorkRequestRepository constructs a new work request repository.
func NewWorkRequestRepository(db *sqlx.DB) *WorkRequestRepository {
	return &WorkRequestRepository{db: db}
}

// ListAll returns every work request, newest submission first.
func (r *WorkRequestRepository) ListAll(ctx context.Context) ([]models.WorkRequest, error) {
	var requests []models.WorkRequest
	if err := r.db.SelectContext(ctx, &requests, workRequestSelect+" ORDER BY submitted_date DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("list work requests: %w", err)
	}
	return requests, nil
}

// Insert stores a new work request and returns its id.
func (r *WorkRequestRepository) Insert(ctx context.Context, request models.WorkRequest) (int64, error) {
	return insertReturningID(ctx, r.db, workRequestsTable,
		[]string{"description", "requestor_name", "submitted_date", "priority", "status", "school_id", "program_id", "classroom", "due_date"},
		[]interface{}{
			request.Description,
			request.RequestorName,
			request.SubmittedDate,
			string(request.Priority),
			string(request.Status),
			request.SchoolID,
			request.ProgramID,
			request.Classroom,
			request.DueDate,
		},
	)
}

// Update writes the given columns of a work request.
func (r *WorkRequestRepository) Update(ctx context.Context, id int64, fields Fields) error {
	return updateByID(ctx, r.db, workRequestsTable, workRequestColumns, id, fields)
}

// Delete removes a work request.
func (r *WorkRequestRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, workRequestsTable, id)
}

// WorkRequestFields maps every editable field of a work request for a full-record update.
func WorkRequestFields(request models.WorkRequest) Fields {
	return Fields{
		"description":    request.Description,
		"requestor_name": request.RequestorName,
		"priority":       string(request.Priority),
		"status":         string(request.Status),
		"school_id":      request.SchoolID,
		"program_id":     request.ProgramID,
		"classroom":      request.Classroom,
		"due_date":       request.DueDate,
	}
}

// StatusFields maps a narrow status-only update.
func StatusFields(status models.Status) Fields {
	return Fields{"status": string(status)}
}
