package dto

import (
	"strconv"
	"time"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	Format    models.ExportFormat `json:"format" validate:"required,export_format"`
	Program   string              `json:"program"`
	Status    string              `json:"status"`
	Priority  string              `json:"priority"`
	SchoolID  *int64              `json:"schoolId" validate:"omitempty,gt=0"`
	SortBy    string              `json:"sortBy"`
	SortOrder string              `json:"sortOrder"`
}

// ListQuery maps the export filters onto the list view query.
func (r ExportRequest) ListQuery() WorkRequestListQuery {
	q := WorkRequestListQuery{
		Program:   r.Program,
		Status:    r.Status,
		Priority:  r.Priority,
		SortBy:    r.SortBy,
		SortOrder: r.SortOrder,
	}
	if r.SchoolID != nil {
		q.SchoolID = strconv.FormatInt(*r.SchoolID, 10)
	}
	return q
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID         string              `json:"id"`
	Format     models.ExportFormat `json:"format"`
	Status     models.ExportStatus `json:"status"`
	Progress   int                 `json:"progress"`
	ResultURL  *string             `json:"resultUrl,omitempty"`
	Error      *string             `json:"error,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	FinishedAt *time.Time          `json:"finishedAt,omitempty"`
}
