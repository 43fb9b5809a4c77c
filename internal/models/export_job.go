package models

import "time"

// ExportFormat enumerates supported export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid reports whether f is a supported format.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob tracks an asynchronous export of the work request list view.
type ExportJob struct {
	ID           string            `json:"id"`
	Format       ExportFormat      `json:"format"`
	Filter       WorkRequestFilter `json:"-"`
	ProgramSlug  string            `json:"programSlug,omitempty"`
	Status       ExportStatus      `json:"status"`
	Progress     int               `json:"progress"`
	ResultURL    *string           `json:"resultUrl,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	FinishedAt   *time.Time        `json:"finishedAt,omitempty"`
	ErrorMessage *string           `json:"error,omitempty"`
}
