package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/pkg/export"
	"github.com/noah-isme/program-workboard-api/pkg/storage"
)

var exportHeaders = []string{"ID", "Description", "Requestor", "Program", "School", "Classroom", "Priority", "Status", "Submitted", "Due"}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	Rows         int
	ExpiresAt    time.Time
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders the list view and persists the result behind a signed token.
type ExportService struct {
	store   snapshotReader
	storage storage.Storage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(store snapshotReader, files storage.Storage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		store:   store,
		storage: files,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate renders the job's list view and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, err := s.buildDataset(job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(ctx, s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Debug("export rendered", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download?token=%s", prefix, token),
		Format:       job.Format,
		Rows:         len(dataset.Rows),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a reader over the stored file.
func (s *ExportService) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(ctx context.Context, relPath string) error {
	return s.storage.Delete(ctx, relPath)
}

// Cleanup removes stored files older than the result TTL.
func (s *ExportService) Cleanup(ctx context.Context) ([]string, error) {
	return s.storage.CleanupOlderThan(ctx, s.cfg.ResultTTL)
}

func (s *ExportService) buildDataset(job *models.ExportJob) (export.Dataset, error) {
	snap := s.store.Snapshot()
	rows, err := listRows(snap, job.ProgramSlug, job.Filter)
	if err != nil {
		return export.Dataset{}, err
	}
	title := "Work Requests"
	if job.ProgramSlug != "" {
		if program, ok := snap.ProgramBySlug(job.ProgramSlug); ok {
			title = fmt.Sprintf("Work Requests - %s", program.Name)
		}
	}
	dataset := export.Dataset{Title: title, Headers: exportHeaders, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, exportRow(row))
	}
	return dataset, nil
}

func exportRow(row dto.WorkRequestRow) []string {
	due := ""
	if row.DueDate != nil {
		due = row.DueDate.String()
	}
	classroom := ""
	if row.Classroom != nil {
		classroom = *row.Classroom
	}
	return []string{
		strconv.FormatInt(row.ID, 10),
		row.Description,
		row.RequestorName,
		row.ProgramName,
		row.SchoolName,
		classroom,
		string(row.Priority),
		string(row.Status),
		row.SubmittedDate.String(),
		due,
	}
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	scope := "all"
	if job.ProgramSlug != "" {
		scope = job.ProgramSlug
	}
	return fmt.Sprintf("%s/work-requests-%s-%s.%s", job.CreatedAt.UTC().Format("20060102"), scope, job.ID, job.Format)
}

// exportJobFromRequest maps the request body onto a queued job.
func exportJobFromRequest(id string, req dto.ExportRequest, filter models.WorkRequestFilter, now time.Time) *models.ExportJob {
	return &models.ExportJob{
		ID:          id,
		Format:      req.Format,
		Filter:      filter,
		ProgramSlug: req.Program,
		Status:      models.ExportStatusQueued,
		CreatedAt:   now.UTC(),
	}
}
