package service

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
	"github.com/noah-isme/program-workboard-api/pkg/jobs"
	"github.com/noah-isme/program-workboard-api/pkg/storage"
)

const exportJobType = "work_request_export"

// ExportJobRegistry keeps export job state in memory. Jobs do not survive a restart.
type ExportJobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]models.ExportJob
}

// NewExportJobRegistry builds an empty registry.
func NewExportJobRegistry() *ExportJobRegistry {
	return &ExportJobRegistry{jobs: make(map[string]models.ExportJob)}
}

func (r *ExportJobRegistry) put(job models.ExportJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// Get returns a copy of the job.
func (r *ExportJobRegistry) Get(id string) (models.ExportJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}

func (r *ExportJobRegistry) update(id string, fn func(job *models.ExportJob)) (models.ExportJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return models.ExportJob{}, false
	}
	fn(&job)
	r.jobs[id] = job
	return job, true
}

// finishedBefore lists terminal jobs finished before cutoff, oldest first.
func (r *ExportJobRegistry) finishedBefore(cutoff time.Time) []models.ExportJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ExportJob, 0)
	for _, job := range r.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.Before(*out[j].FinishedAt) })
	return out
}

func (r *ExportJobRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error)
}

type exportFiles interface {
	ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
	Delete(ctx context.Context, relPath string) error
	Cleanup(ctx context.Context) ([]string, error)
}

// ExportJobServiceConfig governs cleanup.
type ExportJobServiceConfig struct {
	Enabled         bool
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	Reader    io.ReadCloser
	Filename  string
	Format    models.ExportFormat
	ExpiresAt time.Time
}

// ExportJobService orchestrates export job lifecycle management.
type ExportJobService struct {
	registry  *ExportJobRegistry
	queue     jobDispatcher
	files     exportFiles
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportJobServiceConfig
	now       func() time.Time
}

// NewExportJobService constructs the export job service.
func NewExportJobService(registry *ExportJobRegistry, queue jobDispatcher, files exportFiles, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg ExportJobServiceConfig) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = NewExportJobRegistry()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportJobService{
		registry:  registry,
		queue:     queue,
		files:     files,
		validator: domainValidator(validate),
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *ExportJobService) enabled() bool {
	return s != nil && s.cfg.Enabled && s.queue != nil && s.files != nil
}

// CreateJob validates the request, registers the job and enqueues processing.
func (s *ExportJobService) CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if !s.enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "exports disabled")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid export request")
	}
	req.Format = models.ExportFormat(strings.ToLower(string(req.Format)))
	filter, err := req.ListQuery().Filter()
	if err == nil {
		_, err = board.NormalizeFilter(filter)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	job := exportJobFromRequest(uuid.NewString(), req, filter, s.now())
	s.registry.put(*job)
	s.metrics.RecordExportJob(job.Format, models.ExportStatusQueued)

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: exportJobType}); err != nil {
		msg := "failed to enqueue job"
		s.finish(job.ID, models.ExportStatusFailed, nil, &msg)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	s.logger.Info("export job queued", zap.String("job_id", job.ID), zap.String("format", string(job.Format)), zap.String("program", job.ProgramSlug))
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata to clients.
func (s *ExportJobService) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	job, ok := s.registry.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	resp := &dto.ExportStatusResponse{
		ID:         job.ID,
		Format:     job.Format,
		Status:     job.Status,
		Progress:   job.Progress,
		ResultURL:  job.ResultURL,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates the token and opens the stored export file.
func (s *ExportJobService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	if !s.enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "exports disabled")
	}
	jobID, relPath, expiresAt, err := s.files.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, ok := s.registry.Get(jobID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	reader, err := s.files.Open(ctx, relPath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file expired")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		Reader:    reader,
		Filename:  path.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if !s.enabled() || s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// CleanupExpired drops jobs finished more than the result TTL ago along with their files.
func (s *ExportJobService) CleanupExpired(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	for _, job := range s.registry.finishedBefore(cutoff) {
		if job.ResultURL != nil {
			if relPath := s.relPathFor(*job.ResultURL); relPath != "" {
				if err := s.files.Delete(ctx, relPath); err != nil {
					s.logger.Sugar().Warnw("cleanup delete failed", "job_id", job.ID, "error", err)
				}
			}
		}
		s.registry.remove(job.ID)
	}
	removed, err := s.files.Cleanup(ctx)
	if err != nil {
		s.logger.Sugar().Warnw("export storage cleanup failed", "error", err)
		return
	}
	if len(removed) > 0 {
		s.logger.Sugar().Infow("expired exports removed", "count", len(removed))
	}
}

func (s *ExportJobService) relPathFor(resultURL string) string {
	idx := strings.LastIndex(resultURL, "token=")
	if idx < 0 {
		return ""
	}
	_, relPath, _, err := s.files.ParseToken(resultURL[idx+len("token="):], true)
	if err != nil {
		return ""
	}
	return relPath
}

func (s *ExportJobService) finish(id string, status models.ExportStatus, resultURL, errMsg *string) {
	now := s.now().UTC()
	job, ok := s.registry.update(id, func(job *models.ExportJob) {
		job.Status = status
		job.Progress = 100
		job.ResultURL = resultURL
		job.ErrorMessage = errMsg
		job.FinishedAt = &now
	})
	if ok {
		s.metrics.RecordExportJob(job.Format, status)
	}
}

// ExportWorker bridges queue jobs to ExportService.
type ExportWorker struct {
	registry *ExportJobRegistry
	exporter exportGenerator
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportWorker constructs a worker. Wire Abandon as the queue's exhaustion hook.
func NewExportWorker(registry *ExportJobRegistry, exporter exportGenerator, metrics *MetricsService, logger *zap.Logger) *ExportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportWorker{
		registry: registry,
		exporter: exporter,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle processes a queue job. A failed attempt puts the job back to queued.
func (w *ExportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, ok := w.registry.update(job.ID, func(j *models.ExportJob) {
		j.Status = models.ExportStatusProcessing
		j.Progress = 10
	})
	if !ok {
		w.logger.Sugar().Warnw("export job vanished before processing", "job_id", job.ID)
		return nil
	}

	result, err := w.exporter.Generate(ctx, &record)
	if err != nil {
		msg := err.Error()
		w.registry.update(job.ID, func(j *models.ExportJob) {
			j.Status = models.ExportStatusQueued
			j.Progress = 0
			j.ErrorMessage = &msg
		})
		return err
	}

	now := w.now().UTC()
	url := result.URL
	w.registry.update(job.ID, func(j *models.ExportJob) {
		j.Status = models.ExportStatusFinished
		j.Progress = 100
		j.ResultURL = &url
		j.ErrorMessage = nil
		j.FinishedAt = &now
	})
	w.metrics.RecordExportJob(record.Format, models.ExportStatusFinished)
	w.logger.Sugar().Infow("export job finished", "job_id", job.ID, "rows", result.Rows, "path", result.RelativePath)
	return nil
}

// Abandon marks a job failed once the queue has run out of retries.
func (w *ExportWorker) Abandon(job jobs.Job, err error) {
	msg := err.Error()
	now := w.now().UTC()
	record, ok := w.registry.update(job.ID, func(j *models.ExportJob) {
		j.Status = models.ExportStatusFailed
		j.Progress = 100
		j.ErrorMessage = &msg
		j.FinishedAt = &now
	})
	if !ok {
		return
	}
	w.metrics.RecordExportJob(record.Format, models.ExportStatusFailed)
	w.logger.Sugar().Errorw("export job failed", "job_id", job.ID, "attempt", job.Attempt, "error", err)
}
