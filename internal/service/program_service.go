package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

type snapshotReader interface {
	Snapshot() *store.Snapshot
	Today() models.Date
}

type programStore interface {
	snapshotReader
	CreateProgram(ctx context.Context, name string) (int64, error)
	UpdateProgram(ctx context.Context, program models.Program) error
}

// ProgramService manages programs.
type ProgramService struct {
	store     programStore
	validator *validator.Validate
	logger    *zap.Logger
	topN      int
}

// NewProgramService constructs the service. topN sizes the program card top list.
func NewProgramService(store programStore, validate *validator.Validate, logger *zap.Logger, topN int) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{store: store, validator: domainValidator(validate), logger: logger, topN: topN}
}

// List returns every program in snapshot order.
func (s *ProgramService) List(ctx context.Context) []models.Program {
	return s.store.Snapshot().Programs
}

// GetBySlug returns the program card and schools of the program addressed by slug.
func (s *ProgramService) GetBySlug(ctx context.Context, slug string) (*dto.ProgramDetailResponse, error) {
	snap := s.store.Snapshot()
	program, ok := snap.ProgramBySlug(slug)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	for _, summary := range board.ProgramSummaries(snap, s.topN) {
		if summary.Program.ID == program.ID {
			return &dto.ProgramDetailResponse{Summary: summary, Schools: snap.SchoolsByProgramID(program.ID)}, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
}

// Create inserts a program and returns the reloaded record.
func (s *ProgramService) Create(ctx context.Context, req dto.ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid program payload")
	}
	id, err := s.store.CreateProgram(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("program created", zap.Int64("program_id", id))
	return s.get(id)
}

// Update renames a program.
func (s *ProgramService) Update(ctx context.Context, id int64, req dto.ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid program payload")
	}
	if _, err := s.get(id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProgram(ctx, models.Program{ID: id, Name: strings.TrimSpace(req.Name)}); err != nil {
		return nil, err
	}
	return s.get(id)
}

func (s *ProgramService) get(id int64) (*models.Program, error) {
	program, ok := s.store.Snapshot().ProgramByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return &program, nil
}
