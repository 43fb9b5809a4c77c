package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

type schoolStore interface {
	snapshotReader
	CreateSchool(ctx context.Context, school models.School) (int64, error)
	UpdateSchool(ctx context.Context, school models.School) error
	DeleteSchool(ctx context.Context, id int64) error
}

// SchoolService manages schools.
type SchoolService struct {
	store     schoolStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs the service.
func NewSchoolService(store schoolStore, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{store: store, validator: domainValidator(validate), logger: logger}
}

// List returns all schools, or those of one program when programID is set.
func (s *SchoolService) List(ctx context.Context, programID *int64) []models.School {
	snap := s.store.Snapshot()
	if programID == nil {
		return snap.Schools
	}
	return snap.SchoolsByProgramID(*programID)
}

// Profile returns the school page payload.
func (s *SchoolService) Profile(ctx context.Context, id int64) (*board.SchoolProfile, error) {
	profile, ok := board.BuildSchoolProfile(s.store.Snapshot(), id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	return &profile, nil
}

// Create inserts a school under an existing program.
func (s *SchoolService) Create(ctx context.Context, req dto.CreateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid school payload")
	}
	id, err := s.store.CreateSchool(ctx, models.School{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Contact:   strings.TrimSpace(req.Contact),
		ProgramID: req.ProgramID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("school created", zap.Int64("school_id", id), zap.Int64("program_id", req.ProgramID))
	return s.get(id)
}

// Update renames a school. Address, contact and program are not editable.
func (s *SchoolService) Update(ctx context.Context, id int64, req dto.UpdateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid school payload")
	}
	current, err := s.get(id)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(req.Name)
	if err := s.store.UpdateSchool(ctx, *current); err != nil {
		return nil, err
	}
	return s.get(id)
}

// Delete removes a school that nothing references.
func (s *SchoolService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	if err := s.store.DeleteSchool(ctx, id); err != nil {
		return err
	}
	s.logger.Info("school deleted", zap.Int64("school_id", id))
	return nil
}

func (s *SchoolService) get(id int64) (*models.School, error) {
	school, ok := s.store.Snapshot().SchoolByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	return &school, nil
}
