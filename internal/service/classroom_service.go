package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

type classroomStore interface {
	snapshotReader
	CreateClassroom(ctx context.Context, classroom models.Classroom) (int64, error)
	UpdateClassroom(ctx context.Context, classroom models.Classroom) error
	DeleteClassroom(ctx context.Context, id int64) error
}

// ClassroomService manages classrooms.
type ClassroomService struct {
	store     classroomStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs the service.
func NewClassroomService(store classroomStore, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{store: store, validator: domainValidator(validate), logger: logger}
}

// List returns all classrooms, or those of one school when schoolID is set.
func (s *ClassroomService) List(ctx context.Context, schoolID *int64) []models.Classroom {
	snap := s.store.Snapshot()
	if schoolID == nil {
		return snap.Classrooms
	}
	return snap.ClassroomsBySchoolID(*schoolID)
}

// Create inserts a classroom under an existing school.
func (s *ClassroomService) Create(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid classroom payload")
	}
	id, err := s.store.CreateClassroom(ctx, models.Classroom{Name: strings.TrimSpace(req.Name), SchoolID: req.SchoolID})
	if err != nil {
		return nil, err
	}
	return s.get(id)
}

// Update renames a classroom.
func (s *ClassroomService) Update(ctx context.Context, id int64, req dto.UpdateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid classroom payload")
	}
	current, err := s.get(id)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(req.Name)
	if err := s.store.UpdateClassroom(ctx, *current); err != nil {
		return nil, err
	}
	return s.get(id)
}

// Delete removes a classroom.
func (s *ClassroomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	return s.store.DeleteClassroom(ctx, id)
}

func (s *ClassroomService) get(id int64) (*models.Classroom, error) {
	classroom, ok := s.store.Snapshot().ClassroomByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}
	return &classroom, nil
}
