package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/repository"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

// ProgramGateway is the persistence contract for programs.
type ProgramGateway interface {
	ListAll(ctx context.Context) ([]models.Program, error)
	Insert(ctx context.Context, program models.Program) (int64, error)
	Update(ctx context.Context, id int64, fields repository.Fields) error
}

// SchoolGateway is the persistence contract for schools.
type SchoolGateway interface {
	ListAll(ctx context.Context) ([]models.School, error)
	Insert(ctx context.Context, school models.School) (int64, error)
	Update(ctx context.Context, id int64, fields repository.Fields) error
	Delete(ctx context.Context, id int64) error
	CountReferences(ctx context.Context, id int64) (int, int, error)
}

// ClassroomGateway is the persistence contract for classrooms.
type ClassroomGateway interface {
	ListAll(ctx context.Context) ([]models.Classroom, error)
	Insert(ctx context.Context, classroom models.Classroom) (int64, error)
	Update(ctx context.Context, id int64, fields repository.Fields) error
	Delete(ctx context.Context, id int64) error
}

// WorkRequestGateway is the persistence contract for work requests.
type WorkRequestGateway interface {
	ListAll(ctx context.Context) ([]models.WorkRequest, error)
	Insert(ctx context.Context, request models.WorkRequest) (int64, error)
	Update(ctx context.Context, id int64, fields repository.Fields) error
	Delete(ctx context.Context, id int64) error
}

// Gateways bundles the four collection gateways.
type Gateways struct {
	Programs     ProgramGateway
	Schools      SchoolGateway
	Classrooms   ClassroomGateway
	WorkRequests WorkRequestGateway
}

// Observer receives timing information about gateway calls and reloads.
type Observer interface {
	ObserveGatewayCall(entity, operation string, duration time.Duration, err error)
	ObserveReload(duration time.Duration, err error, discarded bool)
}

// ReloadHook runs after a snapshot has been installed.
type ReloadHook func(ctx context.Context, snapshot *Snapshot)

// Options tunes a Store.
type Options struct {
	Logger   *zap.Logger
	Observer Observer
	Clock    func() time.Time
	Location *time.Location
}

// NewWorkRequest carries the operator supplied fields of a new work request.
type NewWorkRequest struct {
	Description   string
	RequestorName string
	Priority      models.Priority
	SchoolID      *int64
	ProgramID     *int64
	Classroom     *string
}

// Store is the in-memory source of truth for every collection. Mutations write through to the
// gateway and then reload everything; the cache is never patched in place.
type Store struct {
	gateways Gateways
	logger   *zap.Logger
	observer Observer
	clock    func() time.Time
	location *time.Location

	started atomic.Uint64

	mu        sync.RWMutex
	snapshot  *Snapshot
	installed uint64
	hooks     []ReloadHook
	ui        UIState
}

// New constructs a store with an empty snapshot. Call Reload to populate it.
func New(gateways Gateways, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Store{
		gateways: gateways,
		logger:   opts.Logger,
		observer: opts.Observer,
		clock:    opts.Clock,
		location: opts.Location,
		snapshot: emptySnapshot(),
		ui:       UIState{Zoom: ZoomMedium},
	}
}

// OnReload registers a hook invoked after each installed reload.
func (s *Store) OnReload(hook ReloadHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, hook)
	s.mu.Unlock()
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Today returns the current calendar day in the store's location.
func (s *Store) Today() models.Date {
	return models.Today(s.clock(), s.location)
}

// Reload fetches all four collections. The snapshot is only replaced when every fetch succeeds,
// and a reload that finishes after a later-started reload was installed is discarded.
func (s *Store) Reload(ctx context.Context) error {
	seq := s.started.Add(1)
	start := time.Now()

	snap, err := s.load(ctx)
	if err != nil {
		s.observeReload(start, err, false)
		s.logger.Error("reload failed, keeping last snapshot", zap.Uint64("seq", seq), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to refresh data")
	}

	s.mu.Lock()
	if seq <= s.installed {
		installed := s.installed
		s.mu.Unlock()
		s.observeReload(start, nil, true)
		s.logger.Debug("discarding stale reload", zap.Uint64("seq", seq), zap.Uint64("installed", installed))
		return nil
	}
	snap.Version = seq
	snap.LoadedAt = s.clock()
	s.snapshot = snap
	s.installed = seq
	hooks := append([]ReloadHook(nil), s.hooks...)
	s.mu.Unlock()

	s.observeReload(start, nil, false)
	for _, hook := range hooks {
		hook(ctx, snap)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	snap := emptySnapshot()

	programs, err := timed(s, "program", "list", func() ([]models.Program, error) { return s.gateways.Programs.ListAll(ctx) })
	if err != nil {
		return nil, err
	}
	schools, err := timed(s, "school", "list", func() ([]models.School, error) { return s.gateways.Schools.ListAll(ctx) })
	if err != nil {
		return nil, err
	}
	classrooms, err := timed(s, "classroom", "list", func() ([]models.Classroom, error) { return s.gateways.Classrooms.ListAll(ctx) })
	if err != nil {
		return nil, err
	}
	requests, err := timed(s, "work_request", "list", func() ([]models.WorkRequest, error) { return s.gateways.WorkRequests.ListAll(ctx) })
	if err != nil {
		return nil, err
	}

	if programs != nil {
		snap.Programs = programs
	}
	if schools != nil {
		snap.Schools = schools
	}
	if classrooms != nil {
		snap.Classrooms = classrooms
	}
	if requests != nil {
		snap.WorkRequests = requests
	}
	return snap, nil
}

func timed[T any](s *Store, entity, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	if s.observer != nil {
		s.observer.ObserveGatewayCall(entity, operation, time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("gateway call failed", zap.String("entity", entity), zap.String("operation", operation), zap.Error(err))
	}
	return result, err
}

func (s *Store) observeReload(start time.Time, err error, discarded bool) {
	if s.observer != nil {
		s.observer.ObserveReload(time.Since(start), err, discarded)
	}
}

// mutate runs a gateway write then reloads. Write failures leave the cache untouched; a
// reload failure after a committed write is reported as ErrRefreshFailed.
func (s *Store) mutate(ctx context.Context, entity, operation string, write func() error) error {
	if _, err := timed(s, entity, operation, func() (struct{}, error) { return struct{}{}, write() }); err != nil {
		return gatewayError(err, entity, operation)
	}
	if err := s.Reload(ctx); err != nil {
		label := strings.ReplaceAll(entity, "_", " ")
		return appErrors.Wrap(err, appErrors.ErrRefreshFailed.Code, appErrors.ErrRefreshFailed.Status,
			fmt.Sprintf("%s %s saved but data refresh failed; reload instead of retrying", label, operation))
	}
	return nil
}

func gatewayError(err error, entity, operation string) error {
	label := strings.ReplaceAll(entity, "_", " ")
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, label+" not found")
	}
	var unknown *repository.ErrUnknownColumn
	if errors.As(err, &unknown) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, unknown.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to %s %s", operation, label))
}

func validationError(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

// CreateProgram inserts a program and reloads.
func (s *Store) CreateProgram(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, validationError("program name is required")
	}
	var id int64
	err := s.mutate(ctx, "program", "create", func() error {
		var err error
		id, err = s.gateways.Programs.Insert(ctx, models.Program{Name: name})
		return err
	})
	return id, err
}

// UpdateProgram renames a program and reloads.
func (s *Store) UpdateProgram(ctx context.Context, program models.Program) error {
	if strings.TrimSpace(program.Name) == "" {
		return validationError("program name is required")
	}
	return s.mutate(ctx, "program", "update", func() error {
		return s.gateways.Programs.Update(ctx, program.ID, repository.ProgramFields(program))
	})
}

// CreateSchool inserts a school under an existing program and reloads.
func (s *Store) CreateSchool(ctx context.Context, school models.School) (int64, error) {
	if strings.TrimSpace(school.Name) == "" {
		return 0, validationError("school name is required")
	}
	if _, ok := s.Snapshot().ProgramByID(school.ProgramID); !ok {
		return 0, validationError("school must belong to an existing program")
	}
	var id int64
	err := s.mutate(ctx, "school", "create", func() error {
		var err error
		id, err = s.gateways.Schools.Insert(ctx, school)
		return err
	})
	return id, err
}

// UpdateSchool renames a school and reloads.
func (s *Store) UpdateSchool(ctx context.Context, school models.School) error {
	if strings.TrimSpace(school.Name) == "" {
		return validationError("school name is required")
	}
	return s.mutate(ctx, "school", "update", func() error {
		return s.gateways.Schools.Update(ctx, school.ID, repository.SchoolFields(school))
	})
}

// DeleteSchool removes a school. It is rejected while classrooms or work requests still
// reference the school.
func (s *Store) DeleteSchool(ctx context.Context, id int64) error {
	counts, err := timed(s, "school", "count_references", func() ([2]int, error) {
		c, r, err := s.gateways.Schools.CountReferences(ctx, id)
		return [2]int{c, r}, err
	})
	if err != nil {
		return gatewayError(err, "school", "delete")
	}
	if classrooms, requests := counts[0], counts[1]; classrooms > 0 || requests > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed,
			fmt.Sprintf("school is still referenced by %d classrooms and %d work requests", classrooms, requests))
	}
	return s.mutate(ctx, "school", "delete", func() error {
		return s.gateways.Schools.Delete(ctx, id)
	})
}

// CreateClassroom inserts a classroom under an existing school and reloads.
func (s *Store) CreateClassroom(ctx context.Context, classroom models.Classroom) (int64, error) {
	if strings.TrimSpace(classroom.Name) == "" {
		return 0, validationError("classroom name is required")
	}
	if _, ok := s.Snapshot().SchoolByID(classroom.SchoolID); !ok {
		return 0, validationError("classroom must belong to an existing school")
	}
	var id int64
	err := s.mutate(ctx, "classroom", "create", func() error {
		var err error
		id, err = s.gateways.Classrooms.Insert(ctx, classroom)
		return err
	})
	return id, err
}

// UpdateClassroom renames a classroom and reloads.
func (s *Store) UpdateClassroom(ctx context.Context, classroom models.Classroom) error {
	if strings.TrimSpace(classroom.Name) == "" {
		return validationError("classroom name is required")
	}
	return s.mutate(ctx, "classroom", "update", func() error {
		return s.gateways.Classrooms.Update(ctx, classroom.ID, repository.ClassroomFields(classroom))
	})
}

// DeleteClassroom removes a classroom and reloads.
func (s *Store) DeleteClassroom(ctx context.Context, id int64) error {
	return s.mutate(ctx, "classroom", "delete", func() error {
		return s.gateways.Classrooms.Delete(ctx, id)
	})
}

// CreateWorkRequest inserts a request in New Request status submitted today with no due date.
func (s *Store) CreateWorkRequest(ctx context.Context, input NewWorkRequest) (int64, error) {
	if err := validateRequestFields(input.Description, input.RequestorName, input.Priority); err != nil {
		return 0, err
	}
	request := models.WorkRequest{
		Description:   strings.TrimSpace(input.Description),
		RequestorName: strings.TrimSpace(input.RequestorName),
		SubmittedDate: s.Today(),
		Priority:      input.Priority,
		Status:        models.StatusNewRequest,
		SchoolID:      input.SchoolID,
		ProgramID:     input.ProgramID,
		Classroom:     normalizeClassroom(input.Classroom),
	}
	var id int64
	err := s.mutate(ctx, "work_request", "create", func() error {
		var err error
		id, err = s.gateways.WorkRequests.Insert(ctx, request)
		return err
	})
	return id, err
}

// UpdateWorkRequest writes every editable field of a request and reloads.
func (s *Store) UpdateWorkRequest(ctx context.Context, request models.WorkRequest) error {
	if err := validateRequestFields(request.Description, request.RequestorName, request.Priority); err != nil {
		return err
	}
	if !request.Status.Valid() {
		return validationError("status is invalid")
	}
	request.Description = strings.TrimSpace(request.Description)
	request.RequestorName = strings.TrimSpace(request.RequestorName)
	request.Classroom = normalizeClassroom(request.Classroom)
	return s.mutate(ctx, "work_request", "update", func() error {
		return s.gateways.WorkRequests.Update(ctx, request.ID, repository.WorkRequestFields(request))
	})
}

// UpdateWorkRequestStatus changes only the status of a request and reloads.
func (s *Store) UpdateWorkRequestStatus(ctx context.Context, id int64, status models.Status) error {
	if !status.Valid() {
		return validationError("status is invalid")
	}
	return s.mutate(ctx, "work_request", "update_status", func() error {
		return s.gateways.WorkRequests.Update(ctx, id, repository.StatusFields(status))
	})
}

// DeleteWorkRequest removes a request and reloads.
func (s *Store) DeleteWorkRequest(ctx context.Context, id int64) error {
	return s.mutate(ctx, "work_request", "delete", func() error {
		return s.gateways.WorkRequests.Delete(ctx, id)
	})
}

func validateRequestFields(description, requestor string, priority models.Priority) error {
	if strings.TrimSpace(description) == "" {
		return validationError("description is required")
	}
	if strings.TrimSpace(requestor) == "" {
		return validationError("requestor name is required")
	}
	if !priority.Valid() {
		return validationError("priority is required")
	}
	return nil
}

func normalizeClassroom(classroom *string) *string {
	if classroom == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*classroom)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// UI returns a copy of the UI state.
func (s *Store) UI() UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui
}

// SetSidebarCollapsed toggles the sidebar.
func (s *Store) SetSidebarCollapsed(collapsed bool) {
	s.mu.Lock()
	s.ui.SidebarCollapsed = collapsed
	s.mu.Unlock()
}

// SetZoom changes the board zoom level.
func (s *Store) SetZoom(zoom Zoom) error {
	if !zoom.Valid() {
		return validationError("zoom must be one of sm, md, lg")
	}
	s.mu.Lock()
	s.ui.Zoom = zoom
	s.mu.Unlock()
	return nil
}

// OpenModal replaces the active modal.
func (s *Store) OpenModal(m Modal) {
	s.mu.Lock()
	s.ui.Modal = m
	s.mu.Unlock()
}

// CloseModal clears the active modal.
func (s *Store) CloseModal() {
	s.mu.Lock()
	s.ui.Modal = nil
	s.mu.Unlock()
}

// ActiveModal returns the active modal, nil when none is open.
func (s *Store) ActiveModal() Modal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.Modal
}
