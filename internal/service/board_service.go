package service

import (
	"context"
	"time"

	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

// BoardServiceConfig tunes the derived views.
type BoardServiceConfig struct {
	HotlistLimit int
}

// BoardService serves the kanban, hotlist, calendar and search views.
type BoardService struct {
	store snapshotReader
	cfg   BoardServiceConfig
}

// NewBoardService constructs the service.
func NewBoardService(store snapshotReader, cfg BoardServiceConfig) *BoardService {
	if cfg.HotlistLimit <= 0 || cfg.HotlistLimit > board.DefaultHotlistLimit {
		cfg.HotlistLimit = board.DefaultHotlistLimit
	}
	return &BoardService{store: store, cfg: cfg}
}

// Kanban returns the six board columns for the optional program scope.
func (s *BoardService) Kanban(ctx context.Context, query dto.KanbanQuery) (*dto.KanbanResponse, error) {
	mode, err := board.ParseSortMode(query.Sort)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	requests, _ := board.ScopeToProgram(s.store.Snapshot(), query.Program)
	today := s.store.Today()
	return &dto.KanbanResponse{Mode: mode, Today: today, Columns: board.Kanban(requests, today, mode)}, nil
}

// Hotlist returns the ranked open requests. A non-positive limit, or one above the configured
// cap, uses the cap.
func (s *BoardService) Hotlist(ctx context.Context, program string, limit int) *dto.HotlistResponse {
	if limit <= 0 || limit > s.cfg.HotlistLimit {
		limit = s.cfg.HotlistLimit
	}
	requests, _ := board.ScopeToProgram(s.store.Snapshot(), program)
	return &dto.HotlistResponse{Limit: limit, Requests: board.Hotlist(requests, limit)}
}

// Calendar returns a month of submitted requests. Zero year or month default to the current
// month.
func (s *BoardService) Calendar(ctx context.Context, program string, year, month int) (*board.CalendarMonth, error) {
	today := s.store.Today().Time()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be positive")
	}
	requests, _ := board.ScopeToProgram(s.store.Snapshot(), program)
	cal := board.Calendar(requests, year, time.Month(month))
	return &cal, nil
}

// Search runs the global search.
func (s *BoardService) Search(ctx context.Context, query string) board.SearchResult {
	return board.Search(s.store.Snapshot(), query)
}
