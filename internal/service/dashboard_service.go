package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/analytics"
	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/store"
)

const dashboardCachePrefix = "dashboard:"

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL     time.Duration
	ProgramTopN  int
	HotlistLimit int
}

// DashboardService composes the dashboard payload from the current snapshot.
type DashboardService struct {
	store  snapshotReader
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Store  snapshotReader
	Cache  *CacheService
	Logger *zap.Logger
	Config DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.ProgramTopN <= 0 {
		cfg.ProgramTopN = board.DefaultProgramTopN
	}
	if cfg.HotlistLimit <= 0 {
		cfg.HotlistLimit = board.DefaultHotlistLimit
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		store:  params.Store,
		cache:  params.Cache,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// Summary returns the dashboard payload and indicates cache utilisation. Entries are keyed by
// snapshot version and day, so a reload never serves stale numbers.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	snap := s.store.Snapshot()
	today := s.store.Today()
	cacheKey := fmt.Sprintf("%sv%d:%s", dashboardCachePrefix, snap.Version, today)

	if cached, hit := s.tryCache(ctx, cacheKey); hit {
		return cached, true, nil
	}

	summary := &dto.DashboardResponse{
		Analytics:       analytics.Summarize(snap.WorkRequests, today),
		Programs:        board.ProgramSummaries(snap, s.cfg.ProgramTopN),
		Hotlist:         board.Hotlist(snap.WorkRequests, s.cfg.HotlistLimit),
		Today:           today,
		SnapshotVersion: snap.Version,
		GeneratedAt:     s.now().UTC(),
	}
	s.persistCache(ctx, cacheKey, summary)
	return summary, false, nil
}

// HandleReload drops cached payloads of older snapshots. It is registered as a store reload
// hook.
func (s *DashboardService) HandleReload(ctx context.Context, snap *store.Snapshot) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePrefix+"*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Uint64("version", snap.Version), zap.Error(err))
	}
}

func (s *DashboardService) tryCache(ctx context.Context, key string) (*dto.DashboardResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	var cached dto.DashboardResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("dashboard cache read failed, recomputing", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &cached, true
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
