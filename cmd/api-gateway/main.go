package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/program-workboard-api/api/swagger"
	"github.com/noah-isme/program-workboard-api/internal/assistant"
	"github.com/noah-isme/program-workboard-api/internal/handler"
	internalmiddleware "github.com/noah-isme/program-workboard-api/internal/middleware"
	"github.com/noah-isme/program-workboard-api/internal/repository"
	"github.com/noah-isme/program-workboard-api/internal/service"
	"github.com/noah-isme/program-workboard-api/internal/store"
	"github.com/noah-isme/program-workboard-api/pkg/cache"
	"github.com/noah-isme/program-workboard-api/pkg/config"
	"github.com/noah-isme/program-workboard-api/pkg/database"
	"github.com/noah-isme/program-workboard-api/pkg/export"
	"github.com/noah-isme/program-workboard-api/pkg/jobs"
	"github.com/noah-isme/program-workboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/program-workboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/program-workboard-api/pkg/middleware/requestid"
	"github.com/noah-isme/program-workboard-api/pkg/storage"
)

// @title Program Workboard API
// @version 1.0.0
// @description Work request tracking for school programs
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "driver", cfg.Database.Driver, "error", err)
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.Driver == config.DriverSQLite {
		if err := repository.EnsureSchema(ctx, db); err != nil {
			logr.Sugar().Fatalw("schema bootstrap failed", "error", err)
		}
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	st := store.New(store.Gateways{
		Programs:     repository.NewProgramRepository(db),
		Schools:      repository.NewSchoolRepository(db),
		Classrooms:   repository.NewClassroomRepository(db),
		WorkRequests: repository.NewWorkRequestRepository(db),
	}, store.Options{
		Logger:   logr.Named("store"),
		Observer: metricsSvc,
		Location: cfg.Board.Location(),
	})

	cacheSvc, closeCache := buildCache(ctx, cfg, metricsSvc, logr)
	defer closeCache()

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Store:  st,
		Cache:  cacheSvc,
		Logger: logr.Named("dashboard"),
		Config: service.DashboardServiceConfig{
			CacheTTL:     cfg.Dashboard.CacheTTL,
			ProgramTopN:  cfg.Board.ProgramTopN,
			HotlistLimit: cfg.Board.HotlistLimit,
		},
	})
	st.OnReload(dashboardSvc.HandleReload)
	st.OnReload(func(ctx context.Context, snap *store.Snapshot) {
		metricsSvc.SetSnapshotVersion(snap.Version)
	})

	if err := st.Reload(ctx); err != nil {
		logr.Sugar().Fatalw("initial load failed", "error", err)
	}

	programSvc := service.NewProgramService(st, validate, logr, cfg.Board.ProgramTopN)
	schoolSvc := service.NewSchoolService(st, validate, logr)
	classroomSvc := service.NewClassroomService(st, validate, logr)
	workRequestSvc := service.NewWorkRequestService(st, validate, metricsSvc, logr.Named("work_requests"))
	boardSvc := service.NewBoardService(st, service.BoardServiceConfig{HotlistLimit: cfg.Board.HotlistLimit})
	uiSvc := service.NewUIService(st, validate)

	var provider assistant.Provider
	if cfg.Assistant.Enabled() {
		provider = assistant.NewOpenAIProvider(cfg.Assistant, logr.Named("assistant"))
	} else {
		logr.Info("assistant disabled: OPENAI_API_KEY not set")
	}
	assistantSvc := service.NewAssistantService(st, provider, metricsSvc, validate, logr.Named("assistant"), service.AssistantServiceConfig{})

	exportJobs, exportQueue := buildExports(ctx, cfg, st, validate, metricsSvc, logr)
	if exportQueue != nil {
		exportQueue.Start(ctx)
		defer exportQueue.Stop()
		metricsSvc.TrackQueue(exportQueue.Name(), exportQueue.Len)
		exportJobs.StartCleanup(ctx)
	}

	metricsHandler := handler.NewMetricsHandler(metricsSvc, readinessChecks(db, st, cacheSvc))
	programHandler := handler.NewProgramHandler(programSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	workRequestHandler := handler.NewWorkRequestHandler(workRequestSvc)
	boardHandler := handler.NewBoardHandler(boardSvc)
	uiHandler := handler.NewUIHandler(uiSvc, workRequestSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	exportHandler := handler.NewExportHandler(exportJobs)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/metrics", "/health", "/ready"))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	programs := api.Group("/programs")
	programs.GET("", programHandler.List)
	programs.POST("", programHandler.Create)
	programs.GET("/slug/:slug", programHandler.GetBySlug)
	programs.PUT("/:id", programHandler.Update)

	schools := api.Group("/schools")
	schools.GET("", schoolHandler.List)
	schools.POST("", schoolHandler.Create)
	schools.GET("/:id", schoolHandler.Profile)
	schools.PUT("/:id", schoolHandler.Update)
	schools.DELETE("/:id", schoolHandler.Delete)

	classrooms := api.Group("/classrooms")
	classrooms.GET("", classroomHandler.List)
	classrooms.POST("", classroomHandler.Create)
	classrooms.PUT("/:id", classroomHandler.Update)
	classrooms.DELETE("/:id", classroomHandler.Delete)

	requests := api.Group("/work-requests")
	requests.GET("", workRequestHandler.List)
	requests.POST("", workRequestHandler.Create)
	requests.GET("/:id", workRequestHandler.Get)
	requests.PUT("/:id", workRequestHandler.Update)
	requests.DELETE("/:id", workRequestHandler.Delete)
	requests.PATCH("/:id/status", workRequestHandler.UpdateStatus)
	requests.POST("/:id/move", workRequestHandler.Move)

	boardGroup := api.Group("/board")
	boardGroup.GET("/kanban", boardHandler.Kanban)
	boardGroup.GET("/hotlist", boardHandler.Hotlist)
	boardGroup.GET("/calendar", boardHandler.Calendar)
	api.GET("/search", boardHandler.Search)

	api.GET("/dashboard", dashboardHandler.Summary)

	ui := api.Group("/ui")
	ui.GET("/state", uiHandler.State)
	ui.PUT("/state", uiHandler.UpdateState)
	ui.GET("/modal", uiHandler.ActiveModal)
	ui.PUT("/modal", uiHandler.OpenModal)
	ui.POST("/modal", uiHandler.SubmitTransition)
	ui.DELETE("/modal", uiHandler.CloseModal)

	assistantGroup := api.Group("/assistant")
	assistantGroup.POST("/chats", assistantHandler.StartChat)
	assistantGroup.POST("/chats/:id/messages", assistantHandler.SendMessage)
	assistantGroup.DELETE("/chats/:id", assistantHandler.EndChat)
	assistantGroup.POST("/summary", assistantHandler.Summarize)

	exportsGroup := api.Group("/exports")
	exportsGroup.POST("", exportHandler.Create)
	exportsGroup.GET("/download", exportHandler.Download)
	exportsGroup.GET("/:id", exportHandler.Status)

	api.GET("/system/metrics", metricsHandler.Summary)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}

// buildCache connects Redis when the dashboard cache is enabled. A failed connection leaves the
// dashboard uncached.
func buildCache(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*service.CacheService, func()) {
	if !cfg.Dashboard.CacheEnabled {
		return service.NewCacheService(nil, metrics, cfg.Dashboard.CacheTTL, logr, false), func() {}
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		return service.NewCacheService(nil, metrics, cfg.Dashboard.CacheTTL, logr, false), func() {}
	}
	repo := repository.NewCacheRepository(client, cfg.Redis.KeyPrefix, logr.Named("cache"))
	return service.NewCacheService(repo, metrics, cfg.Dashboard.CacheTTL, logr.Named("cache"), true), func() {
		_ = repo.Close()
	}
}

// buildExports wires storage, the worker and its queue. The queue is nil when exports are
// disabled or storage cannot be opened.
func buildExports(ctx context.Context, cfg *config.Config, st *store.Store, validate *validator.Validate, metrics *service.MetricsService, logr *zap.Logger) (*service.ExportJobService, *jobs.Queue) {
	registry := service.NewExportJobRegistry()
	jobCfg := service.ExportJobServiceConfig{
		Enabled:         cfg.Exports.Enabled,
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	}
	if !cfg.Exports.Enabled {
		return service.NewExportJobService(registry, nil, nil, validate, metrics, logr, jobCfg), nil
	}

	files, err := storage.Open(ctx, cfg.Exports)
	if err != nil {
		logr.Sugar().Warnw("export storage unavailable, exports disabled", "driver", cfg.Exports.StorageDriver, "error", err)
		jobCfg.Enabled = false
		return service.NewExportJobService(registry, nil, nil, validate, metrics, logr, jobCfg), nil
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exporter := service.NewExportService(st, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr.Named("exports"), export.NewCSVExporter(), export.NewPDFExporter())

	worker := service.NewExportWorker(registry, exporter, metrics, logr.Named("exports"))
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr.Named("queue"),
		Exhausted:  worker.Abandon,
	})
	return service.NewExportJobService(registry, queue, exporter, validate, metrics, logr.Named("exports"), jobCfg), queue
}

func readinessChecks(db *sqlx.DB, st *store.Store, cacheSvc *service.CacheService) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
		"store": func(ctx context.Context) error {
			if st.Snapshot().Version == 0 {
				return errors.New("no snapshot loaded")
			}
			return nil
		},
	}
	if cacheSvc.Enabled() {
		checks["cache"] = cacheSvc.Ping
	}
	return checks
}
