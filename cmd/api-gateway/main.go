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

	_ "github.com/noah-isme/cgpa-planner-api/api/swagger"
	"github.com/noah-isme/cgpa-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/cgpa-planner-api/internal/middleware"
	"github.com/noah-isme/cgpa-planner-api/internal/repository"
	"github.com/noah-isme/cgpa-planner-api/internal/service"
	"github.com/noah-isme/cgpa-planner-api/pkg/cache"
	"github.com/noah-isme/cgpa-planner-api/pkg/config"
	"github.com/noah-isme/cgpa-planner-api/pkg/database"
	"github.com/noah-isme/cgpa-planner-api/pkg/jobs"
	"github.com/noah-isme/cgpa-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cgpa-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cgpa-planner-api/pkg/middleware/requestid"
)

// @title CGPA Planner API
// @version 1.0.0
// @description GPA, CGPA and target planning for Nigerian university grading scales.
// @BasePath /api/v1
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

	metricsSvc := service.NewMetricsService()
	validate := validator.New()
	calculator := service.NewCalculatorService(validate, metricsSvc, logr, service.CalculatorConfig{
		DefaultScale: cfg.GPA.DefaultScale,
		Precision:    cfg.GPA.DisplayPrecision,
	})
	readiness := map[string]handler.ReadinessCheck{}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	api := r.Group(cfg.APIPrefix)
	calcHandler := handler.NewCalculatorHandler(calculator)
	api.GET("/scales", calcHandler.Scales)
	api.POST("/calculations/semester", calcHandler.Semester)
	api.POST("/calculations/cgpa", calcHandler.CGPA)
	api.POST("/plans", calcHandler.Plan)

	var (
		queue   *jobs.Queue
		closers []func() error
	)
	if cfg.Records.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		closers = append(closers, db.Close)
		if err := database.EnsureSchema(ctx, db); err != nil {
			logr.Fatal("failed to prepare schema", zap.Error(err))
		}
		readiness["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }

		recordSvc, closeCache, cacheEnabled := buildRecordService(ctx, cfg, db, calculator, validate, metricsSvc, logr, readiness)
		if closeCache != nil {
			closers = append(closers, closeCache)
		}
		if cacheEnabled {
			queue = jobs.NewQueue("summary-refresh", recordSvc.HandleRefreshJob, jobs.QueueConfig{
				Workers:    cfg.Summary.WorkerConcurrency,
				MaxRetries: cfg.Summary.WorkerRetries,
				Logger:     logr,
			})
			queue.Start(ctx)
			recordSvc.SetQueue(queue)
		}

		recordHandler := handler.NewRecordHandler(recordSvc)
		users := api.Group("/users/:userId")
		users.POST("/records", recordHandler.Save)
		users.GET("/records", recordHandler.List)
		users.GET("/records/:id", recordHandler.Get)
		users.GET("/summary", recordHandler.Summary)

		if cfg.Transcripts.Enabled {
			transcriptHandler := handler.NewTranscriptHandler(service.NewTranscriptService(recordSvc, cfg.GPA.DisplayPrecision, logr))
			users.GET("/transcript", transcriptHandler.Download)
		}
	} else if cfg.Transcripts.Enabled {
		logr.Warn("transcripts require ENABLE_RECORDS; transcript routes not mounted")
	}

	metricsHandler := handler.NewMetricsHandler(metricsSvc, readiness)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down server")
	shutdown(srv, queue, closers, 10*time.Second, logr)
}

// shutdown drains in-flight requests, then stops the refresh queue, then
// closes dependencies in reverse order of creation.
func shutdown(srv *http.Server, queue *jobs.Queue, closers []func() error, timeout time.Duration, logr *zap.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
	if queue != nil {
		queue.Stop()
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logr.Warn("failed to close dependency", zap.Error(err))
		}
	}
}

// buildRecordService wires the record store and, when configured and
// reachable, the Redis summary cache. It returns the cache closer, nil when
// no cache was opened, and whether the cache is active.
func buildRecordService(ctx context.Context, cfg *config.Config, db *sqlx.DB, calculator *service.CalculatorService, validate *validator.Validate, metricsSvc *service.MetricsService, logr *zap.Logger, readiness map[string]handler.ReadinessCheck) (*service.RecordService, func() error, bool) {
	var (
		cacheRepo  service.CacheRepository
		closeCache func() error
	)
	if cfg.Summary.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable; summary cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			closeCache = client.Close
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, logr, cacheRepo != nil)

	recordSvc := service.NewRecordService(repository.NewRecordRepository(db), calculator, cacheSvc, nil, validate, metricsSvc, logr,
		service.RecordServiceConfig{CacheTTL: cfg.Summary.CacheTTL})
	return recordSvc, closeCache, cacheSvc.Enabled()
}
