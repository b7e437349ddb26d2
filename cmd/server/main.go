package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"leadflow.backend/internal/config"
	"leadflow.backend/internal/infrastructure/jobs"
	"leadflow.backend/internal/infrastructure/models"
	"leadflow.backend/internal/infrastructure/repositories"
	"leadflow.backend/internal/interfaces/http/handlers"
	"leadflow.backend/internal/interfaces/http/middleware"
	"leadflow.backend/internal/usecases"
	"leadflow.backend/pkg/logger"
	"leadflow.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	migrateDB = func(db *gorm.DB) error {
		return db.AutoMigrate(&models.TeamMember{}, &models.Lead{}, &models.LeadEvent{})
	}
	runServer = serveUntilDone
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis backs the idempotency keys of POST /leads
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		if err := migrateDB(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	// Repositories
	leadRepo := repositories.NewLeadRepository(db)
	eventRepo := repositories.NewLeadEventRepository(db)
	memberRepo := repositories.NewTeamMemberRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Usecases
	leadCache := usecases.NewLeadCache(leadRepo, cfg.Leads.StoreTimeout)
	leadUsecase := usecases.NewLeadUsecase(leadRepo, eventRepo, memberRepo, uow, leadCache, usecases.LeadUsecaseConfig{
		Rules: usecases.ValidationRules{RequireCompany: cfg.Leads.RequireCompany},
		Transition: usecases.TransitionOptions{
			FollowUpWindow:      cfg.Leads.FollowUpWindow,
			ClearFollowUpOnExit: cfg.Leads.ClearFollowUpOnExit,
			Policy:              usecases.NewTransitionPolicy(cfg.Leads.TransitionPolicy),
		},
		StoreTimeout: cfg.Leads.StoreTimeout,
	})
	dashboardUsecase := usecases.NewDashboardUsecase(leadCache, memberRepo, cfg.Dashboard.FollowUpLimit)
	teamMemberUsecase := usecases.NewTeamMemberUsecase(
		memberRepo, leadRepo, eventRepo, uow, leadCache,
		usecases.ParseTeamDeletePolicy(cfg.Team.DeletePolicy),
		cfg.Leads.StoreTimeout,
	)

	// Handlers
	leadHandler := handlers.NewLeadHandler(leadUsecase)
	pipelineHandler := handlers.NewPipelineHandler(dashboardUsecase, leadUsecase)
	teamMemberHandler := handlers.NewTeamMemberHandler(teamMemberUsecase)

	// Background jobs
	refreshJob := jobs.NewLeadCacheRefreshJob(leadCache, cfg.Jobs.CacheRefreshSpec, cfg.Leads.StoreTimeout)
	if err := refreshJob.Start(ctx); err != nil {
		return fmt.Errorf("failed to schedule cache refresh: %w", err)
	}
	defer refreshJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerAPIV1Routes(r, routeDeps{
		leadHandler:           leadHandler,
		pipelineHandler:       pipelineHandler,
		teamMemberHandler:     teamMemberHandler,
		idempotencyMiddleware: middleware.IdempotencyMiddleware(),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	logger.Info(ctx, "Leadflow backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)

	if err := runServer(ctx, r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(context.Background(), "Server stopped")
	return nil
}

// serveUntilDone serves r until ctx is cancelled, then shuts down gracefully.
func serveUntilDone(ctx context.Context, r *gin.Engine, port string) error {
	srv := &http.Server{Addr: ":" + port, Handler: r}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
