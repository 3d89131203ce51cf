package main

import (
	"context"
	"errors"
	"jobconnect-backend/config"
	_ "jobconnect-backend/docs" // Important for Swagger
	"jobconnect-backend/internal/delivery/http/middleware"
	v1 "jobconnect-backend/internal/delivery/http/v1"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/policy"
	"jobconnect-backend/internal/repository/memory"
	"jobconnect-backend/internal/repository/postgres"
	"jobconnect-backend/internal/usecase"
	"jobconnect-backend/pkg/audit"
	"jobconnect-backend/pkg/auth"
	"jobconnect-backend/pkg/database"
	"jobconnect-backend/pkg/events"
	"jobconnect-backend/pkg/logger"
	"jobconnect-backend/pkg/redis"
	"jobconnect-backend/pkg/storage"
	"jobconnect-backend/pkg/validation"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

type repositories struct {
	users        domain.UserRepository
	jobs         domain.JobRepository
	applications domain.ApplicationRepository
	ping         usecase.Pinger
	close        func()
}

// @title           JobConnect API
// @version         1.0
// @description     Job board backend: recruiters post jobs, job seekers apply, each party sees what its role allows.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	appLog := logger.New(cfg.LogLevel)
	auditLog := audit.New("jobconnect-backend", cfg.GinMode)
	defer auditLog.Sync()
	appLog.Info("Starting jobconnect backend", "port", cfg.Port, "storage", cfg.StorageDriver)

	ctx := context.Background()

	// 3. Setup Storage
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		appLog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	// 4. Optional infrastructure
	redisClient := openRedis(ctx, cfg, appLog)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher := events.Nop()
	if cfg.NATSURL != "" {
		if p, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSConnTimeout, appLog); err != nil {
			appLog.Warn("NATS unavailable, domain events disabled", "error", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	var resumes domain.ResumeStorage
	resumeStore, err := storage.NewResumeStore(ctx, storage.S3Config{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
		PresignExpiry:   cfg.ResumeUploadExpiry,
	})
	switch {
	case err == nil:
		resumes = resumeStore
	case errors.Is(err, storage.ErrNotConfigured):
		appLog.Warn("S3 not configured, resume uploads disabled")
	default:
		appLog.Warn("S3 unavailable, resume uploads disabled", "error", err)
	}

	// 5. Setup Auth
	var jwksProvider *auth.Provider
	if cfg.JWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.JWKSURL)
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry, jwksProvider)

	// 6. Setup UseCases
	validate := validation.New()
	deps := usecase.Deps{
		Policy: policy.New(cfg.RecruitersManageUsers),
		Audit:  auditLog,
		Events: publisher,
		Logger: appLog,
	}
	authUC := usecase.NewAuthUsecase(repos.users, tokens, validate, deps)
	userUC := usecase.NewUserUsecase(repos.users, validate, deps)
	jobUC := usecase.NewJobUsecase(repos.jobs, validate, deps)
	applicationUC := usecase.NewApplicationUsecase(repos.applications, repos.jobs, resumes, validate, deps)

	checks := map[string]usecase.Pinger{"store": repos.ping}
	if redisClient != nil {
		checks["redis"] = usecase.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		RateLimiter:   middleware.NewRateLimiter(redisClient, auditLog, appLog),
		Logger:        appLog,
		Config:        cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	appLog.Info("Server exiting")
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore()
		return &repositories{
			users:        store.Users(),
			jobs:         store.Jobs(),
			applications: store.Applications(),
			ping:         usecase.PingFunc(func(context.Context) error { return nil }),
			close:        func() {},
		}, nil
	}

	pool, err := database.NewPostgresConnection(ctx, database.Options{
		URL:      cfg.DBUrl,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, err
	}
	return &repositories{
		users:        postgres.NewUserRepository(pool),
		jobs:         postgres.NewJobRepository(pool),
		applications: postgres.NewApplicationRepository(pool),
		ping:         pool,
		close:        pool.Close,
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config, appLog *slog.Logger) *goredis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		appLog.Warn("Redis unavailable, rate limiting uses in-memory fallback", "error", err)
		return nil
	}
	return client
}
