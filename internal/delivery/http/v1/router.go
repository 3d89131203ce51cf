package v1

import (
	"jobconnect-backend/config"
	"jobconnect-backend/internal/delivery/http/middleware"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/usecase"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	UserUC        domain.UserUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	HealthUC      usecase.HealthUsecase
	RateLimiter   *middleware.RateLimiter
	Logger        *slog.Logger
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares. ErrorHandler sits inside the logger so the logged
	// status is the rendered one.
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Logger))

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	r.Use(deps.RateLimiter.Middleware(middleware.GlobalConfig(deps.Config.RateLimitGlobalThreshold, window)))
	authLimit := deps.RateLimiter.Middleware(middleware.AuthConfig(deps.Config.RateLimitAuthThreshold, window))

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := middleware.AuthMiddleware(deps.AuthUC)
	optionalAuth := middleware.OptionalAuthMiddleware(deps.AuthUC)

	NewAuthHandler(api, requireAuth, authLimit, deps.AuthUC, deps.Config.JWTExpiry, deps.Config.IsRelease())
	NewJobHandler(api, requireAuth, optionalAuth, deps.JobUC)

	protected := api.Group("")
	protected.Use(requireAuth)
	{
		NewUserHandler(protected, deps.UserUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
	}

	return r
}
