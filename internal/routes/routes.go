package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"complaint-analytics/internal/repositories"
	"complaint-analytics/internal/services"
	"complaint-analytics/pkg/config"
	"complaint-analytics/pkg/middleware"
	"complaint-analytics/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: building routes")

	// --- 0. PUBLIC ---
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger.Named("auth"))

	// --- 1. REPOSITORIES ---
	complaintRepo := repositories.NewComplaintRepository(dbConn)
	dictionaryRepo := repositories.NewDictionaryRepository(dbConn)
	configRepo := repositories.NewSystemConfigRepository(dbConn)
	var cacheRepo repositories.CacheRepositoryInterface
	if redisClient != nil {
		cacheRepo = repositories.NewRedisCacheRepository(redisClient, cfg.Redis.Namespace)
	}

	// --- 2. SERVICES ---
	baseService := services.NewBaseService(cacheRepo, logger)
	analyticsService := services.NewAnalyticsService(
		baseService, complaintRepo, dictionaryRepo, configRepo, cfg.Analytics, logger.Named("analytics"),
	)

	// --- 3. ROUTERS ---
	secureGroup := api.Group("", authMW.Auth)
	runReportRouter(secureGroup, analyticsService, cfg.Analytics.Location, cfg.Server.ExportRateLimit, logger)

	logger.Info("InitRouter: routes ready")
}
