package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"complaint-analytics/internal/controllers"
	"complaint-analytics/internal/services"
)

func runReportRouter(
	secureGroup *echo.Group,
	analyticsService services.AnalyticsServiceInterface,
	location *time.Location,
	exportRateLimit float64,
	logger *zap.Logger,
) {
	analyticsController := controllers.NewAnalyticsController(analyticsService, location, logger)

	reports := secureGroup.Group("/reports")
	reports.GET("/unified", analyticsController.Unified)
	// the older basic endpoint now returns the unified payload
	reports.GET("/analytics", analyticsController.Unified)
	reports.GET("/heatmap", analyticsController.Heatmap)

	exportMW := []echo.MiddlewareFunc{}
	if exportRateLimit > 0 {
		burst := int(exportRateLimit)
		if burst < 1 {
			burst = 1
		}
		store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(exportRateLimit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		})
		exportMW = append(exportMW, echomw.RateLimiter(store))
	}
	reports.GET("/export", analyticsController.Export, exportMW...)
}
