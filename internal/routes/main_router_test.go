package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"complaint-analytics/pkg/config"
	"complaint-analytics/pkg/service"
	"complaint-analytics/pkg/validation"
)

// RouterTestSuite exercises routing and the middleware chain. Requests that would
// reach the database are not issued: there is no pool behind the router.
type RouterTestSuite struct {
	suite.Suite
	Echo       *echo.Echo
	JWT        service.JWTService
	AdminToken string
}

func (s *RouterTestSuite) SetupTest() {
	cfg := &config.Config{
		Server: config.ServerConfig{ExportRateLimit: 1},
		JWT:    config.JWTConfig{SecretKey: "router-test", AccessTokenTTL: time.Hour},
		Analytics: config.AnalyticsConfig{
			DefaultWindowDays: 30,
			QueryTimeout:      time.Second,
			Location:          time.UTC,
		},
	}

	e := echo.New()
	e.Validator = validation.New()
	s.JWT = service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	InitRouter(e, nil, nil, s.JWT, zap.NewNop(), cfg)
	s.Echo = e

	token, err := s.JWT.GenerateToken(1, "admin", 0)
	s.Require().NoError(err)
	s.AdminToken = token
}

func (s *RouterTestSuite) do(target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) TestHealthIsPublic() {
	rec := s.do("/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *RouterTestSuite) TestMetricsIsPublic() {
	rec := s.do("/metrics", "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestReportsRequireToken() {
	for _, path := range []string{
		"/api/reports/unified",
		"/api/reports/analytics",
		"/api/reports/heatmap",
		"/api/reports/export",
	} {
		rec := s.do(path, "")
		s.Equal(http.StatusUnauthorized, rec.Code, path)
	}
}

func (s *RouterTestSuite) TestBadFormatRejectedBeforeAnyRead() {
	rec := s.do("/api/reports/export?format=csv", s.AdminToken)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestExportIsRateLimited() {
	first := s.do("/api/reports/export?format=csv", s.AdminToken)
	s.Equal(http.StatusBadRequest, first.Code)

	second := s.do("/api/reports/export?format=csv", s.AdminToken)
	s.Equal(http.StatusTooManyRequests, second.Code)
}

func (s *RouterTestSuite) TestUnknownRoute() {
	rec := s.do("/api/reports/pie", s.AdminToken)
	s.Equal(http.StatusNotFound, rec.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
