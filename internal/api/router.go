package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/closerhq/agency-dashboard/internal/api/handler"
	"github.com/closerhq/agency-dashboard/internal/api/middleware"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/http/handlers"
)

// Deps groups everything the router needs. Services are built by the caller
// so tests can pass stubs.
type Deps struct {
	Logger      zerolog.Logger
	Verifier    ports.TokenVerifier
	DefaultRole domain.Role

	Metrics   ports.MetricsService
	Calls     ports.CallService
	Directory ports.DirectoryService

	// Readiness reports dependency health; nil registers a probe with no checks.
	Readiness *handlers.HealthDependenciesHandler

	RateLimitRPS   float64
	RateLimitBurst int
	// Registerer receives the HTTP request metrics; nil means the default registry.
	Registerer prometheus.Registerer
	// Swagger mounts the API docs under /swagger.
	Swagger bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "agency_dashboard",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operations (no auth required) ---
	readiness := d.Readiness
	if readiness == nil {
		readiness = handlers.NewHealthDependenciesHandler()
	}
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", readiness.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	if d.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- API ---
	api := e.Group("/api",
		middleware.Auth(d.Verifier, d.DefaultRole),
		middleware.RateLimit(d.RateLimitRPS, d.RateLimitBurst),
	)

	dir := handler.NewDirectoryHandler(d.Directory)
	api.GET("/me", dir.Me)
	api.GET("/clients", dir.ListClients)
	api.GET("/clients/:id", dir.GetClient)
	api.GET("/users", dir.ListUsers, middleware.RBAC(domain.RoleAdmin, domain.RoleCEO))

	m := handler.NewMetricsHandler(d.Metrics)
	api.GET("/metrics", m.Summary)
	api.GET("/metrics/weekly", m.Weekly)
	api.GET("/metrics/monthly", m.Monthly)
	api.GET("/metrics/realtime", m.Realtime)
	api.GET("/metrics/comparison", m.Comparison)
	api.GET("/metrics/trend", m.Trend)
	api.DELETE("/metrics/cache", m.ClearCache, middleware.RBAC(domain.RoleAdmin, domain.RoleCEO))
	api.GET("/analytics/traffic-sources", m.TrafficSources)
	api.GET("/analytics/leaderboard", m.Leaderboard)

	calls := handler.NewCallHandler(d.Calls)
	api.GET("/calls", calls.List)
	api.POST("/calls", calls.Create)
	api.GET("/calls/:id", calls.Get)
	api.PUT("/calls/:id", calls.Update)
	api.PATCH("/calls/:id/stage", calls.MoveStage)
	api.DELETE("/calls/:id", calls.Delete)
	api.GET("/calls/:id/history", calls.History)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
