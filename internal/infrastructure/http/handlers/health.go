package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness godoc
// @Summary     Liveness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger checks one backing dependency.
type Pinger func(ctx context.Context) error

// HealthDependenciesHandler handles GET /health/ready. Only the dependencies
// enabled by configuration are registered and checked.
type HealthDependenciesHandler struct {
	checks map[string]Pinger
}

func NewHealthDependenciesHandler() *HealthDependenciesHandler {
	return &HealthDependenciesHandler{checks: make(map[string]Pinger)}
}

// WithCheck registers a named dependency check.
func (h *HealthDependenciesHandler) WithCheck(name string, p Pinger) *HealthDependenciesHandler {
	h.checks[name] = p
	return h
}

// WithPostgres registers the call store.
func (h *HealthDependenciesHandler) WithPostgres(pool *pgxpool.Pool) *HealthDependenciesHandler {
	return h.WithCheck("postgres", pool.Ping)
}

// WithMongo registers the audit store.
func (h *HealthDependenciesHandler) WithMongo(db *mongo.Database) *HealthDependenciesHandler {
	return h.WithCheck("mongodb", func(ctx context.Context) error {
		return db.Client().Ping(ctx, nil)
	})
}

// WithRedis registers the shared metrics cache.
func (h *HealthDependenciesHandler) WithRedis(rdb *redis.Client) *HealthDependenciesHandler {
	return h.WithCheck("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
// @Summary     Readiness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} readinessResponse
// @Failure     503 {object} readinessResponse
// @Router      /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
