package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/filter"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

// MetricsHandler serves the dashboard aggregation endpoints.
type MetricsHandler struct {
	service ports.MetricsService
}

func NewMetricsHandler(service ports.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// Summary handles GET /api/metrics.
//
// @Summary      Aggregated call metrics for the caller's scope
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        clientId       query     string  false  "Client filter (ceo only for foreign clients)"
// @Param        userId         query     string  false  "User filter (admin and ceo)"
// @Param        dateFrom       query     string  false  "YYYY-MM-DD or RFC3339"
// @Param        dateTo         query     string  false  "YYYY-MM-DD (whole day) or RFC3339"
// @Param        trafficSource  query     string  false  "organic, meta or all"
// @Success      200            {object}  successResponse{data=domain.DerivedMetrics}
// @Failure      400            {object}  ErrorResponse
// @Failure      401            {object}  ErrorResponse
// @Failure      403            {object}  ErrorResponse
// @Router       /api/metrics [get]
func (h *MetricsHandler) Summary(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	f, err := filter.NormalizeMetrics(c.QueryParams())
	if err != nil {
		return err
	}

	m, applied, err := h.service.Summary(c.Request().Context(), p, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(m, echoFilter(applied), p))
}

// Weekly handles GET /api/metrics/weekly.
//
// @Summary      Metrics over the trailing 7 days
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Client filter"
// @Param        userId    query     string  false  "User filter"
// @Success      200       {object}  successResponse{data=domain.DerivedMetrics}
// @Failure      403       {object}  ErrorResponse
// @Router       /api/metrics/weekly [get]
func (h *MetricsHandler) Weekly(c echo.Context) error {
	return h.window(c, ports.WindowWeekly)
}

// Monthly handles GET /api/metrics/monthly.
//
// @Summary      Metrics over the trailing 30 days
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Client filter"
// @Param        userId    query     string  false  "User filter"
// @Success      200       {object}  successResponse{data=domain.DerivedMetrics}
// @Failure      403       {object}  ErrorResponse
// @Router       /api/metrics/monthly [get]
func (h *MetricsHandler) Monthly(c echo.Context) error {
	return h.window(c, ports.WindowMonthly)
}

// Realtime handles GET /api/metrics/realtime.
//
// @Summary      Metrics over the trailing 24 hours
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Client filter"
// @Param        userId    query     string  false  "User filter"
// @Success      200       {object}  successResponse{data=domain.DerivedMetrics}
// @Failure      403       {object}  ErrorResponse
// @Router       /api/metrics/realtime [get]
func (h *MetricsHandler) Realtime(c echo.Context) error {
	return h.window(c, ports.WindowRealtime)
}

func (h *MetricsHandler) window(c echo.Context, w ports.Window) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	f, err := filter.NormalizeMetrics(c.QueryParams())
	if err != nil {
		return err
	}

	m, applied, err := h.service.Window(c.Request().Context(), p, f, w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(m, echoFilter(applied), p))
}

// Comparison handles GET /api/metrics/comparison.
//
// @Summary      Compare two periods over the same scope
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        currentDateFrom   query     string  true   "Current window start"
// @Param        currentDateTo     query     string  true   "Current window end"
// @Param        previousDateFrom  query     string  true   "Previous window start"
// @Param        previousDateTo    query     string  true   "Previous window end"
// @Param        clientId          query     string  false  "Client filter"
// @Param        userId            query     string  false  "User filter"
// @Success      200               {object}  successResponse{data=map[string]domain.ComparisonMetric}
// @Failure      400               {object}  ErrorResponse
// @Failure      403               {object}  ErrorResponse
// @Router       /api/metrics/comparison [get]
func (h *MetricsHandler) Comparison(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	f, err := filter.NormalizeComparison(c.QueryParams())
	if err != nil {
		return err
	}

	out, applied, err := h.service.Comparison(c.Request().Context(), p, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(out, comparisonFiltersEcho{
		Current:  echoFilter(applied.Current),
		Previous: echoFilter(applied.Previous),
	}, p))
}

// Trend handles GET /api/metrics/trend.
//
// @Summary      Daily zero-filled series over the trailing N days
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        days      query     int     false  "Number of days (1-365, default 30)"
// @Param        clientId  query     string  false  "Client filter"
// @Param        userId    query     string  false  "User filter"
// @Success      200       {object}  successResponse{data=[]domain.TrendPoint}
// @Failure      400       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Router       /api/metrics/trend [get]
func (h *MetricsHandler) Trend(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	f, err := filter.NormalizeTrend(c.QueryParams())
	if err != nil {
		return err
	}

	points, applied, err := h.service.Trend(c.Request().Context(), p, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(points, trendFiltersEcho{
		filtersEcho: echoFilter(applied.MetricsFilter),
		Days:        applied.Days,
	}, p))
}

// ClearCache handles DELETE /api/metrics/cache.
//
// @Summary      Drop every cached aggregation
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /api/metrics/cache [delete]
func (h *MetricsHandler) ClearCache(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.ClearCache(c.Request().Context(), p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "metrics cache cleared"})
}

// TrafficSources handles GET /api/analytics/traffic-sources.
//
// @Summary      Metrics broken down by acquisition channel
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Client filter"
// @Param        userId    query     string  false  "User filter"
// @Param        dateFrom  query     string  false  "Window start"
// @Param        dateTo    query     string  false  "Window end"
// @Success      200       {object}  successResponse{data=map[string]domain.DerivedMetrics}
// @Failure      403       {object}  ErrorResponse
// @Router       /api/analytics/traffic-sources [get]
func (h *MetricsHandler) TrafficSources(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	f, err := filter.NormalizeMetrics(c.QueryParams())
	if err != nil {
		return err
	}

	out, applied, err := h.service.TrafficSources(c.Request().Context(), p, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(out, echoFilter(applied), p))
}

// Leaderboard handles GET /api/analytics/leaderboard.
//
// @Summary      Salespeople ranked by cash collected
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        clientId       query     string  false  "Client filter"
// @Param        dateFrom       query     string  false  "Window start"
// @Param        dateTo         query     string  false  "Window end"
// @Param        trafficSource  query     string  false  "organic, meta or all"
// @Success      200            {object}  successResponse{data=[]domain.LeaderboardEntry}
// @Failure      403            {object}  ErrorResponse
// @Router       /api/analytics/leaderboard [get]
func (h *MetricsHandler) Leaderboard(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	f, err := filter.NormalizeMetrics(c.QueryParams())
	if err != nil {
		return err
	}

	entries, applied, err := h.service.Leaderboard(c.Request().Context(), p, f)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return c.JSON(http.StatusOK, success(entries, echoFilter(applied), p))
}
