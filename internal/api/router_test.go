package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closerhq/agency-dashboard/internal/api/middleware"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/identity"
	"github.com/closerhq/agency-dashboard/internal/core/service"
	"github.com/closerhq/agency-dashboard/internal/infrastructure/cache"
)

// fixedMetricsRepo returns the same counts for any filter and records the
// last filter it saw.
type fixedMetricsRepo struct {
	counts domain.CallCounts
	last   domain.MetricsFilter
}

func (r *fixedMetricsRepo) Aggregate(_ context.Context, f domain.MetricsFilter) (domain.CallCounts, error) {
	r.last = f
	return r.counts, nil
}

func (r *fixedMetricsRepo) AggregateDaily(_ context.Context, f domain.MetricsFilter) ([]domain.DailyCounts, error) {
	r.last = f
	return nil, nil
}

func (r *fixedMetricsRepo) AggregateByUser(_ context.Context, f domain.MetricsFilter) ([]domain.UserCounts, error) {
	r.last = f
	return nil, nil
}

// listingCallRepo serves List only and records the applied filter.
type listingCallRepo struct {
	last  domain.CallListFilter
	calls int
}

func (r *listingCallRepo) Create(context.Context, *domain.CallRecord) error { return nil }

func (r *listingCallRepo) FindByID(context.Context, string, domain.Scope) (*domain.CallRecord, error) {
	return nil, domain.NotFoundError("call not found")
}

func (r *listingCallRepo) FindByIdempotencyKey(context.Context, string, string) (*domain.CallRecord, error) {
	return nil, domain.NotFoundError("call not found")
}

func (r *listingCallRepo) List(_ context.Context, f domain.CallListFilter) ([]*domain.CallRecord, int64, error) {
	r.calls++
	r.last = f
	return []*domain.CallRecord{{ID: "call-1", ClientID: f.ClientID, UserID: f.UserID, Stage: domain.StageScheduled}}, 1, nil
}

func (r *listingCallRepo) Update(context.Context, *domain.CallRecord) error { return nil }

func (r *listingCallRepo) UpdateStage(context.Context, string, domain.Stage, domain.Stage, time.Time) error {
	return nil
}

func (r *listingCallRepo) SoftDelete(context.Context, string, time.Time) error { return nil }

var tokens = map[string]identity.Claims{
	"sales-token": {Subject: "u1", Role: "sales", ClientID: "c1"},
	"admin-token": {Subject: "a1", Role: "admin", ClientID: "c1"},
}

func newTestRouter(t *testing.T) (http.Handler, *fixedMetricsRepo) {
	h, repo, _ := newTestRouterWithCalls(t)
	return h, repo
}

func newTestRouterWithCalls(t *testing.T) (http.Handler, *fixedMetricsRepo, *listingCallRepo) {
	t.Helper()
	repo := &fixedMetricsRepo{counts: domain.CallCounts{Scheduled: 10, ClosedWon: 2}}
	calls := &listingCallRepo{}
	log := zerolog.Nop()

	verifier := middleware.VerifierFunc(func(_ context.Context, token string) (identity.Claims, error) {
		claims, ok := tokens[token]
		if !ok {
			return identity.Claims{}, domain.AuthenticationError("invalid token")
		}
		return claims, nil
	})

	e := NewRouter(Deps{
		Logger:         log,
		Verifier:       verifier,
		DefaultRole:    domain.RoleSales,
		Metrics:        service.NewMetricsService(repo, cache.NewMemory(time.Minute), log),
		Calls:          service.NewCallService(calls, nil, nil, nil, log),
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		Registerer:     prometheus.NewRegistry(),
	})
	return e, repo, calls
}

func do(t *testing.T, h http.Handler, method, target, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func errorCode(body map[string]any) any {
	e, _ := body["error"].(map[string]any)
	return e["code"]
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, _ := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MissingToken(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/metrics", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "AUTHENTICATION_ERROR", errorCode(body))
}

func TestRouter_SalesCrossTenantForbidden(t *testing.T) {
	h, repo := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/metrics?clientId=c2", "sales-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTHORIZATION_ERROR", errorCode(body))
	assert.Empty(t, repo.last.ClientID, "repository must not be queried")
}

func TestRouter_SalesNarrowedToSelf(t *testing.T) {
	h, repo := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/metrics?dateFrom=2024-01-01&dateTo=2024-01-31", "sales-token")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "c1", repo.last.ClientID)
	assert.Equal(t, "u1", repo.last.UserID)

	filters := body["filters"].(map[string]any)
	assert.Equal(t, "2024-01-01", filters["dateFrom"])
	assert.Equal(t, "2024-01-31", filters["dateTo"])
	assert.Equal(t, "u1", filters["userId"])
	assert.Equal(t, float64(10), body["data"].(map[string]any)["total_calls"])
}

func TestRouter_ReversedDates(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/metrics?dateFrom=2024-02-01&dateTo=2024-01-01", "admin-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))
	assert.Equal(t, "dateFrom must be before dateTo", body["error"].(map[string]any)["message"])
}

func TestRouter_ClearCacheRequiresManager(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, _ := do(t, h, http.MethodDelete, "/api/metrics/cache", "sales-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := do(t, h, http.MethodDelete, "/api/metrics/cache", "admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics cache cleared", body["message"])
}

func TestRouter_UsersRequireManager(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/users", "sales-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTHORIZATION_ERROR", errorCode(body))
}

func TestRouter_TrendPoints(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/metrics/trend?days=7", "sales-token")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, body["data"].([]any), 7)
}

func TestRouter_UnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestRouter_CallsCrossTenantForbidden(t *testing.T) {
	h, _, calls := newTestRouterWithCalls(t)
	rec, body := do(t, h, http.MethodGet, "/api/calls?clientId=c2", "sales-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTHORIZATION_ERROR", errorCode(body))
	assert.Zero(t, calls.calls, "repository must not be queried")
}

func TestRouter_CallsScopedToSales(t *testing.T) {
	h, _, calls := newTestRouterWithCalls(t)
	rec, body := do(t, h, http.MethodGet, "/api/calls", "sales-token")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "c1", calls.last.ClientID)
	assert.Equal(t, "u1", calls.last.UserID)
	filters := body["filters"].(map[string]any)
	assert.Equal(t, "c1", filters["clientId"])
	assert.Equal(t, "u1", filters["userId"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "sales", user["role"])
}
