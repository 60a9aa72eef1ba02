package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

func TestRateLimit_DeniesOverBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(0.001, 2)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	var errs []error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		SetPrincipal(c, domain.Principal{ID: "u1", Role: domain.RoleSales, ClientID: "c1"})
		errs = append(errs, handler(c))
	}

	if errs[0] != nil || errs[1] != nil {
		t.Fatalf("requests within burst must pass: %v %v", errs[0], errs[1])
	}
	if !errors.Is(errs[2], domain.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", errs[2])
	}
}

func TestRateLimit_PerPrincipal(t *testing.T) {
	e := echo.New()
	mw := RateLimit(0.001, 1)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, id := range []string{"u1", "u2"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		SetPrincipal(c, domain.Principal{ID: id, Role: domain.RoleSales, ClientID: "c1"})
		if err := handler(c); err != nil {
			t.Fatalf("%s: first request must pass, got %v", id, err)
		}
	}
}
