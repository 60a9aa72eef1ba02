package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/closerhq/agency-dashboard/internal/api/middleware"
	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

var (
	ceo   = domain.Principal{ID: "u0", Role: domain.RoleCEO, ClientID: "c0"}
	admin = domain.Principal{ID: "a1", Role: domain.RoleAdmin, ClientID: "c1"}
	sales = domain.Principal{ID: "u1", Role: domain.RoleSales, ClientID: "c1"}
)

// newContext builds an echo context with the validator installed and p
// stored as if Auth had run. An empty p.ID leaves the context unauthenticated.
func newContext(method, target string, body io.Reader, p domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p.ID != "" {
		middleware.SetPrincipal(c, p)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestPrincipal_MissingIsUnauthenticated(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/", nil, domain.Principal{})
	if _, err := principal(c); err == nil {
		t.Fatal("expected error")
	}
}
