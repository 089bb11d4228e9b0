package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/session"
	"paydesk/internal/platform/config"
	"paydesk/internal/platform/metrics"
)

type noAdmins struct{}

func (noAdmins) FindAdministrator(context.Context, string, string) (auth.Administrator, error) {
	return auth.Administrator{}, auth.ErrNotFound
}

func testDeps(ready func(context.Context) error, collector *metrics.Collector) Deps {
	cfg := config.Defaults()
	cfg.DatabaseURL = "postgres://localhost/paydesk"
	return Deps{
		Config:    cfg,
		Employees: employee.NewService(employee.Repositories{}),
		Auth:      auth.NewService(noAdmins{}),
		Sessions:  session.NewManager(session.NewMemoryStore(), "test-secret"),
		Metrics:   collector,
		Ready:     ready,
	}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouterProbes(t *testing.T) {
	tests := []struct {
		name       string
		ready      func(context.Context) error
		target     string
		wantStatus int
	}{
		{name: "healthz", target: "/healthz", wantStatus: http.StatusOK},
		{name: "ready", target: "/readyz", ready: func(context.Context) error { return nil }, wantStatus: http.StatusOK},
		{name: "not ready", target: "/readyz", ready: func(context.Context) error { return errors.New("db down") }, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := get(NewRouter(testDeps(tc.ready, nil)), tc.target)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestRouterGatesIndex(t *testing.T) {
	router := NewRouter(testDeps(nil, nil))

	rec := get(router, "/index?action=listado")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/index?action=login" {
		t.Fatalf("expected login redirect, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}

	exports := get(router, "/exports/employees.xlsx")
	if exports.Code != http.StatusFound {
		t.Fatalf("expected export redirect, got %d", exports.Code)
	}
}

func TestRouterMetrics(t *testing.T) {
	router := NewRouter(testDeps(nil, metrics.New()))
	get(router, "/index?action=login")

	rec := get(router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `paydesk_http_requests_total{action="login",method="GET",status="200"} 1`) {
		t.Fatalf("expected login request counted, got:\n%s", rec.Body.String())
	}

	if get(NewRouter(testDeps(nil, nil)), "/metrics").Code != http.StatusNotFound {
		t.Fatal("expected /metrics absent when disabled")
	}
}
