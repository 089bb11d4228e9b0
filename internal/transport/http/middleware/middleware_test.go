package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"paydesk/internal/domain/session"
	"paydesk/internal/requestctx"
)

func TestLoggerRecordsDispatchedAction(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestID(Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestctx.SetAction(r.Context(), "registro")
		w.WriteHeader(http.StatusFound)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/index", nil))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["action"] != "registro" {
		t.Fatalf("expected action registro, got %v", fields["action"])
	}
	if fields["status"] != int64(http.StatusFound) {
		t.Fatalf("expected status 302, got %v", fields["status"])
	}
	if fields["request_id"] == "" {
		t.Fatal("expected request id field")
	}
}

func TestRecovererAnswersWithEnvelope(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := Recoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"internal_error"`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if logs.Len() != 1 {
		t.Fatalf("expected panic to be logged, got %d entries", logs.Len())
	}
}

type recordedRequest struct {
	method, action string
	status         int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) Record(method, action string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, action: action, status: status})
}

func TestMetricsUsesQueryActionFallback(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := Metrics(recorder)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/index?action=listado", nil))

	if len(recorder.requests) != 1 {
		t.Fatalf("expected one recorded request, got %d", len(recorder.requests))
	}
	got := recorder.requests[0]
	if got.method != http.MethodGet || got.action != "listado" || got.status != http.StatusOK {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestBodyLimitRejectsLargeForms(t *testing.T) {
	var parseErr error
	handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parseErr = r.ParseForm()
	}))

	req := httptest.NewRequest(http.MethodPost, "/index", strings.NewReader("name="+strings.Repeat("a", 64)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if parseErr == nil {
		t.Fatal("expected oversized body to fail parsing")
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected nosniff header")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}
}

func TestSessionMiddleware(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	manager := session.NewManager(session.NewMemoryStore(), "test-secret", session.WithClock(func() time.Time { return now }))
	started, token, err := manager.Start(context.Background(), nil, "87654321Z")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	tests := []struct {
		name      string
		cookie    string
		wantID    string
		wantActor string
	}{
		{name: "no cookie"},
		{name: "tampered cookie", cookie: token + "x"},
		{name: "valid cookie", cookie: token, wantID: started.ID, wantActor: "87654321Z"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var gotID, gotActor string
			handler := Session(manager, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if s := session.FromContext(r.Context()); s != nil {
					gotID = s.ID
				}
				gotActor = requestctx.GetActorID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/index", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tc.cookie})
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if gotID != tc.wantID || gotActor != tc.wantActor {
				t.Fatalf("expected session %q actor %q, got %q %q", tc.wantID, tc.wantActor, gotID, gotActor)
			}
		})
	}
}

func TestRequireLogin(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	manager := session.NewManager(session.NewMemoryStore(), "test-secret", session.WithClock(func() time.Time { return now }))
	_, token, err := manager.Start(context.Background(), nil, "87654321Z")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	handler := Session(manager, zap.NewNop())(RequireLogin(manager, "/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	anonymous := httptest.NewRecorder()
	handler.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/private", nil))
	if anonymous.Code != http.StatusFound || anonymous.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", anonymous.Code, anonymous.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
}
