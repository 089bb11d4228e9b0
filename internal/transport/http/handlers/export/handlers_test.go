package exporthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/session"
	"paydesk/internal/transport/http/middleware"
)

type stubEmployees struct {
	rows    []employee.Employee
	listErr error
}

func (s stubEmployees) ListActive(context.Context) ([]employee.Employee, error) {
	return s.rows, s.listErr
}

func (s stubEmployees) FindByNationalID(_ context.Context, nationalID string) (employee.Employee, bool, error) {
	for _, emp := range s.rows {
		if emp.NationalID == nationalID {
			return emp, true, nil
		}
	}
	return employee.Employee{}, false, nil
}

func newRouter(t *testing.T, employees EmployeeService) (http.Handler, *http.Cookie) {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", session.WithClock(func() time.Time { return now }))
	_, token, err := sessions.Start(context.Background(), nil, "87654321Z")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Session(sessions, zap.NewNop()))
	NewHandler(employees, sessions, zap.NewNop()).RegisterRoutes(r)
	return r, &http.Cookie{Name: session.CookieName, Value: token}
}

func serve(router http.Handler, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func fixtures() []employee.Employee {
	salary := 100000.0
	return []employee.Employee{
		{NationalID: "12345678A", Name: "Ana", Sex: employee.SexFemale, Category: 3, SeniorityYears: 2, Status: employee.StatusActive, Salary: &salary},
		{NationalID: "22222222B", Name: "Luis", Sex: employee.SexMale, Category: 1, Status: employee.StatusActive},
	}
}

func TestExportsRequireLogin(t *testing.T) {
	router, _ := newRouter(t, stubEmployees{rows: fixtures()})

	for _, target := range []string{"/exports/employees.xlsx", "/exports/salary/12345678A.pdf"} {
		rec := serve(router, target, nil)
		if rec.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", target, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/index?action=login" {
			t.Fatalf("%s: expected login redirect, got %q", target, loc)
		}
	}
}

func TestEmployeeWorkbook(t *testing.T) {
	router, cookie := newRouter(t, stubEmployees{rows: fixtures()})

	rec := serve(router, "/exports/employees.xlsx", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Fatalf("expected xlsx content type, got %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Employees")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestEmployeeWorkbookListFailure(t *testing.T) {
	router, cookie := newRouter(t, stubEmployees{listErr: errors.New("db down")})

	rec := serve(router, "/exports/employees.xlsx", cookie)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSalarySlip(t *testing.T) {
	router, cookie := newRouter(t, stubEmployees{rows: fixtures()})

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{name: "active employee", target: "/exports/salary/12345678A.pdf", wantStatus: http.StatusOK},
		{name: "lowercase id", target: "/exports/salary/12345678a.pdf", wantStatus: http.StatusOK},
		{name: "unknown employee", target: "/exports/salary/99999999Z.pdf", wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "no payroll record", target: "/exports/salary/22222222B.pdf", wantStatus: http.StatusNotFound, wantCode: "not_found"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, tc.target, cookie)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.wantStatus == http.StatusOK {
				if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
					t.Fatal("expected PDF body")
				}
				return
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if body.Error.Code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, body.Error.Code)
			}
		})
	}
}
