package exporthandler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/session"
	"paydesk/internal/transport/http/api"
	indexhandler "paydesk/internal/transport/http/handlers/index"
	"paydesk/internal/transport/http/middleware"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type EmployeeService interface {
	ListActive(ctx context.Context) ([]employee.Employee, error)
	FindByNationalID(ctx context.Context, nationalID string) (employee.Employee, bool, error)
}

type Handler struct {
	Employees EmployeeService
	Sessions  *session.Manager
	Log       *zap.Logger
}

func NewHandler(employees EmployeeService, sessions *session.Manager, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Employees: employees, Sessions: sessions, Log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/exports", func(r chi.Router) {
		r.Use(middleware.RequireLogin(h.Sessions, indexhandler.RedirectLogin))
		r.Get("/employees.xlsx", h.handleEmployees)
		r.Get("/salary/{nationalID}.pdf", h.handleSalarySlip)
	})
}

func (h *Handler) handleEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employees, err := h.Employees.ListActive(r.Context())
	if err != nil {
		h.Log.Error("employee export failed", zap.String("request_id", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to list employees", reqID)
		return
	}

	var buf bytes.Buffer
	if err := employee.WriteWorkbook(&buf, employees); err != nil {
		h.Log.Error("employee export failed", zap.String("request_id", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build workbook", reqID)
		return
	}
	writeAttachment(w, contentTypeXLSX, "employees.xlsx", buf.Bytes())
}

func (h *Handler) handleSalarySlip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	nationalID := strings.ToUpper(chi.URLParam(r, "nationalID"))

	emp, found, err := h.Employees.FindByNationalID(r.Context(), nationalID)
	if err != nil {
		h.Log.Error("salary slip lookup failed", zap.String("request_id", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load employee", reqID)
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if emp.Salary == nil {
		api.Fail(w, http.StatusNotFound, "not_found", employee.ErrPayrollMissing.Error(), reqID)
		return
	}

	slip := payroll.Slip{
		NationalID:     emp.NationalID,
		Name:           emp.Name,
		Category:       emp.Category,
		SeniorityYears: emp.SeniorityYears,
		Salary:         *emp.Salary,
		IssuedAt:       h.Sessions.Now(),
	}
	var buf bytes.Buffer
	if err := payroll.WriteSlipPDF(&buf, slip); err != nil {
		h.Log.Error("salary slip render failed", zap.String("request_id", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render salary slip", reqID)
		return
	}
	writeAttachment(w, contentTypePDF, fmt.Sprintf("salary-%s.pdf", emp.NationalID), buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
