package indexhandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/session"
	"paydesk/internal/requestctx"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
)

type EmployeeService interface {
	ListActive(ctx context.Context) ([]employee.Employee, error)
	ListActiveBy(ctx context.Context, field, value string) ([]employee.Employee, error)
	FindByNationalID(ctx context.Context, nationalID string) (employee.Employee, bool, error)
	Register(ctx context.Context, emp employee.Employee) (employee.Employee, error)
	Update(ctx context.Context, originalID string, emp employee.Employee) (employee.Employee, error)
	SoftDelete(ctx context.Context, nationalID string) (employee.Employee, error)
	SalaryByNationalID(ctx context.Context, nationalID string) (float64, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, creds auth.Credentials) (auth.Administrator, bool, error)
}

type RegistrationCounter interface {
	EmployeeRegistered()
}

// actionFunc fills view or returns a redirect target. A returned error is an
// unrecovered fault and becomes a 500.
type actionFunc func(w http.ResponseWriter, r *http.Request, view *api.View) (string, error)

type Handler struct {
	Employees EmployeeService
	Auth      Authenticator
	Sessions  *session.Manager
	Audit     audit.Sink
	Metrics   RegistrationCounter
	Log       *zap.Logger

	get  map[string]actionFunc
	post map[string]actionFunc
}

func NewHandler(employees EmployeeService, authenticator Authenticator, sessions *session.Manager, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{Employees: employees, Auth: authenticator, Sessions: sessions, Log: log}
	h.get = map[string]actionFunc{
		ActionRegister: h.getRegistration,
		ActionList:     h.getList,
		ActionLookup:   h.getLookup,
		ActionUpdate:   h.getUpdate,
		ActionLogin:    h.getLogin,
		ActionLogout:   h.getLogout,
		ActionWelcome:  h.getWelcome,
	}
	h.post = map[string]actionFunc{
		ActionRegister: h.postRegistration,
		ActionUpdate:   h.postUpdate,
		ActionLogin:    h.postLogin,
	}
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/index", h.handleGet)
	r.Post("/index", h.handlePost)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, h.get, h.getWelcome)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, h.post, h.postDefault)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, routes map[string]actionFunc, fallback actionFunc) {
	reqID := middleware.GetRequestID(r.Context())
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "body_too_large", "form body too large", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_form", "invalid form body", reqID)
		return
	}

	action := r.Form.Get("action")
	run, known := routes[action]
	if known {
		requestctx.SetAction(r.Context(), action)
	} else {
		run = fallback
		requestctx.SetAction(r.Context(), "default")
	}

	loggedIn := h.Sessions.LoggedIn(session.FromContext(r.Context()))
	if !loggedIn && action != ActionLogin {
		api.Redirect(w, r, RedirectLogin)
		return
	}

	view := api.NewView(ViewIndex).
		Set("currentAction", action).
		Set("loggedIn", loggedIn)

	redirect, err := run(w, r, view)
	if err != nil {
		h.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("action", action),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		api.Fail(w, http.StatusInternalServerError, "internal_error", err.Error(), reqID)
		return
	}
	if redirect != "" {
		api.Redirect(w, r, redirect)
		return
	}
	api.Render(w, view, reqID)
}

func renderError(view *api.View, message string) {
	view.Set("errorMessage", message)
	view.Set("content", ContentError)
}

func (h *Handler) getRegistration(_ http.ResponseWriter, _ *http.Request, view *api.View) (string, error) {
	view.Set("content", ContentRegistration)
	return "", nil
}

func (h *Handler) getList(_ http.ResponseWriter, r *http.Request, view *api.View) (string, error) {
	employees, err := h.Employees.ListActive(r.Context())
	if err != nil {
		return "", fmt.Errorf("list employees: %w", err)
	}
	view.Set("employees", present(employees))
	view.Set("created", r.Form.Has("confirm-creation"))
	view.Set("content", ContentEmployeeList)
	return "", nil
}

func (h *Handler) getLookup(_ http.ResponseWriter, r *http.Request, view *api.View) (string, error) {
	nationalID := r.Form.Get("nationalId")
	if nationalID == "" {
		view.Set("content", ContentSearch)
		return "", nil
	}

	view.Set("nationalId", nationalID)
	salary, err := h.Employees.SalaryByNationalID(r.Context(), nationalID)
	if err != nil {
		h.logServiceError(r, "salary lookup failed", err)
		renderError(view, err.Error())
		return "", nil
	}
	view.Set("salary", salary)
	view.Set("content", ContentSalary)
	return "", nil
}

func (h *Handler) getUpdate(_ http.ResponseWriter, r *http.Request, view *api.View) (string, error) {
	if r.Form.Has("edit") {
		return "", h.showUpdateForm(r, view, r.Form.Get("edit"))
	}
	if r.Form.Has("delete") {
		return h.deleteEmployee(r, view, r.Form.Get("delete"))
	}
	return "", h.showUpdateList(r, view)
}

func (h *Handler) showUpdateForm(r *http.Request, view *api.View, nationalID string) error {
	emp, _, err := h.Employees.FindByNationalID(r.Context(), nationalID)
	if err != nil {
		return fmt.Errorf("find employee: %w", err)
	}
	view.Set("edit", nationalID)
	view.Set("employee", presentOne(emp))
	view.Set("content", ContentUpdateForm)
	return nil
}

func (h *Handler) deleteEmployee(r *http.Request, view *api.View, nationalID string) (string, error) {
	if _, err := h.Employees.SoftDelete(r.Context(), nationalID); err != nil {
		if !errors.Is(err, employee.ErrNotFound) {
			return "", fmt.Errorf("delete employee: %w", err)
		}
		renderError(view, "error deleting employee: "+err.Error())
		return "", nil
	}
	return RedirectDeleted, nil
}

func (h *Handler) showUpdateList(r *http.Request, view *api.View) error {
	field := r.Form.Get("field")
	value := r.Form.Get("value")
	employees, err := h.Employees.ListActiveBy(r.Context(), field, value)
	if err != nil {
		return fmt.Errorf("list employees by %s: %w", field, err)
	}
	view.Set("employees", present(employees))
	view.Set("field", field)
	view.Set("value", value)
	view.Set("updated", r.Form.Has("confirm-update"))
	view.Set("deleted", r.Form.Has("confirm-deletion"))
	view.Set("content", ContentUpdateList)
	return nil
}

func (h *Handler) getLogin(_ http.ResponseWriter, _ *http.Request, view *api.View) (string, error) {
	view.Set("content", ContentLogin)
	return "", nil
}

func (h *Handler) getLogout(w http.ResponseWriter, r *http.Request, _ *api.View) (string, error) {
	if err := h.Sessions.Destroy(r.Context(), session.FromContext(r.Context())); err != nil {
		return "", fmt.Errorf("destroy session: %w", err)
	}
	h.Sessions.ClearCookie(w)
	return RedirectLogin, nil
}

func (h *Handler) getWelcome(_ http.ResponseWriter, _ *http.Request, view *api.View) (string, error) {
	view.Set("content", ContentWelcome)
	return "", nil
}

func (h *Handler) postRegistration(_ http.ResponseWriter, r *http.Request, view *api.View) (string, error) {
	category, err := strconv.Atoi(r.Form.Get("category"))
	if err != nil {
		return "", fmt.Errorf("parse category: %w", err)
	}
	seniority, err := strconv.ParseFloat(r.Form.Get("seniorityYears"), 64)
	if err != nil {
		return "", fmt.Errorf("parse seniority years: %w", err)
	}

	candidate := employee.Employee{
		NationalID:     r.Form.Get("nationalId"),
		Name:           r.Form.Get("name"),
		Sex:            r.Form.Get("sex"),
		Category:       category,
		SeniorityYears: seniority,
	}
	if _, err := h.Employees.Register(r.Context(), candidate); err != nil {
		h.logServiceError(r, "employee registration failed", err)
		renderError(view, "error registering employee: "+err.Error())
		return "", nil
	}
	if h.Metrics != nil {
		h.Metrics.EmployeeRegistered()
	}
	return RedirectCreated, nil
}

func (h *Handler) postUpdate(_ http.ResponseWriter, r *http.Request, view *api.View) (string, error) {
	originalID := r.Form.Get("edit")
	emp, found, err := h.Employees.FindByNationalID(r.Context(), originalID)
	if err != nil || !found {
		if err != nil {
			h.logServiceError(r, "employee update lookup failed", err)
		}
		renderError(view, "error updating employee")
		return "", nil
	}

	if err := applyUpdateForm(&emp, r); err != nil {
		renderError(view, "error updating employee: "+err.Error())
		return "", nil
	}
	if _, err := h.Employees.Update(r.Context(), originalID, emp); err != nil {
		h.logServiceError(r, "employee update failed", err)
		renderError(view, "error updating employee: "+err.Error())
		return "", nil
	}
	return RedirectUpdated, nil
}

// applyUpdateForm overwrites the mutable fields of emp from the update form.
func applyUpdateForm(emp *employee.Employee, r *http.Request) error {
	emp.Name = r.Form.Get("name")
	emp.Sex = r.Form.Get("sex")
	category, err := strconv.Atoi(r.Form.Get("category"))
	if err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	if err := emp.SetCategory(category); err != nil {
		return err
	}
	seniority, err := strconv.ParseFloat(r.Form.Get("seniorityYears"), 64)
	if err != nil {
		return fmt.Errorf("invalid seniority years: %w", err)
	}
	emp.SeniorityYears = seniority
	emp.SetNationalID(r.Form.Get("nationalId"))
	return nil
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request, _ *api.View) (string, error) {
	creds := auth.Credentials{
		NationalID: r.Form.Get("nationalId"),
		Email:      r.Form.Get("email"),
		Password:   r.Form.Get("password"),
	}
	admin, ok, err := h.Auth.Authenticate(r.Context(), creds)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	current := session.FromContext(r.Context())
	if !ok {
		if err := h.Sessions.Destroy(r.Context(), current); err != nil {
			return "", fmt.Errorf("destroy session: %w", err)
		}
		h.Sessions.ClearCookie(w)
		h.record(r.Context(), audit.ActionAdminLoginFailed, creds.NationalID)
		return RedirectWelcome, nil
	}

	started, token, err := h.Sessions.Start(r.Context(), current, admin.NationalID)
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	h.Sessions.SetCookie(w, token, started)
	h.record(requestctx.WithActorID(r.Context(), admin.NationalID), audit.ActionAdminLogin, admin.NationalID)
	return RedirectWelcome, nil
}

func (h *Handler) postDefault(_ http.ResponseWriter, _ *http.Request, _ *api.View) (string, error) {
	return RedirectWelcome, nil
}

func (h *Handler) record(ctx context.Context, action, nationalID string) {
	if h.Audit == nil {
		return
	}
	evt := audit.NewEvent(ctx, action, audit.EntityAdministrator, strings.ToUpper(nationalID), nil, nil)
	if err := h.Audit.Record(ctx, evt); err != nil {
		h.Log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

// logServiceError logs faults that are not the caller's doing. Validation,
// absence and conflicts are expected outcomes and stay quiet.
func (h *Handler) logServiceError(r *http.Request, msg string, err error) {
	if isExpected(err) {
		return
	}
	h.Log.Error(msg, zap.String("request_id", middleware.GetRequestID(r.Context())), zap.Error(err))
}

func isExpected(err error) bool {
	var verr *employee.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, employee.ErrNotFound) ||
		errors.Is(err, employee.ErrConflict) ||
		errors.Is(err, employee.ErrCategoryRange) ||
		errors.Is(err, payroll.ErrCategoryOutOfRange)
}
