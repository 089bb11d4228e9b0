package audithandler

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/session"
	"paydesk/internal/transport/http/api"
	indexhandler "paydesk/internal/transport/http/handlers/index"
	"paydesk/internal/transport/http/middleware"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type EventLister interface {
	List(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Entry, error)
	Count(ctx context.Context, filter audit.Filter) (int, error)
}

type Handler struct {
	Events   EventLister
	Sessions *session.Manager
	Log      *zap.Logger
}

func NewHandler(events EventLister, sessions *session.Manager, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Events: events, Sessions: sessions, Log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireLogin(h.Sessions, indexhandler.RedirectLogin))
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

func filterFrom(r *http.Request) audit.Filter {
	q := r.URL.Query()
	return audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		ActorID:    q.Get("actorId"),
	}
}

// page reads limit and offset, ignoring malformed values.
func page(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxLimit)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter := filterFrom(r)
	limit, offset := page(r)

	total, err := h.Events.Count(r.Context(), filter)
	if err != nil {
		h.Log.Warn("audit count failed", zap.String("request_id", reqID), zap.Error(err))
	}
	events, err := h.Events.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.Log.Error("audit list failed", zap.String("request_id", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", reqID)
		return
	}
	if events == nil {
		events = []audit.Entry{}
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, reqID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	events, err := h.Events.List(r.Context(), filterFrom(r), 0, 0)
	if err != nil {
		h.Log.Error("audit export failed", zap.String("request_id", reqID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export audit events", reqID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "action", "entity_type", "entity_id", "actor_id", "request_id", "created_at"}); err != nil {
		h.Log.Warn("audit export header failed", zap.Error(err))
	}
	for _, evt := range events {
		row := []string{
			strconv.FormatInt(evt.ID, 10),
			evt.Action,
			evt.EntityType,
			evt.EntityID,
			evt.ActorID,
			evt.RequestID,
			evt.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			h.Log.Warn("audit export row failed", zap.Error(err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.Log.Warn("audit export flush failed", zap.Error(err))
	}
}
