package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/session"
	"paydesk/internal/platform/config"
	"paydesk/internal/platform/metrics"
	audithandler "paydesk/internal/transport/http/handlers/audit"
	exporthandler "paydesk/internal/transport/http/handlers/export"
	indexhandler "paydesk/internal/transport/http/handlers/index"
	"paydesk/internal/transport/http/middleware"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config    config.Config
	Log       *zap.Logger
	Employees *employee.Service
	Auth      indexhandler.Authenticator
	Sessions  *session.Manager
	Audit     audit.Sink
	// AuditEvents serves the audit trail; nil leaves /audit unrouted.
	AuditEvents audithandler.EventLister
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Collector
	// Ready reports whether backing services can take traffic.
	Ready func(ctx context.Context) error
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}
	router.Use(middleware.SecureHeaders(d.Config.IsProduction()))
	router.Use(middleware.BodyLimit(d.Config.MaxBodyBytes))
	router.Use(middleware.RateLimit(d.Config.RateLimitPerMinute, time.Minute, middleware.WithRateLimitLogger(log)))
	router.Use(middleware.Session(d.Sessions, log))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				log.Warn("readiness check failed", zap.Error(err))
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if d.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	index := indexhandler.NewHandler(d.Employees, d.Auth, d.Sessions, log)
	index.Audit = d.Audit
	if d.Metrics != nil {
		index.Metrics = d.Metrics
	}
	index.RegisterRoutes(router)

	exporthandler.NewHandler(d.Employees, d.Sessions, log).RegisterRoutes(router)
	if d.AuditEvents != nil {
		audithandler.NewHandler(d.AuditEvents, d.Sessions, log).RegisterRoutes(router)
	}

	return router
}
