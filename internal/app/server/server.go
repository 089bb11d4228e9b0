package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/session"
	"paydesk/internal/platform/config"
	"paydesk/internal/platform/db"
	"paydesk/internal/platform/events"
	"paydesk/internal/platform/jobs"
	"paydesk/internal/platform/logger"
	"paydesk/internal/platform/metrics"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config config.Config
	Log    *zap.Logger
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service

	closers []func() error
}

// New connects every backing service and assembles the HTTP surface. On error
// whatever was already opened is closed again.
func New(ctx context.Context, cfg config.Config) (_ *App, err error) {
	log := logger.New(cfg.Environment, cfg.LogLevel)
	zap.ReplaceGlobals(log)

	app := &App{Config: cfg, Log: log}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app.DB = pool
	app.closers = append(app.closers, func() error { pool.Close(); return nil })

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	authStore := auth.NewStore(pool)
	if cfg.RunSeed {
		created, err := authStore.EnsureAdministrator(ctx, cfg.SeedAdminNationalID, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		if err != nil {
			return nil, fmt.Errorf("seed administrator: %w", err)
		}
		if created {
			log.Info("seeded administrator", zap.String("national_id", cfg.SeedAdminNationalID))
		}
	}

	sessions, err := app.sessionManager(ctx)
	if err != nil {
		return nil, err
	}

	auditStore := audit.NewStore(pool)
	sink, err := app.auditSink(auditStore)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	employees := employee.NewService(
		employee.Repositories{Employees: employee.NewStore(pool), Payroll: payroll.NewStore(pool)},
		employee.WithTransactor(employee.PgTransactor{Pool: pool}),
		employee.WithAudit(sink),
		employee.WithLogger(log.Named("employee")),
	)

	app.Jobs = jobs.New(pool, employees, cfg.PayrollReconcileInterval, log.Named("jobs"))
	if collector != nil {
		app.Jobs.Metrics = collector
	}

	app.Router = NewRouter(Deps{
		Config:      cfg,
		Log:         log,
		Employees:   employees,
		Auth:        auth.NewService(authStore),
		Sessions:    sessions,
		Audit:       sink,
		AuditEvents: auditStore,
		Metrics:     collector,
		Ready:       pool.Ping,
	})
	return app, nil
}

func (a *App) sessionManager(ctx context.Context) (*session.Manager, error) {
	secret := a.Config.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		a.Log.Warn("SESSION_SECRET not set, using a random secret; sessions will not survive restarts")
	}

	var store session.StoreAPI = session.NewMemoryStore()
	if a.Config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     a.Config.RedisAddr,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		store = session.NewRedisStore(client)
		a.Log.Info("sessions stored in redis", zap.String("addr", a.Config.RedisAddr))
	}

	return session.NewManager(store, secret, session.WithSecureCookie(a.Config.CookieSecure)), nil
}

func (a *App) auditSink(store *audit.Store) (audit.Sink, error) {
	sinks := audit.Multi{store}
	if a.Config.AMQPURL != "" {
		publisher, err := events.Dial(a.Config.AMQPURL, a.Config.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("amqp dial: %w", err)
		}
		a.closers = append(a.closers, publisher.Close)
		sinks = append(sinks, publisher)
		a.Log.Info("publishing audit events", zap.String("exchange", a.Config.AMQPExchange))
	}
	return sinks, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)
	a.Jobs.EnqueueReconcile()

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("paydesk listening", zap.String("addr", a.Config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases backing connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.Log.Sync()
}
