package jobs

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"paydesk/internal/platform/db"
)

const JobPayrollReconcile = "payroll_reconcile"

const queueSize = 128

// Reconciler repairs payroll records that drifted from the base schedule.
type Reconciler interface {
	ReconcilePayroll(ctx context.Context) (int, error)
}

type Recorder interface {
	JobRun(jobType, status string)
}

type Service struct {
	DB         db.Querier
	Reconciler Reconciler
	Interval   time.Duration
	Metrics    Recorder
	Log        *zap.Logger
	queue      chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(q db.Querier, reconciler Reconciler, interval time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		DB:         q,
		Reconciler: reconciler,
		Interval:   interval,
		Log:        log,
		queue:      make(chan job, queueSize),
	}
}

// Start launches the worker and, for a positive interval, the reconcile scheduler.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Interval > 0 {
		go s.schedule(ctx, s.Interval)
	}
}

// Enqueue drops the job with a warning when the queue is full.
func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		s.Log.Warn("job queue full", zap.String("job_type", jobType))
		return false
	}
}

// EnqueueReconcile queues a payroll reconcile run outside the schedule.
func (s *Service) EnqueueReconcile() bool {
	return s.Enqueue(JobPayrollReconcile, s.reconcile)
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) reconcile(ctx context.Context) (any, error) {
	fixed, err := s.Reconciler.ReconcilePayroll(ctx)
	return map[string]any{"fixed": fixed}, err
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.Log.Warn("job run failed", zap.String("job_type", j.Type), zap.Error(err))
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	var runID int64
	if s.DB != nil {
		if err := s.DB.QueryRow(ctx, `
      INSERT INTO job_runs (job_type, status)
      VALUES ($1,$2)
      RETURNING id
    `, j.Type, "running").Scan(&runID); err != nil {
			s.Log.Warn("job run insert failed", zap.Error(err))
		}
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.Metrics != nil {
		s.Metrics.JobRun(j.Type, status)
	}

	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.Log.Warn("job details marshal failed", zap.Error(marshalErr))
		detailsJSON = []byte("{}")
	}
	if runID != 0 {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			s.Log.Warn("job run update failed", zap.Error(updErr))
		}
	}
	s.Log.Info("job run finished", zap.String("job_type", j.Type), zap.String("status", status), zap.ByteString("details", detailsJSON))
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EnqueueReconcile()
		}
	}
}
