package employee

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/payroll"
)

type Service struct {
	repos Repositories
	tx    Transactor
	audit audit.Sink
	log   *zap.Logger
}

type Option func(*Service)

// WithTransactor makes employee and payroll writes share one transaction.
func WithTransactor(tx Transactor) Option {
	return func(s *Service) { s.tx = tx }
}

func WithAudit(sink audit.Sink) Option {
	return func(s *Service) { s.audit = sink }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(repos Repositories, opts ...Option) *Service {
	s := &Service{repos: repos, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListActive(ctx context.Context) ([]Employee, error) {
	return s.repos.Employees.List(ctx, StatusActive, Filter{})
}

// ListActiveBy lists active employees narrowed by a (field, value) pair.
func (s *Service) ListActiveBy(ctx context.Context, field, value string) ([]Employee, error) {
	filter, err := ParseFilter(field, value)
	if err != nil {
		return nil, err
	}
	return s.repos.Employees.List(ctx, StatusActive, filter)
}

// FindByNationalID reports absence through found rather than an error.
func (s *Service) FindByNationalID(ctx context.Context, nationalID string) (Employee, bool, error) {
	emp, err := s.findActive(ctx, s.repos, nationalID)
	if errors.Is(err, ErrNotFound) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	return emp, true, nil
}

// Upsert validates emp, stores it as active and brings its payroll record in line.
func (s *Service) Upsert(ctx context.Context, emp Employee) (Employee, error) {
	return s.save(ctx, "", emp)
}

func (s *Service) Register(ctx context.Context, emp Employee) (Employee, error) {
	_, found, err := s.FindByNationalID(ctx, emp.NationalID)
	if err != nil {
		return Employee{}, err
	}
	if found {
		return Employee{}, fmt.Errorf("%w: %s", ErrConflict, emp.NationalID)
	}

	saved, err := s.Upsert(ctx, emp)
	if err != nil {
		return Employee{}, err
	}
	s.record(ctx, audit.ActionEmployeeRegistered, saved.NationalID, nil, saved)
	return saved, nil
}

// Update replaces the active employee stored under originalID with emp, renaming
// it when emp carries a different national ID.
func (s *Service) Update(ctx context.Context, originalID string, emp Employee) (Employee, error) {
	before, err := s.findActive(ctx, s.repos, originalID)
	if err != nil {
		return Employee{}, err
	}
	if emp.NationalID != originalID {
		_, err := s.repos.Employees.Find(ctx, emp.NationalID)
		if err == nil {
			return Employee{}, fmt.Errorf("%w: %s", ErrConflict, emp.NationalID)
		}
		if !errors.Is(err, ErrNotFound) {
			return Employee{}, err
		}
	}

	saved, err := s.save(ctx, originalID, emp)
	if err != nil {
		return Employee{}, err
	}
	s.record(ctx, audit.ActionEmployeeUpdated, saved.NationalID, before, saved)
	return saved, nil
}

// SoftDelete marks the employee deleted and returns the record as it was before.
func (s *Service) SoftDelete(ctx context.Context, nationalID string) (Employee, error) {
	before, err := s.repos.Employees.Find(ctx, nationalID)
	if err != nil {
		return Employee{}, err
	}
	if err := s.repos.Employees.SetStatus(ctx, nationalID, StatusDeleted); err != nil {
		return Employee{}, err
	}
	s.record(ctx, audit.ActionEmployeeDeleted, nationalID, before, nil)
	return before, nil
}

func (s *Service) SalaryByNationalID(ctx context.Context, nationalID string) (float64, error) {
	if _, err := s.findActive(ctx, s.repos, nationalID); err != nil {
		return 0, err
	}
	rec, err := s.repos.Payroll.FindByNationalID(ctx, nationalID)
	if errors.Is(err, payroll.ErrNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrPayrollMissing, nationalID)
	}
	if err != nil {
		return 0, err
	}
	return rec.Salary, nil
}

// ReconcilePayroll rewrites payroll records of active employees whose salary is
// missing or disagrees with the base schedule. It returns how many were fixed.
func (s *Service) ReconcilePayroll(ctx context.Context) (int, error) {
	employees, err := s.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, emp := range employees {
		want, err := payroll.ComputeSalary(emp.Category, emp.SeniorityYears)
		if err != nil {
			s.log.Warn("skipping payroll reconcile", zap.String("national_id", emp.NationalID), zap.Error(err))
			continue
		}
		if emp.Salary != nil && *emp.Salary == want {
			continue
		}
		err = s.withinTx(ctx, func(r Repositories) error {
			_, err := syncPayroll(ctx, r.Payroll, emp)
			return err
		})
		if err != nil {
			return fixed, fmt.Errorf("reconcile payroll for %s: %w", emp.NationalID, err)
		}
		fixed++
	}
	return fixed, nil
}

func (s *Service) save(ctx context.Context, originalID string, emp Employee) (Employee, error) {
	if err := Validate(emp); err != nil {
		return Employee{}, err
	}
	emp.Status = StatusActive

	var saved Employee
	err := s.withinTx(ctx, func(r Repositories) error {
		if originalID != "" && originalID != emp.NationalID {
			if err := r.Employees.Rename(ctx, originalID, emp.NationalID); err != nil {
				return err
			}
		}
		out, err := r.Employees.Save(ctx, emp)
		if err != nil {
			return err
		}
		salary, err := syncPayroll(ctx, r.Payroll, out)
		if err != nil {
			return err
		}
		out.Salary = &salary
		saved = out
		return nil
	})
	if err != nil {
		return Employee{}, err
	}
	return saved, nil
}

// syncPayroll finds or creates the payroll record for emp and stores the
// recomputed salary.
func syncPayroll(ctx context.Context, store payroll.StoreAPI, emp Employee) (float64, error) {
	rec, err := store.FindByNationalID(ctx, emp.NationalID)
	if errors.Is(err, payroll.ErrNotFound) {
		rec = payroll.Record{NationalID: emp.NationalID}
	} else if err != nil {
		return 0, err
	}
	if err := rec.Recompute(emp.Category, emp.SeniorityYears); err != nil {
		return 0, err
	}
	rec, err = store.Save(ctx, rec)
	if err != nil {
		return 0, err
	}
	return rec.Salary, nil
}

func (s *Service) findActive(ctx context.Context, repos Repositories, nationalID string) (Employee, error) {
	emp, err := repos.Employees.Find(ctx, nationalID)
	if err != nil {
		return Employee{}, err
	}
	if !emp.Active() {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (s *Service) withinTx(ctx context.Context, fn func(Repositories) error) error {
	if s.tx == nil {
		return fn(s.repos)
	}
	return s.tx.WithinTx(ctx, fn)
}

func (s *Service) record(ctx context.Context, action, nationalID string, before, after any) {
	if s.audit == nil {
		return
	}
	evt := audit.NewEvent(ctx, action, audit.EntityEmployee, nationalID, before, after)
	if err := s.audit.Record(ctx, evt); err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.String("national_id", nationalID), zap.Error(err))
	}
}
