package employee

import (
	"context"

	"paydesk/internal/domain/payroll"
)

type StoreAPI interface {
	// List returns employees with the given status that satisfy filter.
	List(ctx context.Context, status Status, filter Filter) ([]Employee, error)
	// Find returns the employee regardless of status.
	Find(ctx context.Context, nationalID string) (Employee, error)
	// Save inserts the employee or overwrites the row with the same national ID.
	Save(ctx context.Context, emp Employee) (Employee, error)
	// Rename moves an employee to a new national ID.
	Rename(ctx context.Context, fromID, toID string) error
	SetStatus(ctx context.Context, nationalID string, status Status) error
}

// Repositories groups the stores an employee write touches.
type Repositories struct {
	Employees StoreAPI
	Payroll   payroll.StoreAPI
}

// Transactor runs fn with repositories bound to a single transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}
