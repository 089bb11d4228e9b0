package payroll

import "context"

type StoreAPI interface {
	FindByNationalID(ctx context.Context, nationalID string) (Record, error)
	Save(ctx context.Context, rec Record) (Record, error)
}
