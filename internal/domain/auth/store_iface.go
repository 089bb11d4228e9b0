package auth

import "context"

type StoreAPI interface {
	FindAdministrator(ctx context.Context, nationalID, email string) (Administrator, error)
}
