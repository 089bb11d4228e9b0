package session

import (
	"context"
	"time"
)

type StoreAPI interface {
	Get(ctx context.Context, id string) (Session, error)
	// Put stores s for ttl, measured on the caller's clock. A non-positive
	// ttl removes s.
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
