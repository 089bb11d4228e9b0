package session

import (
	"context"
	"time"
)

// TTL is how long a login stays valid. Page views do not extend it.
const TTL = 900 * time.Second

type Session struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"adminId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoggedIn reports whether s exists and now is strictly before its expiry.
func (s *Session) LoggedIn(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session loaded for the request, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
