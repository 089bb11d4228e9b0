package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieName = "paydesk_session"

// Manager issues, loads and destroys sessions and their cookies.
type Manager struct {
	store  StoreAPI
	secret []byte
	secure bool
	now    func() time.Time
	newID  func() string
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func NewManager(store StoreAPI, secret string, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		secret: []byte(secret),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Now() time.Time {
	return m.now()
}

// LoggedIn reports whether s is still within its login window.
func (m *Manager) LoggedIn(s *Session) bool {
	return s.LoggedIn(m.now())
}

// Start logs adminID in, reusing the browser's current session when there is
// one. The expiry is reset to now plus TTL.
func (m *Manager) Start(ctx context.Context, current *Session, adminID string) (*Session, string, error) {
	id := m.newID()
	if current != nil && current.ID != "" {
		id = current.ID
	}
	now := m.now()
	s := Session{ID: id, AdminID: adminID, ExpiresAt: now.Add(TTL)}
	if err := m.store.Put(ctx, s, s.ExpiresAt.Sub(now)); err != nil {
		return nil, "", err
	}
	token, err := GenerateToken(m.secret, s, now)
	if err != nil {
		return nil, "", err
	}
	return &s, token, nil
}

// Load resolves a cookie token to its session. An empty token or a session
// that no longer exists yields nil without error.
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := ParseToken(m.secret, token)
	if err != nil {
		return nil, err
	}
	s, err := m.store.Get(ctx, claims.ID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return nil
	}
	return m.store.Delete(ctx, s.ID)
}

func (m *Manager) TokenFrom(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (m *Manager) SetCookie(w http.ResponseWriter, token string, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
