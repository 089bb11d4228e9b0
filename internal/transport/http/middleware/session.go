package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"paydesk/internal/domain/session"
	"paydesk/internal/requestctx"
)

// Session loads the browser's session from its cookie and stores it in the
// request context. Logged-in administrators become the request's actor.
func Session(manager *session.Manager, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, err := manager.Load(r.Context(), manager.TokenFrom(r))
			if err != nil {
				log.Debug("session not loaded", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
				current = nil
			}

			ctx := session.NewContext(r.Context(), current)
			if manager.LoggedIn(current) {
				ctx = requestctx.WithActorID(ctx, current.AdminID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects requests without a live session to loginURL.
func RequireLogin(manager *session.Manager, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !manager.LoggedIn(session.FromContext(r.Context())) {
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
