package httpx

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const sessionKey ctxKey = iota

const sessionCookie = "cart_session"

// WithSession assigns every request a browsing-session id, carried in a
// cookie. The id scopes the shopper's in-memory cart; a new browser means a
// new session and an empty cart.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID uuid.UUID

		if c, err := r.Cookie(sessionCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				sessionID = id
			}
		}
		if sessionID == uuid.Nil {
			sessionID = uuid.New()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the browsing-session id set by WithSession.
func SessionID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(sessionKey).(uuid.UUID)
	return id
}

// RequireToken guards a route tree with a static bearer token read from the
// given header. Real authentication lives in the hosted auth provider; this
// is the service-side stand-in for its verified role claim.
func RequireToken(header, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
