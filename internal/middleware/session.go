// Package middleware provides HTTP middlewares for session resolution,
// authorization and request logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/avelichko/todolist/internal/models"
	"github.com/avelichko/todolist/internal/web"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "todo_session"

// SessionStore resolves opaque session tokens to user ids.
type SessionStore interface {
	// Get returns the user id the token was issued for.
	Get(ctx context.Context, token string) (int64, error)
}

// UserLoader loads user records by id.
type UserLoader interface {
	// ByID fetches a user by id.
	ByID(ctx context.Context, id int64) (*models.User, error)
}

// WithCurrentUser resolves the session cookie into a user and stores the
// user in the request context. Requests without a valid session proceed
// with no user set; route-level guards decide whether that is acceptable.
func WithCurrentUser(sessions SessionStore, users UserLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.ByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the current user from the request context.
// Returns nil when no user is logged in.
func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}

// RequireUser redirects unauthenticated requests to the login page with a
// notice instead of serving the wrapped handler.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			web.SetFlash(w, "Please log in to access this page.", web.FlashDanger)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
