// Package http provides the HTTP handlers for signup, login, the home page
// and the to-do list, rendering HTML pages and redirecting with flash
// notices.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/avelichko/todolist/internal/apperror"
	"github.com/avelichko/todolist/internal/middleware"
	"github.com/avelichko/todolist/internal/models"
	"github.com/avelichko/todolist/internal/validation"
	"github.com/avelichko/todolist/internal/web"
)

// AuthService defines the account operations required by the HTTP handlers.
type AuthService interface {
	// SignUp creates a new account; a taken username yields a Conflict error.
	SignUp(ctx context.Context, username, email, password string) (*models.User, error)
	// Authenticate verifies credentials; any mismatch yields an Auth error.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// SessionStore defines the session operations required by the HTTP handlers.
type SessionStore interface {
	// Create registers a session for the user and returns its token.
	Create(ctx context.Context, userID int64) (string, error)
	// Delete removes a session; unknown tokens are a no-op.
	Delete(ctx context.Context, token string) error
}

// AuthHandler handles signup, login and logout requests.
type AuthHandler struct {
	AuthService AuthService
	Sessions    SessionStore
	Renderer    *web.Renderer
	Log         *zap.Logger
}

// Signup handles GET and POST /signup. Any existing session is cleared
// first, so the signup page always starts logged out. On success the new
// user is logged in and redirected home; validation failures and duplicate
// usernames re-render the form with messages.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)

	if r.Method == http.MethodGet {
		h.Renderer.Render(w, http.StatusOK, "signup.html", &web.Data{Flash: web.PopFlash(w, r)})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.Renderer.Render(w, http.StatusBadRequest, "signup.html", &web.Data{
			Errors: map[string]string{"Form": "Invalid form submission"},
		})
		return
	}
	form := validation.SignupForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if errs := validation.Signup(form); len(errs) > 0 {
		h.Renderer.Render(w, http.StatusOK, "signup.html", &web.Data{Errors: errs, Form: formValues(r)})
		return
	}

	user, err := h.AuthService.SignUp(r.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		switch {
		case apperror.IsConflict(err):
			h.Renderer.Render(w, http.StatusOK, "signup.html", &web.Data{
				Errors: map[string]string{"Username": "Username already taken"},
				Form:   formValues(r),
			})
		case apperror.IsValidation(err):
			var appErr *apperror.Error
			errors.As(err, &appErr)
			h.Renderer.Render(w, http.StatusOK, "signup.html", &web.Data{
				Errors: map[string]string{"Password": appErr.Message},
				Form:   formValues(r),
			})
		default:
			h.fail(w, r, err)
		}
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Login handles GET and POST /login. A failed credential check re-renders
// the form with a generic message that does not reveal whether the username
// or the password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.Renderer.Render(w, http.StatusOK, "login.html", &web.Data{
			User:  middleware.UserFromContext(r.Context()),
			Flash: web.PopFlash(w, r),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.Renderer.Render(w, http.StatusBadRequest, "login.html", &web.Data{
			Errors: map[string]string{"Form": "Invalid form submission"},
		})
		return
	}
	form := validation.LoginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if errs := validation.Login(form); len(errs) > 0 {
		h.Renderer.Render(w, http.StatusOK, "login.html", &web.Data{Errors: errs, Form: formValues(r)})
		return
	}

	user, err := h.AuthService.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		if apperror.IsAuth(err) {
			h.Renderer.Render(w, http.StatusOK, "login.html", &web.Data{
				Errors: map[string]string{"Form": "Invalid credentials."},
				Form:   formValues(r),
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		h.fail(w, r, err)
		return
	}
	web.SetFlash(w, "Hello, "+user.Username+"!", web.FlashSuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout. Logging out without a session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)
	web.SetFlash(w, "You have successfully logged out.", web.FlashSuccess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// startSession replaces any session referenced by the request cookie with a
// fresh one for the given user. Logging in twice simply overwrites the
// previous session.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.Sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.Log.Warn("delete stale session", zap.Error(err))
		}
	}
	token, err := h.Sessions.Create(r.Context(), user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearSession deletes the session referenced by the request cookie, if any,
// and expires the cookie.
func (h *AuthHandler) clearSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		return
	}
	if err := h.Sessions.Delete(r.Context(), cookie.Value); err != nil {
		h.Log.Warn("delete session", zap.Error(err))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	h.Renderer.Render(w, http.StatusInternalServerError, "500.html", &web.Data{
		User: middleware.UserFromContext(r.Context()),
	})
}

// formValues echoes the submitted form so re-rendered pages keep the input.
// Password fields are never echoed back.
func formValues(r *http.Request) map[string]string {
	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		if key == "password" {
			continue
		}
		values[key] = r.PostFormValue(key)
	}
	return values
}
