package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avelichko/todolist/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the application.
//
// Routes:
//
//	GET  /                 → home.Home (variant by login state)
//	GET  /signup, POST /signup → auth.Signup
//	GET  /login,  POST /login  → auth.Login
//	GET  /logout           → auth.Logout
//	GET  /todo/list, POST /todo/list     → todo.List (requires login)
//	GET  /todo/create, POST /todo/create → todo.Create (requires login)
//	anything else          → home.NotFound
//
// WithCurrentUser resolves the session cookie on every request; RequireUser
// guards the /todo subtree and redirects to /login with a notice.
func NewRouter(
	home *HomeHandler,
	auth *AuthHandler,
	todo *TodoHandler,
	sessions middleware.SessionStore,
	users middleware.UserLoader,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.WithCurrentUser(sessions, users))

	r.Get("/", home.Home)

	r.Get("/signup", auth.Signup)
	r.Post("/signup", auth.Signup)
	r.Get("/login", auth.Login)
	r.Post("/login", auth.Login)
	r.Get("/logout", auth.Logout)

	// Protected group: requires a logged-in user
	r.Route("/todo", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/list", todo.List)
		r.Post("/list", todo.List)
		r.Get("/create", todo.Create)
		r.Post("/create", todo.Create)
	})

	r.NotFound(home.NotFound)

	return r
}
