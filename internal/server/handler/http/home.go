package http

import (
	"net/http"

	"github.com/avelichko/todolist/internal/middleware"
	"github.com/avelichko/todolist/internal/web"
)

// HomeHandler renders the home page and the not-found page.
type HomeHandler struct {
	Renderer *web.Renderer
}

// Home handles GET /. Logged-in users get the personal variant, everyone
// else the anonymous one.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	page := "home_anon.html"
	if user != nil {
		page = "home.html"
	}
	h.Renderer.Render(w, http.StatusOK, page, &web.Data{
		User:  user,
		Flash: web.PopFlash(w, r),
	})
}

// NotFound renders the 404 page for unknown routes.
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusNotFound, "404.html", &web.Data{
		User: middleware.UserFromContext(r.Context()),
	})
}
