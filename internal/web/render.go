// Package web renders the application's HTML pages and carries one-shot
// flash notices between requests. Templates are embedded in the binary.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/avelichko/todolist/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists every renderable page template.
var pages = []string{
	"home.html",
	"home_anon.html",
	"signup.html",
	"login.html",
	"todo_list.html",
	"todo_create.html",
	"404.html",
	"500.html",
}

// Data is the context passed to every template.
type Data struct {
	// User is the current user, nil when not logged in.
	User *models.User
	// Flash is the pending one-shot notice, if any.
	Flash *Flash
	// Errors maps form field names to validation messages.
	Errors map[string]string
	// Form echoes submitted form values so a re-rendered form keeps them.
	Form map[string]string
	// Todos is the item list for list views.
	Todos []models.Todo
}

// Renderer holds the parsed template set.
type Renderer struct {
	templates map[string]*template.Template
	log       *zap.Logger
}

// NewRenderer parses all embedded templates against the shared base layout.
func NewRenderer(log *zap.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates, log: log}, nil
}

// Render writes the named page with the given status code. The page is
// rendered to a buffer first so a template failure never produces a
// half-written response.
func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data *Data) {
	t, ok := rn.templates[page]
	if !ok {
		rn.log.Error("unknown template", zap.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &Data{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		rn.log.Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
