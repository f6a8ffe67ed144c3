package http

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avelichko/todolist/internal/apperror"
	"github.com/avelichko/todolist/internal/middleware"
	"github.com/avelichko/todolist/internal/models"
	"github.com/avelichko/todolist/internal/validation"
	"github.com/avelichko/todolist/internal/web"
)

// TodoService defines the to-do operations required by the HTTP handlers.
type TodoService interface {
	// List returns the user's items in list order.
	List(ctx context.Context, userID int64) ([]models.Todo, error)
	// Create adds a new item to the end of the user's list.
	Create(ctx context.Context, userID int64, f models.TodoFields) (*models.Todo, error)
	// Update overwrites the editable fields of the given item.
	Update(ctx context.Context, id, userID int64, f models.TodoFields) error
	// Delete removes the given item.
	Delete(ctx context.Context, id, userID int64) error
	// MoveUp swaps the item with its predecessor.
	MoveUp(ctx context.Context, id, userID int64) error
	// MoveDown swaps the item with its successor.
	MoveDown(ctx context.Context, id, userID int64) error
}

// TodoHandler handles the to-do list and creation pages. All routes are
// mounted behind RequireUser, so a current user is always present.
type TodoHandler struct {
	TodoService TodoService
	Renderer    *web.Renderer
	Log         *zap.Logger
}

// List handles GET and POST /todo/list. GET renders the user's items; POST
// dispatches on the "action" form field (delete, update, move_up, move_down)
// and redirects back to the list with a notice.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if r.Method == http.MethodPost {
		h.handleAction(w, r, user)
		return
	}

	todos, err := h.TodoService.List(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "todo_list.html", &web.Data{
		User:  user,
		Flash: web.PopFlash(w, r),
		Todos: todos,
	})
}

// Create handles GET and POST /todo/create. The list position of the new
// item is assigned by the store, not the form.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if r.Method == http.MethodGet {
		h.Renderer.Render(w, http.StatusOK, "todo_create.html", &web.Data{
			User:  user,
			Flash: web.PopFlash(w, r),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.Renderer.Render(w, http.StatusBadRequest, "todo_create.html", &web.Data{
			User:   user,
			Errors: map[string]string{"Form": "Invalid form submission"},
		})
		return
	}
	form := todoForm(r)
	if errs := validation.Todo(form); len(errs) > 0 {
		h.Renderer.Render(w, http.StatusOK, "todo_create.html", &web.Data{
			User:   user,
			Errors: errs,
			Form:   formValues(r),
		})
		return
	}

	if _, err := h.TodoService.Create(r.Context(), user.ID, todoFields(form)); err != nil {
		h.fail(w, r, err)
		return
	}
	web.SetFlash(w, "New todo item created successfully!", web.FlashSuccess)
	http.Redirect(w, r, "/todo/list", http.StatusSeeOther)
}

// handleAction executes one mutating list action and redirects back to the
// list. Every outcome, including a missing item or a move without a
// neighbor, ends in a redirect with a notice; nothing surfaces as a raw
// error page.
func (h *TodoHandler) handleAction(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithNotice(w, r, "Invalid form submission.", web.FlashDanger)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("todo_id"), 10, 64)
	if err != nil {
		h.redirectWithNotice(w, r, "Invalid todo item.", web.FlashDanger)
		return
	}

	var success string
	switch action := r.PostFormValue("action"); action {
	case "delete":
		err = h.TodoService.Delete(r.Context(), id, user.ID)
		success = "Todo item deleted successfully!"
	case "update":
		form := todoForm(r)
		if errs := validation.Todo(form); len(errs) > 0 {
			h.redirectWithNotice(w, r, joinMessages(errs), web.FlashDanger)
			return
		}
		err = h.TodoService.Update(r.Context(), id, user.ID, todoFields(form))
		success = "Todo item updated successfully!"
	case "move_up":
		err = h.TodoService.MoveUp(r.Context(), id, user.ID)
		success = "Todo item moved up successfully!"
	case "move_down":
		err = h.TodoService.MoveDown(r.Context(), id, user.ID)
		success = "Todo item moved down successfully!"
	default:
		h.redirectWithNotice(w, r, "Unknown action.", web.FlashDanger)
		return
	}

	switch {
	case err == nil:
		h.redirectWithNotice(w, r, success, web.FlashSuccess)
	case apperror.IsNotFound(err), apperror.IsForbidden(err):
		h.redirectWithNotice(w, r, "Todo item not found.", web.FlashDanger)
	case apperror.IsNoNeighbor(err):
		h.redirectWithNotice(w, r, "Todo item is already at the end of the list.", web.FlashDanger)
	default:
		h.Log.Error("todo action failed", zap.Error(err))
		h.redirectWithNotice(w, r, "Something went wrong. Please try again.", web.FlashDanger)
	}
}

func (h *TodoHandler) redirectWithNotice(w http.ResponseWriter, r *http.Request, message string, category web.FlashCategory) {
	web.SetFlash(w, message, category)
	http.Redirect(w, r, "/todo/list", http.StatusSeeOther)
}

func (h *TodoHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	h.Renderer.Render(w, http.StatusInternalServerError, "500.html", &web.Data{
		User: middleware.UserFromContext(r.Context()),
	})
}

// todoForm reads the to-do form fields from the request.
func todoForm(r *http.Request) validation.TodoForm {
	return validation.TodoForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		DueDate:     strings.TrimSpace(r.PostFormValue("due_date")),
		Status:      r.PostFormValue("status"),
	}
}

// todoFields converts a validated form into store fields. The due date is
// known to parse because validation.Todo checked it.
func todoFields(form validation.TodoForm) models.TodoFields {
	due, _ := time.Parse(validation.DateLayout, form.DueDate)
	return models.TodoFields{
		Name:        form.Name,
		Description: form.Description,
		DueDate:     due,
		Status:      models.Status(form.Status),
	}
}

// joinMessages flattens a validation result into one notice, in stable
// field order.
func joinMessages(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(errs))
	for _, field := range fields {
		messages = append(messages, errs[field])
	}
	return strings.Join(messages, " ")
}
