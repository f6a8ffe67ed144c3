package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/avelichko/todolist/internal/apperror"
	"github.com/avelichko/todolist/internal/middleware"
	"github.com/avelichko/todolist/internal/models"
)

// newLoggedInApp wires a test app with one logged-in user whose session
// cookie is "tok".
func newLoggedInApp(t *testing.T, todo TodoService) http.Handler {
	t.Helper()
	sessions := newFakeSessionStore()
	sessions.tokens["tok"] = 7
	users := &fakeUserLoader{users: map[int64]*models.User{7: {ID: 7, Username: "alice"}}}
	return newTestApp(t, &fakeAuthService{}, todo, sessions, users)
}

func loggedIn(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "tok"})
	return req
}

func TestTodoList_RequiresLogin(t *testing.T) {
	app := newLoggedInApp(t, &fakeTodoService{})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todo/list", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
	if msg := flashMessage(t, rec.Result()); msg != "Please log in to access this page." {
		t.Errorf("flash = %q; want login prompt", msg)
	}
}

func TestTodoList_RendersItemsInOrder(t *testing.T) {
	todos := []models.Todo{
		{ID: 1, UserID: 7, Name: "Buy groceries", Description: "milk and bread", DueDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), Status: models.StatusPending, Position: 1},
		{ID: 2, UserID: 7, Name: "Pay rent", Description: "before the 1st", DueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Status: models.StatusInProgress, Position: 2},
	}
	svc := &fakeTodoService{
		ListFunc: func(ctx context.Context, userID int64) ([]models.Todo, error) {
			if userID != 7 {
				t.Errorf("List received userID = %d; want 7", userID)
			}
			return todos, nil
		},
	}
	app := newLoggedInApp(t, svc)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, loggedIn(httptest.NewRequest(http.MethodGet, "/todo/list", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Buy groceries", "Pay rent", "2026-09-15"} {
		if !strings.Contains(body, want) {
			t.Errorf("list page is missing %q", want)
		}
	}
	if strings.Index(body, "Buy groceries") > strings.Index(body, "Pay rent") {
		t.Error("items are not rendered in list order")
	}
}

func TestTodoList_EmptyList(t *testing.T) {
	svc := &fakeTodoService{
		ListFunc: func(ctx context.Context, userID int64) ([]models.Todo, error) {
			return nil, nil
		},
	}
	app := newLoggedInApp(t, svc)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, loggedIn(httptest.NewRequest(http.MethodGet, "/todo/list", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nothing here yet") {
		t.Error("empty list page is missing the placeholder")
	}
}

func TestTodoActions(t *testing.T) {
	validUpdate := url.Values{
		"todo_id":     {"3"},
		"action":      {"update"},
		"name":        {"Buy groceries"},
		"description": {"milk and bread"},
		"due_date":    {"2026-09-15"},
		"status":      {"done"},
	}

	tests := []struct {
		name      string
		form      url.Values
		svc       *fakeTodoService
		wantFlash string
	}{
		{
			name: "delete",
			form: url.Values{"todo_id": {"3"}, "action": {"delete"}},
			svc: &fakeTodoService{
				DeleteFunc: func(ctx context.Context, id, userID int64) error {
					if id != 3 || userID != 7 {
						t.Errorf("Delete received (%d, %d); want (3, 7)", id, userID)
					}
					return nil
				},
			},
			wantFlash: "Todo item deleted successfully!",
		},
		{
			name: "update",
			form: validUpdate,
			svc: &fakeTodoService{
				UpdateFunc: func(ctx context.Context, id, userID int64, fields models.TodoFields) error {
					if fields.Name != "Buy groceries" || fields.Status != models.StatusDone {
						t.Errorf("Update received fields %+v", fields)
					}
					return nil
				},
			},
			wantFlash: "Todo item updated successfully!",
		},
		{
			name: "move up",
			form: url.Values{"todo_id": {"3"}, "action": {"move_up"}},
			svc: &fakeTodoService{
				MoveUpFunc: func(ctx context.Context, id, userID int64) error { return nil },
			},
			wantFlash: "Todo item moved up successfully!",
		},
		{
			name: "move down without a successor",
			form: url.Values{"todo_id": {"3"}, "action": {"move_down"}},
			svc: &fakeTodoService{
				MoveDownFunc: func(ctx context.Context, id, userID int64) error {
					return apperror.NewNoNeighbor("no neighbor", nil)
				},
			},
			wantFlash: "Todo item is already at the end of the list.",
		},
		{
			name: "delete a missing item",
			form: url.Values{"todo_id": {"99"}, "action": {"delete"}},
			svc: &fakeTodoService{
				DeleteFunc: func(ctx context.Context, id, userID int64) error {
					return apperror.NewNotFound("todo not found", nil)
				},
			},
			wantFlash: "Todo item not found.",
		},
		{
			name:      "unknown action",
			form:      url.Values{"todo_id": {"3"}, "action": {"archive"}},
			svc:       &fakeTodoService{},
			wantFlash: "Unknown action.",
		},
		{
			name:      "unparsable item id",
			form:      url.Values{"todo_id": {"abc"}, "action": {"delete"}},
			svc:       &fakeTodoService{},
			wantFlash: "Invalid todo item.",
		},
		{
			name: "update with a bad due date",
			form: url.Values{
				"todo_id":     {"3"},
				"action":      {"update"},
				"name":        {"Buy groceries"},
				"description": {"milk"},
				"due_date":    {"next tuesday"},
				"status":      {"pending"},
			},
			svc:       &fakeTodoService{},
			wantFlash: "Due date must be a date in YYYY-MM-DD format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newLoggedInApp(t, tt.svc)

			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, loggedIn(postForm("/todo/list", tt.form)))

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/todo/list" {
				t.Errorf("expected redirect to /todo/list, got %q", loc)
			}
			if msg := flashMessage(t, rec.Result()); msg != tt.wantFlash {
				t.Errorf("flash = %q; want %q", msg, tt.wantFlash)
			}
		})
	}
}

func TestTodoCreatePage(t *testing.T) {
	app := newLoggedInApp(t, &fakeTodoService{})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, loggedIn(httptest.NewRequest(http.MethodGet, "/todo/create", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/todo/create"`) {
		t.Error("create page is missing the form")
	}
}

func TestTodoCreate(t *testing.T) {
	t.Run("valid form creates and redirects", func(t *testing.T) {
		var got models.TodoFields
		svc := &fakeTodoService{
			CreateFunc: func(ctx context.Context, userID int64, fields models.TodoFields) (*models.Todo, error) {
				if userID != 7 {
					t.Errorf("Create received userID = %d; want 7", userID)
				}
				got = fields
				return &models.Todo{ID: 1, UserID: userID, Position: 1}, nil
			},
		}
		app := newLoggedInApp(t, svc)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, loggedIn(postForm("/todo/create", url.Values{
			"name":        {"Buy groceries"},
			"description": {"milk and bread"},
			"due_date":    {"2026-09-15"},
			"status":      {"pending"},
		})))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/todo/list" {
			t.Errorf("expected redirect to /todo/list, got %q", loc)
		}
		if msg := flashMessage(t, rec.Result()); msg != "New todo item created successfully!" {
			t.Errorf("flash = %q; want creation confirmation", msg)
		}
		want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		if !got.DueDate.Equal(want) {
			t.Errorf("Create received due date %v; want %v", got.DueDate, want)
		}
	})

	t.Run("invalid form re-renders with messages", func(t *testing.T) {
		svc := &fakeTodoService{
			CreateFunc: func(ctx context.Context, userID int64, fields models.TodoFields) (*models.Todo, error) {
				t.Fatal("Create must not be called for invalid input")
				return nil, nil
			},
		}
		app := newLoggedInApp(t, svc)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, loggedIn(postForm("/todo/create", url.Values{
			"name":        {"Buy groceries"},
			"description": {"milk"},
			"due_date":    {"15/09/2026"},
			"status":      {"pending"},
		})))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Due date must be a date in YYYY-MM-DD format") {
			t.Error("create page is missing the due date message")
		}
		if !strings.Contains(body, `value="Buy groceries"`) {
			t.Error("re-rendered form lost the name")
		}
	})
}
