package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichko/todolist/internal/models"
)

type fakeSessions struct {
	tokens map[string]int64
}

func (f *fakeSessions) Get(ctx context.Context, token string) (int64, error) {
	id, ok := f.tokens[token]
	if !ok {
		return 0, errors.New("no such session")
	}
	return id, nil
}

type fakeUsers struct {
	users map[int64]*models.User
}

func (f *fakeUsers) ByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func TestWithCurrentUser(t *testing.T) {
	sessions := &fakeSessions{tokens: map[string]int64{"tok": 7}}
	users := &fakeUsers{users: map[int64]*models.User{7: {ID: 7, Username: "alice"}}}

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wantUser bool
	}{
		{"no cookie", nil, false},
		{"unknown token", &http.Cookie{Name: SessionCookie, Value: "bogus"}, false},
		{"valid session", &http.Cookie{Name: SessionCookie, Value: "tok"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = UserFromContext(r.Context())
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			WithCurrentUser(sessions, users)(next).ServeHTTP(rec, req)

			if tt.wantUser && (got == nil || got.ID != 7) {
				t.Errorf("expected user 7 in context, got %+v", got)
			}
			if !tt.wantUser && got != nil {
				t.Errorf("expected no user in context, got %+v", got)
			}
		})
	}
}

func TestRequireUser_RedirectsAnonymous(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/todo/list", nil)
	rec := httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rec, req)

	if called {
		t.Error("wrapped handler must not run without a user")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireUser_PassesLoggedIn(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx := context.WithValue(context.Background(), userKey, &models.User{ID: 7})
	req := httptest.NewRequest("GET", "/todo/list", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rec, req)

	if !called {
		t.Error("wrapped handler did not run for a logged-in user")
	}
}
