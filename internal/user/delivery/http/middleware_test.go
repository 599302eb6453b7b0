package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/almast/trendmart/internal/user/domain"
	"github.com/almast/trendmart/pkg/auth"
)

type fakeRepo struct {
	byID map[uint]*domain.User
}

func (f *fakeRepo) Create(user *domain.User) error { return nil }

func (f *fakeRepo) FindByID(id uint) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeRepo) FindAll(limit, offset int) ([]domain.User, error) { return nil, nil }
func (f *fakeRepo) Update(user *domain.User) error                   { return nil }
func (f *fakeRepo) Delete(id uint) error                             { return nil }
func (f *fakeRepo) Count() (int64, error)                            { return 0, nil }

func token(t *testing.T, userID uint, email string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, email)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	var gotUserID uint
	var gotEmail string
	next := func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(UserIDKey).(uint)
		gotEmail, _ = r.Context().Value(EmailKey).(string)
		w.WriteHeader(http.StatusNoContent)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token(t, 7, "jo@example.com"), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(next).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}

	if gotUserID != 7 || gotEmail != "jo@example.com" {
		t.Errorf("context identity = %d/%q, want 7/jo@example.com", gotUserID, gotEmail)
	}
}

func TestAdminMiddleware(t *testing.T) {
	repo := &fakeRepo{byID: map[uint]*domain.User{
		1: {ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin},
		2: {ID: 2, Email: "jo@example.com", Role: domain.RoleCustomer},
	}}
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"customer", "Bearer " + token(t, 2, "jo@example.com"), http.StatusForbidden},
		{"admin", "Bearer " + token(t, 1, "admin@example.com"), http.StatusNoContent},
		{"deleted account", "Bearer " + token(t, 99, "gone@example.com"), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AdminMiddleware(repo, next).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

// Role changes must bite on the very next request even though the
// token stays valid.
func TestAdminMiddlewareRevokedRole(t *testing.T) {
	admin := &domain.User{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	repo := &fakeRepo{byID: map[uint]*domain.User{1: admin}}
	next := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	bearer := "Bearer " + token(t, 1, "admin@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", bearer)
	rec := httptest.NewRecorder()
	AdminMiddleware(repo, next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status before demotion = %d", rec.Code)
	}

	admin.Role = domain.RoleCustomer

	req = httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", bearer)
	rec = httptest.NewRecorder()
	AdminMiddleware(repo, next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status after demotion = %d, want 403", rec.Code)
	}
}
