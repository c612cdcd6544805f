package trailers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetcore/internal/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withRole(req *http.Request, role auth.Role) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: 1, Role: role}))
}

func TestListHandlerRoleGating(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	handler := &ListHandler{Store: NewStore(db), Logger: testLogger()}

	// Any authenticated role may list.
	mock.ExpectQuery("FROM trailers ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "plate", "kind", "capacity_kg",
			"status", "created_at", "updated_at"}))
	req := withRole(httptest.NewRequest(http.MethodGet, "/api/v1/trailers", nil), auth.RoleChauffeur)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("chauffeur list: want 200, got %d", rec.Code)
	}

	// Chauffeurs may not create.
	req = withRole(httptest.NewRequest(http.MethodPost, "/api/v1/trailers",
		strings.NewReader(`{"plate":"T-9","kind":"flatbed","capacity_kg":24000}`)), auth.RoleChauffeur)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("chauffeur create: want 403, got %d", rec.Code)
	}

	// No identity at all.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trailers", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no identity: want 401, got %d", rec.Code)
	}
}

func TestDetailHandlerPatchNeedsManager(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	handler := &DetailHandler{Store: NewStore(db), Logger: testLogger()}

	req := withRole(httptest.NewRequest(http.MethodPatch, "/api/v1/trailers/4",
		strings.NewReader(`{"status":"maintenance"}`)), auth.RoleChauffeur)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("chauffeur patch: want 403, got %d", rec.Code)
	}
}

func TestDetailHandlerDeleteIsAdminOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	handler := &DetailHandler{Store: NewStore(db), Logger: testLogger()}

	req := withRole(httptest.NewRequest(http.MethodDelete, "/api/v1/trailers/4", nil), auth.RoleManager)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("manager delete: want 403, got %d", rec.Code)
	}

	mock.ExpectExec("DELETE FROM trailers WHERE id = ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	req = withRole(httptest.NewRequest(http.MethodDelete, "/api/v1/trailers/4", nil), auth.RoleAdmin)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete: want 204, got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
