package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetcore/internal/auth"
)

type fakeUserStore struct {
	users  map[string]*auth.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*auth.User{}, nextID: 1}
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	u, ok := f.users[auth.NormalizeEmail(email)]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, u *auth.User) error {
	key := auth.NormalizeEmail(u.Email)
	if _, ok := f.users[key]; ok {
		return auth.ErrDuplicateEmail
	}
	u.ID = f.nextID
	f.nextID++
	f.users[key] = u
	return nil
}

type fakeRevocations struct {
	revoked map[string]bool
}

func (f *fakeRevocations) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func newTestMux(t *testing.T) http.Handler {
	t.Helper()
	issuer := auth.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	svc := auth.NewService(newFakeUserStore(), &fakeRevocations{revoked: map[string]bool{}}, issuer, auth.RoleChauffeur)
	logger := testLogger()

	mux := http.NewServeMux()
	mux.Handle("/api/v1/auth/login", loginHandler(svc, logger))
	mux.Handle("/api/v1/auth/register", registerHandler(svc, logger))
	mux.Handle("/api/v1/auth/logout", logoutHandler(svc, logger))
	mux.Handle("/api/v1/auth/refresh", refreshHandler(svc, logger))

	secured := auth.Middleware(issuer)
	mux.Handle("/api/v1/protected", secured(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]interface{}{"uid": id.UserID, "role": id.Role})
	})))
	return mux
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow(t *testing.T) {
	mux := newTestMux(t)

	// Register
	rec := do(t, mux, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "a@b.com", "password": "secret123", "firstname": "A", "lastname": "B",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "secret123") {
		t.Fatalf("register response must not expose password material: %s", rec.Body.String())
	}

	// Duplicate register
	rec = do(t, mux, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "a@b.com", "password": "secret123", "firstname": "A", "lastname": "B",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: want 400, got %d", rec.Code)
	}

	// Login
	rec = do(t, mux, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "a@b.com", "password": "secret123",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var loginResp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if loginResp.AccessToken == "" || loginResp.RefreshToken == "" {
		t.Fatalf("login must return both tokens")
	}

	// Wrong password
	rec = do(t, mux, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "a@b.com", "password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: want 401, got %d", rec.Code)
	}

	// Protected route without a header
	rec = do(t, mux, http.MethodGet, "/api/v1/protected", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no header: want 401, got %d", rec.Code)
	}

	// Protected route with the access token
	header := http.Header{}
	header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	rec = do(t, mux, http.MethodGet, "/api/v1/protected", nil, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("with token: want 200, got %d", rec.Code)
	}

	// Refresh yields an access token that independently passes the middleware
	rec = do(t, mux, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refreshToken": loginResp.RefreshToken,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var refreshResp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &refreshResp); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	header = http.Header{}
	header.Set("Authorization", "Bearer "+refreshResp.AccessToken)
	rec = do(t, mux, http.MethodGet, "/api/v1/protected", nil, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("refreshed token: want 200, got %d", rec.Code)
	}

	// Logout, then the refresh token is dead
	rec = do(t, mux, http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refreshToken": loginResp.RefreshToken,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: want 200, got %d", rec.Code)
	}
	rec = do(t, mux, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refreshToken": loginResp.RefreshToken,
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: want 401, got %d", rec.Code)
	}
}

func TestRegisterValidationResponse(t *testing.T) {
	mux := newTestMux(t)
	rec := do(t, mux, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "not-an-email", "password": "short",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatalf("error envelope must carry success=false")
	}
	if !strings.Contains(resp.Message, "email") {
		t.Fatalf("message should name the offending field: %q", resp.Message)
	}
}

func TestLogoutInvalidToken(t *testing.T) {
	mux := newTestMux(t)
	rec := do(t, mux, http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refreshToken": "garbage",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}
