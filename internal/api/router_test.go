package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/depotdesk/depotdesk/internal/auth/blacklist"
	"github.com/depotdesk/depotdesk/internal/config"
	"github.com/depotdesk/depotdesk/internal/db"
	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/depotdesk/depotdesk/internal/rbac"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "development", CORSOrigins: []string{"http://localhost:5173"}},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: t.TempDir() + "/test.db", LogLevel: "silent"},
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	authz, err := rbac.NewAuthorizer(database)
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}

	tokens, err := auth.NewTokenIssuer("test-secret", "depotdesk", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	authenticator := auth.NewJWTAuthenticator(database, tokens, blacklist.NewMemoryStore())

	return &testEnv{
		router: NewRouter(cfg, database, authenticator, authz, nil),
		db:     database,
	}
}

func (e *testEnv) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Email: email, Name: "Test", Role: role, PasswordHash: hash}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email string) auth.LoginResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login/", "", map[string]string{"email": email, "password": "correct-horse"})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, w.Code, w.Body.String())
	}
	var resp auth.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestLogin_InvalidCredentialsBody(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ops@example.com", models.RoleSupportStaff)

	w := env.do(t, http.MethodPost, "/api/auth/login/", "", map[string]string{"email": "ops@example.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w.Body.String() != `{"detail":"Invalid credentials"}` {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login/", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	for _, field := range []string{"email", "password"} {
		if _, ok := body[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, body)
		}
	}
}

func TestLogin_ReturnsUserAndTokens(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ops@example.com", models.RoleWarehouseAdmin)

	resp := env.login(t, "ops@example.com")
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatal("expected tokens")
	}
	if resp.User.Email != "ops@example.com" || resp.User.RoleDisplay != "Warehouse Admin" {
		t.Errorf("unexpected user: %+v", resp.User)
	}

	w := env.do(t, http.MethodGet, "/api/auth/user/", resp.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("current user: %d", w.Code)
	}
	if decode(t, w)["email"] != "ops@example.com" {
		t.Errorf("unexpected current user: %s", w.Body.String())
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/warehouses/", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if decode(t, w)["detail"] != "Authentication credentials were not provided." {
		t.Errorf("unexpected body: %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/warehouses/", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}
}

func TestPolicy_Admission(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "root@example.com", models.RolePlatformAdmin)
	env.createUser(t, "staff@example.com", models.RoleSupportStaff)
	env.createUser(t, "wh@example.com", models.RoleWarehouseAdmin)

	tests := []struct {
		email string
		path  string
		want  int
	}{
		{"root@example.com", "/api/warehouses/", http.StatusOK},
		{"staff@example.com", "/api/warehouses/", http.StatusOK},
		{"wh@example.com", "/api/announcements/", http.StatusOK},
		{"root@example.com", "/api/users/", http.StatusOK},
		{"root@example.com", "/api/audit-logs/", http.StatusOK},
		{"staff@example.com", "/api/users/", http.StatusForbidden},
		{"wh@example.com", "/api/audit-logs/", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.email+tt.path, func(t *testing.T) {
			token := env.login(t, tt.email).Token
			w := env.do(t, http.MethodGet, tt.path, token, nil)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestPolicy_DeniedWriteLeavesStoreUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "staff@example.com", models.RoleSupportStaff)
	token := env.login(t, "staff@example.com").Token

	w := env.do(t, http.MethodPost, "/api/users/", token, map[string]string{
		"email": "new@example.com", "name": "New", "password": "long-enough",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if decode(t, w)["detail"] != "You do not have permission to perform this action." {
		t.Errorf("unexpected body: %s", w.Body.String())
	}

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("expected no user to be created, got %d users", count)
	}
}

func TestWarehouse_CRUD(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "wh@example.com", models.RoleWarehouseAdmin)
	token := env.login(t, "wh@example.com").Token

	w := env.do(t, http.MethodPost, "/api/warehouses/", token, map[string]interface{}{"city": "Oslo", "latitude": 59.9, "longitude": 10.7})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	path := fmt.Sprintf("/api/warehouses/%d/", int(decode(t, w)["id"].(float64)))

	w = env.do(t, http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK || decode(t, w)["city"] != "Oslo" {
		t.Fatalf("get: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPut, path, token, map[string]interface{}{"city": "Bergen"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("partial put should fail: %d", w.Code)
	}
	if _, ok := decode(t, w)["latitude"]; !ok {
		t.Errorf("expected latitude error: %s", w.Body.String())
	}

	w = env.do(t, http.MethodPut, path, token, map[string]interface{}{"city": "Bergen", "latitude": 60.39, "longitude": 5.32})
	if w.Code != http.StatusOK || decode(t, w)["city"] != "Bergen" {
		t.Fatalf("put: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodDelete, path, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}

	w = env.do(t, http.MethodGet, path, token, nil)
	if w.Code != http.StatusNotFound || w.Body.Len() != 0 {
		t.Fatalf("expected empty 404, got %d %q", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodDelete, path, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting missing id, got %d", w.Code)
	}
}

func TestNonNumericID(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "wh@example.com", models.RoleWarehouseAdmin)
	token := env.login(t, "wh@example.com").Token

	w := env.do(t, http.MethodGet, "/api/categories/abc/", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAnnouncement_CreatedByFromCaller(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "staff@example.com", models.RoleSupportStaff)
	token := env.login(t, "staff@example.com").Token

	w := env.do(t, http.MethodPost, "/api/announcements/", token, map[string]interface{}{
		"title": "Stocktake", "content": "Friday", "created_by": 999,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["created_by"].(float64); uint(got) != author.ID {
		t.Errorf("expected created_by %d, got %v", author.ID, got)
	}
}

func TestSubCategory_IncludesCategoryName(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "root@example.com", models.RolePlatformAdmin)
	token := env.login(t, "root@example.com").Token

	w := env.do(t, http.MethodPost, "/api/categories/", token, map[string]string{"name": "Tools"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", w.Code, w.Body.String())
	}
	catID := decode(t, w)["id"]

	w = env.do(t, http.MethodPost, "/api/subcategories/", token, map[string]interface{}{"name": "Hammers", "category": catID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create subcategory: %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["category_name"] != "Tools" || body["category"] != catID {
		t.Errorf("unexpected subcategory: %v", body)
	}

	w = env.do(t, http.MethodDelete, "/api/categories/1/", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting category with children, got %d", w.Code)
	}
}

func TestLogout_Flow(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "ops@example.com", models.RoleSupportStaff)
	resp := env.login(t, "ops@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/refresh/", "", map[string]string{"refresh_token": resp.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/auth/logout/", resp.Token, map[string]string{})
	if w.Code != http.StatusBadRequest || decode(t, w)["detail"] != "Invalid token" {
		t.Fatalf("logout without token: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/auth/logout/", resp.Token, map[string]string{"refresh_token": resp.RefreshToken})
	if w.Code != http.StatusResetContent {
		t.Fatalf("logout: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/auth/refresh/", "", map[string]string{"refresh_token": resp.RefreshToken})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("refresh after logout: %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/auth/logout/", resp.Token, map[string]string{"refresh_token": resp.RefreshToken})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second logout: %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/auth/logout/", "", map[string]string{"refresh_token": resp.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated logout: %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/warehouses/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("unexpected allow-origin %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unlisted origin must not be allowed")
	}
}
