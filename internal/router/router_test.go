package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jayu6624/PRODIGY-FS-02/internal/auth"
	"github.com/jayu6624/PRODIGY-FS-02/internal/config"
	"github.com/jayu6624/PRODIGY-FS-02/internal/db"
	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/handler"
	"github.com/jayu6624/PRODIGY-FS-02/internal/middleware"
	"github.com/jayu6624/PRODIGY-FS-02/internal/repository"
	"github.com/jayu6624/PRODIGY-FS-02/internal/service"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	gormDB, err := db.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared", db.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Env:         "test",
		TokenTTL:    time.Hour,
		CORSOrigins: []string{"http://localhost:5173"},
	}

	userRepo := repository.NewUserRepository(gormDB)
	employeeRepo := repository.NewEmployeeRepository(gormDB)
	jwtService := auth.NewJWTService("test-secret", cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, jwtService, auth.NewTokenStore(nil))
	userService := service.NewUserService(userRepo, nil)
	employeeService := service.NewEmployeeService(employeeRepo)

	e := echo.New()
	Register(e, cfg, zap.NewNop(),
		middleware.NewSession(jwtService, userService, authService),
		handler.NewAuthHandler(authService, cfg.TokenTTL, false),
		handler.NewEmployeeHandler(employeeService),
	)
	return e
}

func call(e *echo.Echo, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apperrors.ErrorResponse
	decode(t, rec, &resp)
	return resp.Code
}

func register(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	rec := call(e, http.MethodPost, "/api/user/register", map[string]string{
		"firstname": "Test",
		"lastname":  "User",
		"email":     email,
		"password":  "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp handler.AuthResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func employeePayload(email string) map[string]interface{} {
	return map[string]interface{}{
		"firstName":  "Ada",
		"lastName":   "Lovelace",
		"email":      email,
		"position":   "Engineer",
		"department": "Engineering",
		"startDate":  "2024-01-15",
		"salary":     50000,
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodPost, "/api/user/register", map[string]string{
		"firstname":   "Alice",
		"lastname":    "Smith",
		"email":       "alice@example.com",
		"password":    "secret123",
		"phonenumber": "5551234567",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")

	var registered handler.AuthResponse
	decode(t, rec, &registered)
	assert.True(t, registered.Success)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice@example.com", registered.User.Email)

	rec = call(e, http.MethodPost, "/api/user/register", map[string]string{
		"firstname": "Alice",
		"lastname":  "Again",
		"email":     "ALICE@example.com",
		"password":  "other",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", errorCode(t, rec))

	wrongPassword := call(e, http.MethodPost, "/api/user/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	}, "")
	unknownEmail := call(e, http.MethodPost, "/api/user/login", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	rec = call(e, http.MethodPost, "/api/user/login", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login handler.AuthResponse
	decode(t, rec, &login)
	token := login.Token

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.AddCookie(cookies[0])
	profileRec := httptest.NewRecorder()
	e.ServeHTTP(profileRec, req)
	require.Equal(t, http.StatusOK, profileRec.Code)
	var profile handler.ProfileResponse
	decode(t, profileRec, &profile)
	assert.Equal(t, "Alice", profile.FirstName)
	assert.Equal(t, "5551234567", profile.PhoneNumber)
	assert.Equal(t, registered.User.ID.String(), profile.ID)

	rec = call(e, http.MethodPost, "/api/employee", employeePayload("ada@example.com"), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]interface{}
	decode(t, rec, &created)
	id, _ := created["_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Active", created["status"])
	assert.Equal(t, float64(50000), created["salary"])
	assert.True(t, strings.HasPrefix(created["employeeID"].(string), "EMP-"))
	assert.Equal(t, registered.User.ID.String(), created["createdBy"])

	rec = call(e, http.MethodGet, "/api/employee", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["_id"])

	rec = call(e, http.MethodGet, "/api/employee/"+id, nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	withoutTimestamps := func(m map[string]interface{}) map[string]interface{} {
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			if k != "createdAt" && k != "updatedAt" {
				out[k] = v
			}
		}
		return out
	}
	for _, body := range []interface{}{nil, map[string]interface{}{}} {
		rec = call(e, http.MethodPut, "/api/employee/"+id, body, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var unchanged map[string]interface{}
		decode(t, rec, &unchanged)
		assert.Equal(t, withoutTimestamps(created), withoutTimestamps(unchanged))

		rec = call(e, http.MethodGet, "/api/employee/"+id, nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		var stored map[string]interface{}
		decode(t, rec, &stored)
		assert.Equal(t, withoutTimestamps(created), withoutTimestamps(stored))
		assert.Equal(t, "2024-01-15T00:00:00Z", stored["startDate"])
		assert.Equal(t, float64(50000), stored["salary"])
	}

	rec = call(e, http.MethodPut, "/api/employee/"+id, map[string]interface{}{"status": "Resigned", "salary": 61000.5}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]interface{}
	decode(t, rec, &updated)
	assert.Equal(t, "Resigned", updated["status"])
	assert.Equal(t, 61000.5, updated["salary"])
	assert.Equal(t, "Ada", updated["firstName"])

	rec = call(e, http.MethodDelete, "/api/employee/"+id, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted handler.DeleteEmployeeResponse
	decode(t, rec, &deleted)
	assert.Equal(t, "Employee removed", deleted.Message)
	assert.Equal(t, id, deleted.ID)

	rec = call(e, http.MethodGet, "/api/employee", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = call(e, http.MethodDelete, "/api/employee/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", errorCode(t, rec))
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodPost, "/api/user/register", map[string]string{
		"firstname": "Long",
		"lastname":  "Password",
		"email":     "long@example.com",
		"password":  strings.Repeat("x", 80),
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestEmployeeValidation(t *testing.T) {
	e := newTestServer(t)
	token := register(t, e, "owner@example.com")

	rec := call(e, http.MethodPost, "/api/employee", employeePayload("first@example.com"), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name     string
		mutate   func(map[string]interface{})
		wantCode string
	}{
		{"missing first name", func(p map[string]interface{}) { delete(p, "firstName") }, "VALIDATION_ERROR"},
		{"bad email", func(p map[string]interface{}) { p["email"] = "not-an-email" }, "VALIDATION_ERROR"},
		{"bad start date", func(p map[string]interface{}) { p["startDate"] = "15/01/2024" }, "VALIDATION_ERROR"},
		{"unknown department", func(p map[string]interface{}) { p["department"] = "Legal" }, "INVALID_INPUT"},
		{"unknown status", func(p map[string]interface{}) { p["status"] = "Retired" }, "INVALID_INPUT"},
		{"negative salary", func(p map[string]interface{}) { p["salary"] = -1 }, "INVALID_INPUT"},
		{"duplicate email", func(p map[string]interface{}) { p["email"] = "FIRST@example.com" }, "EMPLOYEE_CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := employeePayload("second@example.com")
			tt.mutate(payload)
			rec := call(e, http.MethodPost, "/api/employee", payload, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}

	rec = call(e, http.MethodPost, "/api/employee", "not an object", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	e := newTestServer(t)
	alice := register(t, e, "alice@example.com")
	bob := register(t, e, "bob@example.com")

	rec := call(e, http.MethodPost, "/api/employee", employeePayload("ada@example.com"), alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]interface{}
	decode(t, rec, &created)
	id := created["_id"].(string)

	rec = call(e, http.MethodGet, "/api/employee", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec = call(e, method, "/api/employee/"+id, map[string]string{"position": "Hacked"}, bob)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}

	rec = call(e, http.MethodGet, "/api/employee/"+id, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var stillThere map[string]interface{}
	decode(t, rec, &stillThere)
	assert.Equal(t, "Engineer", stillThere["position"])

	rec = call(e, http.MethodGet, "/api/employee/not-a-uuid", nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	e := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPost, "/api/user/logout"},
		{http.MethodGet, "/api/employee"},
		{http.MethodPost, "/api/employee"},
		{http.MethodDelete, "/api/employee/00000000-0000-0000-0000-000000000001"},
	} {
		rec := call(e, route.method, route.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
		assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
	}

	rec := call(e, http.MethodGet, "/api/employee", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	e := newTestServer(t)
	token := register(t, e, "carol@example.com")

	rec := call(e, http.MethodPost, "/api/user/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestHealthzAndCORS(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/api/employee", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestErrorHandler(t *testing.T) {
	internal := echo.NewHTTPError(http.StatusInternalServerError,
		apperrors.MapErrorToHTTP(errors.New("boom")).ToErrorResponse()).SetInternal(errors.New("boom"))

	tests := []struct {
		name         string
		err          error
		exposeDetail bool
		wantStatus   int
		wantCode     string
		wantDetail   string
	}{
		{"internal with detail", internal, true, http.StatusInternalServerError, "INTERNAL_ERROR", "boom"},
		{"internal without detail", internal, false, http.StatusInternalServerError, "INTERNAL_ERROR", ""},
		{"plain error", errors.New("unexpected"), false, http.StatusInternalServerError, "INTERNAL_ERROR", ""},
		{"domain error", apperrors.ErrEmployeeNotFound, true, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", ""},
		{"echo error", echo.ErrMethodNotAllowed, true, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			NewErrorHandler(zap.NewNop(), tt.exposeDetail)(tt.err, e.NewContext(req, rec))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp apperrors.ErrorResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantDetail, resp.Detail)
		})
	}
}
