package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ctfboard/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiryMinutes = 60

	r := gin.New()
	RegisterAuthRoutes(r.Group("/api"), setupTestDB(t), cfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"hunter22"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.Username)
	assert.True(t, resp.IsAdmin, "first account bootstraps the admin")

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"bob","password":"hunter22"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsAdmin)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	r := newTestRouter(t)

	// Short password fails binding.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Whitespace-only username is rejected after trimming.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"   ","password":"hunter22"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"hunter22"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"hunter22"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"hunter22"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"hunter22"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// Wrong password and unknown username are indistinguishable.
	wrongPw := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"nope1234"}`, "")
	unknown := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"mallory","password":"nope1234"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestProfileEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"hunter22"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", resp.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
