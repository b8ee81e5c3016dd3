package scoreboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ctfboard/config"
	"ctfboard/pkg/cache"
	"ctfboard/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.ExpiryMinutes = 60

	r := gin.New()
	ScoreboardRoutes(r.Group("/api"), db, cfg, cache.NewScoreboardCache("", "", 0, 0))
	return r
}

func getScoreboard(t *testing.T, r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScoreboardEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	player := seedUser(t, db, "alice", false)
	seedUser(t, db, "bob", false)
	seedSolve(t, db, player.ID, 1, 100, 1000)

	jwt, err := token.GenerateJWT(player.ID, false, testJWTSecret, 60)
	require.NoError(t, err)

	w := getScoreboard(t, r, "/api/scoreboard", jwt)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"standings"`)
	assert.Contains(t, body, `"username":"alice"`)
	assert.Contains(t, body, `"username":"bob"`)

	w = getScoreboard(t, r, "/api/scoreboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompetitionScoreboardEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	player := seedUser(t, db, "alice", false)
	jwt, err := token.GenerateJWT(player.ID, false, testJWTSecret, 60)
	require.NoError(t, err)

	w := getScoreboard(t, r, "/api/competitions/1/scoreboard", jwt)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"standings"`)

	w = getScoreboard(t, r, "/api/competitions/zero/scoreboard", jwt)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
