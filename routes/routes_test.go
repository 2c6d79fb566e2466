package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lodge-desk/controllers"
	"lodge-desk/models"
	"lodge-desk/services"
)

func setup(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	snap := models.NewSnapshot()
	snap.EnsureRooms([]string{"101", "215"})
	ledger := services.NewLedgerService(snap, nil, zap.NewNop())
	log := zap.NewNop()
	return SetupRouter(
		controllers.NewRoomController(ledger, log),
		controllers.NewBookingController(ledger, log),
		controllers.NewReportController(ledger, log),
		opts,
	)
}

func TestHealthAndRooms(t *testing.T) {
	r := setup(t, Options{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"floors":{"1":["101"],"2":["215"]}`)
}

func TestCORSPreflight(t *testing.T) {
	r := setup(t, Options{CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/checkin", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestUploadsServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("jpeg"), 0o644))
	r := setup(t, Options{UploadDir: dir})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/a.jpg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", strings.TrimSpace(w.Body.String()))
}

func TestPanicAnswersWithJSON(t *testing.T) {
	r := setup(t, Options{})
	r.GET("/api/explode", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
}

func TestCORSOriginsDefault(t *testing.T) {
	assert.Equal(t, []string{"*"}, corsOrigins(nil))
	assert.Equal(t, []string{"x"}, corsOrigins([]string{"x"}))
}
