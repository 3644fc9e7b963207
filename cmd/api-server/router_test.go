package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"clawledge/internal/auth"
	"clawledge/internal/config"
	"clawledge/internal/dataset"
	"clawledge/internal/submissions"
	"clawledge/pkg/database"
)

func testServer(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Data.Cases = filepath.Join(dir, "use-cases.json")
	cfg.Database.Path = filepath.Join(dir, "clawledge.db")
	cfg.Sheet.Backend = "sqlite"
	cfg.Server.RateLimit = 2
	cfg.Auth.JWTSecret = "test-secret"
	hash, err := auth.HashPassword("open sesame")
	require.NoError(t, err)
	cfg.Auth.AdminPasswordHash = hash
	require.NoError(t, os.WriteFile(cfg.Data.Cases, []byte("[]\n"), 0o644))

	log := zaptest.NewLogger(t)
	db := database.MustOpen(database.Config{Path: cfg.Database.Path}, log)
	t.Cleanup(func() { _ = db.Close() })

	store, err := openStore(cfg, db)
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	r, err := newRouter(cfg, deps{db: db, store: store, log: log, now: now})
	require.NoError(t, err)
	return r, cfg
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthAndReady(t *testing.T) {
	r, _ := testServer(t)

	w := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = do(t, r, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSubmitReviewApprove(t *testing.T) {
	r, cfg := testServer(t)

	form := submissions.Form{
		Title:            "Weekly invoice chaser",
		Description:      "Looks for unpaid invoices every Monday and drafts polite reminders for each client.",
		SubmitterName:    "Dana",
		SubmitterContact: "dana@example.com",
		SourceURL:        "https://example.com/invoices",
		Category:         "freelancer",
		Difficulty:       "intermediate",
		AllowAttribution: "true",
	}
	w := do(t, r, http.MethodPost, "/submissions", "", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	// admin routes need a token
	w = do(t, r, http.MethodGet, "/admin/submissions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/admin/login", "", map[string]string{"username": "admin", "password": "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/admin/login", "", map[string]string{"username": "admin", "password": "open sesame"})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	w = do(t, r, http.MethodGet, "/admin/submissions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = do(t, r, http.MethodPost, "/admin/submissions/1/approve?dry_run=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["written"])

	w = do(t, r, http.MethodPost, "/admin/submissions/1/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ds, err := dataset.Load(cfg.Data.Cases)
	require.NoError(t, err)
	c, ok := ds.Get("weekly-invoice-chaser")
	require.True(t, ok)
	assert.Equal(t, "freelancer", string(c.Category))
	assert.Equal(t, "dana@example.com", c.Source.AuthorHandle)

	w = do(t, r, http.MethodPost, "/admin/submissions/1/approve", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/admin/submissions/5/reject", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/admin/submissions/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["approved"])
}

func TestSubmissionRateLimit(t *testing.T) {
	r, _ := testServer(t)
	bad := submissions.Form{Title: "short"}

	for i := 0; i < 2; i++ {
		w := do(t, r, http.MethodPost, "/submissions", "", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	w := do(t, r, http.MethodPost, "/submissions", "", bad)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCasesListEmpty(t *testing.T) {
	r, _ := testServer(t)

	w := do(t, r, http.MethodGet, "/cases", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/cases/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
