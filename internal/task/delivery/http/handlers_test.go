package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/middleware"
	"task-intake-assistant/internal/task/repository/sqlite"
	"task-intake-assistant/internal/task/usecase"
	"task-intake-assistant/pkg/log"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := sqlite.OpenDB(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	uc := usecase.New(log.NewNop(), sqlite.New(log.NewNop(), db))
	RegisterRoutes(r.Group("/api/v1/tasks"), New(log.NewNop(), uc), middleware.New(log.NewNop(), config.ConversationConfig{}))
	return r
}

func call(r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Task struct {
			ID          string `json:"id"`
			Status      string `json:"status"`
			ScheduledAt string `json:"scheduledAt"`
		} `json:"task"`
		Tasks []map[string]any `json:"tasks"`
		Count int              `json:"count"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestTaskRoutes(t *testing.T) {
	r := setup(t)

	w := call(r, http.MethodPost, "/api/v1/tasks", "alice", `{"title":"牛乳を買う","category":"shopping"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created.Data.Task.ID
	assert.NotEmpty(t, id)
	assert.Equal(t, "inbox", created.Data.Task.Status)

	w = call(r, http.MethodGet, "/api/v1/tasks?status=inbox", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Data.Count)

	w = call(r, http.MethodGet, "/api/v1/tasks", "bob", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode(t, w).Data.Count)

	w = call(r, http.MethodPatch, "/api/v1/tasks/"+id+"/schedule", "alice", `{"scheduledAt":"2026-10-20T10:00:00+09:00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "scheduled", decode(t, w).Data.Task.Status)

	w = call(r, http.MethodPatch, "/api/v1/tasks/"+id+"/status", "alice", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode(t, w).Data.Task.Status)

	w = call(r, http.MethodPatch, "/api/v1/tasks/"+id+"/status", "bob", `{"status":"archived"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskRoutes_Errors(t *testing.T) {
	r := setup(t)

	w := call(r, http.MethodGet, "/api/v1/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/v1/tasks", "alice", `{"title":"","category":"work"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", decode(t, w).Error.Code)

	w = call(r, http.MethodGet, "/api/v1/tasks?status=doing", "alice", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPatch, "/api/v1/tasks/x/status", "alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
