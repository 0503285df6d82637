package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/middleware"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/pkg/log"
)

type fakeUseCase struct {
	got extraction.ParseInput
	out extraction.ParseOutput
	err error
}

func (f *fakeUseCase) ParseTask(ctx context.Context, in extraction.ParseInput) (extraction.ParseOutput, error) {
	f.got = in
	return f.out, f.err
}

func setup(uc extraction.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := middleware.New(log.NewNop(), config.ConversationConfig{RateLimitPerMin: 600})
	RegisterRoutes(r.Group("/api/v1/tasks"), New(log.NewNop(), uc), mw)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/parse", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, "u-1")
	r.ServeHTTP(w, req)
	return w
}

func TestParse_OK(t *testing.T) {
	q := "どのカテゴリーですか？"
	uc := &fakeUseCase{out: extraction.ParseOutput{
		Result: extraction.ParseResult{
			TaskInfo:             model.TaskInfo{Title: model.Some("タスク"), Category: model.None[model.Category]()},
			MissingFields:        []model.Field{model.FieldCategory},
			NextQuestion:         &q,
			ClarificationOptions: []string{"買い物", "返信", "仕事", "個人", "その他"},
			RawInput:             "タスク",
			ConversationContext:  "タスク",
		},
		Source:  extraction.SourceFallback,
		Warning: &extraction.Warning{Code: "LLM_API_ERROR", Message: "boom"},
	}}
	r := setup(uc)

	w := post(r, `{"input":"タスク","llmConfig":{"provider":"openai","apiKey":"k"},"currentTaskInfo":{"title":"前","deadline":null},"currentField":"category"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "k", uc.got.LLM.APIKey)
	assert.Equal(t, "category", uc.got.CurrentField)
	assert.Equal(t, "前", uc.got.CurrentTaskInfo.Title.OrZero())
	assert.True(t, uc.got.CurrentTaskInfo.Deadline.IsNone())
	assert.False(t, uc.got.CurrentTaskInfo.Category.IsSettled())

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			TaskInfo      map[string]any `json:"taskInfo"`
			MissingFields []string       `json:"missingFields"`
			Source        string         `json:"source"`
			Warning       map[string]any `json:"warning"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"category"}, body.Data.MissingFields)
	assert.Equal(t, "fallback", body.Data.Source)
	assert.Equal(t, "LLM_API_ERROR", body.Data.Warning["code"])

	cat, present := body.Data.TaskInfo["category"]
	assert.True(t, present)
	assert.Nil(t, cat, "none serializes as null")
	_, present = body.Data.TaskInfo["deadline"]
	assert.False(t, present, "unset is omitted")
}

func TestParse_BlankInput(t *testing.T) {
	r := setup(&fakeUseCase{})
	w := post(r, `{"input":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestParse_BadJSON(t *testing.T) {
	r := setup(&fakeUseCase{})
	w := post(r, `{"input":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
