package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskInfoJSON_TriState(t *testing.T) {
	var info TaskInfo
	require.NoError(t, json.Unmarshal([]byte(`{"title":"買い物","category":null,"durationMinutes":30}`), &info))

	title, ok := info.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "買い物", title)
	assert.True(t, info.Category.IsNone())
	assert.True(t, info.Category.IsSettled())
	assert.False(t, info.Deadline.IsSettled(), "absent key stays unset")
	assert.Equal(t, 30, info.DurationMinutes.OrZero())

	out, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"買い物","category":null,"durationMinutes":30}`, string(out))
}

func TestTaskInfoMerge(t *testing.T) {
	base := TaskInfo{Title: Some("請求書を送る"), Category: Some(CategoryWork)}
	patch := TaskInfo{Category: Some(CategoryReply), Deadline: None[string]()}

	got := base.Merge(patch)
	assert.Equal(t, "請求書を送る", got.Title.OrZero())
	assert.Equal(t, CategoryReply, got.Category.OrZero())
	assert.True(t, got.Deadline.IsNone())
	assert.False(t, got.ScheduledDate.IsSettled())
}

func TestParseField(t *testing.T) {
	f, ok := ParseField("scheduledAt")
	assert.True(t, ok)
	assert.Equal(t, FieldScheduledTime, f)

	_, ok = ParseField("priority")
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Work ")
	assert.True(t, ok)
	assert.Equal(t, CategoryWork, c)

	_, ok = ParseCategory("errand")
	assert.False(t, ok)
}
