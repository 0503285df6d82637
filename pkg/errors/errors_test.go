package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs_WrapsUnknownErrors(t *testing.T) {
	appErr := As(errors.New("boom"))

	assert.Equal(t, CodeUnknownError, appErr.Code)
	assert.Equal(t, "boom", appErr.Message)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	inner := DatabaseError(errors.New("disk full"))
	wrapped := fmt.Errorf("confirm: %w", inner)

	appErr := As(wrapped)
	assert.Same(t, inner, appErr)
	assert.Equal(t, CodeDatabaseError, CodeOf(wrapped))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", MissingRequiredField("category is missing"))

	assert.ErrorIs(t, err, New(CodeMissingRequiredField, "", nil))
	assert.NotErrorIs(t, err, New(CodeInvalidInput, "", nil))
}

func TestNew_DefaultsUserMessageAndStatus(t *testing.T) {
	e := RateLimited("user-1")

	assert.Equal(t, http.StatusTooManyRequests, e.Status)
	assert.NotEmpty(t, e.UserMessage)
	assert.Contains(t, e.Error(), "user-1")
}

func TestWithUserMessage_DoesNotMutateOriginal(t *testing.T) {
	e := InvalidInput("input is empty")
	custom := e.WithUserMessage("メッセージを入力してください。")

	assert.NotEqual(t, e.UserMessage, custom.UserMessage)
	assert.Equal(t, e.Code, custom.Code)
}

func TestCodeOf_Nil(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
}
