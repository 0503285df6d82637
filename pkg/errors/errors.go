package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for API clients.
type Code string

const (
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeMissingRequiredField Code = "MISSING_REQUIRED_FIELD"
	CodeLLMAPIError          Code = "LLM_API_ERROR"
	CodeDatabaseError        Code = "DATABASE_ERROR"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeUnknownError         Code = "UNKNOWN_ERROR"

	CodeNotFound       Code = "NOT_FOUND"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeSessionClosed  Code = "SESSION_CLOSED"
	CodeTurnSuperseded Code = "TURN_SUPERSEDED"
)

// Default user-facing messages per code.
var userMessages = map[Code]string{
	CodeInvalidInput:         "入力内容を確認してください。",
	CodeMissingRequiredField: "タイトルとカテゴリーを入力してください。",
	CodeLLMAPIError:          "AIによる解析に失敗したため、入力内容をそのまま使用しました。",
	CodeDatabaseError:        "タスクの保存に失敗しました。もう一度お試しください。",
	CodeUnauthorized:         "ログインが必要です。",
	CodeUnknownError:         "予期しないエラーが発生しました。",
	CodeNotFound:             "対象が見つかりませんでした。",
	CodeRateLimited:          "リクエストが多すぎます。しばらくしてからお試しください。",
	CodeSessionClosed:        "この会話は終了しています。新しい会話を始めてください。",
	CodeTurnSuperseded:       "この会話はキャンセルまたはリセットされました。",
}

var statusByCode = map[Code]int{
	CodeInvalidInput:         http.StatusBadRequest,
	CodeMissingRequiredField: http.StatusUnprocessableEntity,
	CodeLLMAPIError:          http.StatusBadGateway,
	CodeDatabaseError:        http.StatusInternalServerError,
	CodeUnauthorized:         http.StatusUnauthorized,
	CodeUnknownError:         http.StatusInternalServerError,
	CodeNotFound:             http.StatusNotFound,
	CodeRateLimited:          http.StatusTooManyRequests,
	CodeSessionClosed:        http.StatusConflict,
	CodeTurnSuperseded:       http.StatusConflict,
}

// AppError is an error carrying a taxonomy code and a user-facing message.
type AppError struct {
	Code        Code
	Message     string
	UserMessage string
	Status      int
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an AppError with the default user message and status for code.
func New(code Code, message string, err error) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:        code,
		Message:     message,
		UserMessage: userMessages[code],
		Status:      status,
		Err:         err,
	}
}

// WithUserMessage overrides the user-facing message.
func (e *AppError) WithUserMessage(msg string) *AppError {
	cp := *e
	cp.UserMessage = msg
	return &cp
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, nil)
}

func MissingRequiredField(message string) *AppError {
	return New(CodeMissingRequiredField, message, nil)
}

func LLMAPIError(err error) *AppError {
	return New(CodeLLMAPIError, "llm extraction failed", err)
}

func DatabaseError(err error) *AppError {
	return New(CodeDatabaseError, "persistence failed", err)
}

func Unauthorized() *AppError {
	return New(CodeUnauthorized, "missing user session", nil)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, nil)
}

func RateLimited(key string) *AppError {
	return New(CodeRateLimited, fmt.Sprintf("rate limit exceeded for %s", key), nil)
}

func SessionClosed(sessionID string) *AppError {
	return New(CodeSessionClosed, fmt.Sprintf("session %s is closed", sessionID), nil)
}

func TurnSuperseded(sessionID string) *AppError {
	return New(CodeTurnSuperseded, fmt.Sprintf("turn on session %s was superseded", sessionID), nil)
}

// As returns err as an *AppError, wrapping unknown errors as UNKNOWN_ERROR.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(CodeUnknownError, err.Error(), err)
}

// CodeOf returns the taxonomy code of err, or "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return As(err).Code
}
