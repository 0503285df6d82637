package conversation

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
	ErrTurnSuperseded  = errors.New("turn superseded by cancel or reset")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNotRegistrable  = errors.New("task is missing required fields")
	ErrPersistence     = errors.New("task registration failed")
)
