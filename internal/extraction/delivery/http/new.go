package http

import (
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/pkg/log"
)

type handler struct {
	l  log.Logger
	uc extraction.UseCase
}

// New creates a new HTTP handler for the extraction domain.
func New(l log.Logger, uc extraction.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
