package http

import (
	"errors"

	"task-intake-assistant/internal/extraction"
	pkgErrors "task-intake-assistant/pkg/errors"
)

// mapError translates use-case errors into AppErrors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, extraction.ErrEmptyInput):
		return pkgErrors.InvalidInput("input is required")
	default:
		return pkgErrors.As(err)
	}
}
