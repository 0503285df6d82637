package slot

import "errors"

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
)
