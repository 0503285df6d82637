package extraction

import "errors"

// Domain-specific errors for the extraction package.
var (
	ErrEmptyInput        = errors.New("input text is empty")
	ErrMalformedResponse = errors.New("model response is not a JSON object")
	ErrTemplateNotFound  = errors.New("prompt template not found")
)
