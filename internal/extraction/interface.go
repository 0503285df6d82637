package extraction

import "context"

// UseCase turns free text into slot values.
type UseCase interface {
	// ParseTask extracts task fields from one user utterance, merging with
	// the caller's accumulated state on continuation turns. Model failures
	// never surface as errors: they yield a fallback result plus a warning.
	ParseTask(ctx context.Context, input ParseInput) (ParseOutput, error)
}
