package saarthi

import "errors"

var (
	// ErrGenerationDisabled is returned by Ask when no generator is configured.
	ErrGenerationDisabled = errors.New("answer generation disabled: no chat model configured")

	// ErrEmptyQuery is returned by Ask for a blank query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrVerseNotFound reports a citation that is not in the loaded corpus.
	ErrVerseNotFound = errors.New("verse not found")
)
