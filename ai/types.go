package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for unrecognized modes.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects the tone of generated answers. It is passed through
// retrieval untouched.
type Mode string

const (
	// ModeScholar answers with precise Sanskrit terminology and formal quotation.
	ModeScholar Mode = "scholar"
	// ModeBeginner answers in simple English with modern analogies.
	ModeBeginner Mode = "beginner"
)

// ParseMode accepts "scholar" or "beginner" in any case. An empty string
// yields ModeBeginner.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeBeginner):
		return ModeBeginner, nil
	case string(ModeScholar):
		return ModeScholar, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prior turn of conversation passed to the generator.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationRequest is everything a Generator needs for one answer.
type GenerationRequest struct {
	SystemPrompt string
	History      []Message
	UserPrompt   string
}
