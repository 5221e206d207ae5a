package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
		err   bool
	}{
		{"", ModeBeginner, false},
		{"Beginner", ModeBeginner, false},
		{" SCHOLAR ", ModeScholar, false},
		{"guru", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestPromptComponents(t *testing.T) {
	t.Run("scholar", func(t *testing.T) {
		prompt := NewPromptComponents(ModeScholar, "").SystemPrompt()
		assert.True(t, strings.HasPrefix(prompt, "You are 'Saarthi', a wise Vedic Counselor."))
		assert.Contains(t, prompt, "Pundit")
		assert.Contains(t, prompt, `"Direct Reference"`)
		assert.NotContains(t, prompt, "Answer in")
	})

	t.Run("beginner with language", func(t *testing.T) {
		prompt := NewPromptComponents(ModeBeginner, " Hindi ").SystemPrompt()
		assert.Contains(t, prompt, "friendly guide")
		assert.NotContains(t, prompt, "Pundit")
		assert.True(t, strings.HasSuffix(prompt, "Answer in Hindi."))
	})
}

func TestNewGenerationRequest(t *testing.T) {
	history := []Message{{Role: RoleUser, Content: "hello"}, {Role: RoleAssistant, Content: "namaste"}}
	req := NewGenerationRequest(NewPromptComponents(ModeBeginner, ""), "[Bhagavad Gita 2.47] Act.", "what is karma", history)

	assert.Equal(t, "Reference Material:\n[Bhagavad Gita 2.47] Act.\n\nUser Input: what is karma", req.UserPrompt)
	assert.Equal(t, history, req.History)
	assert.NotEmpty(t, req.SystemPrompt)
}
