package openai

import (
	"testing"

	"github.com/poiesic/saarthi/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestMessageContent(t *testing.T) {
	req := &ai.GenerationRequest{
		SystemPrompt: "system",
		History: []ai.Message{
			{Role: ai.RoleUser, Content: "first question"},
			{Role: ai.RoleAssistant, Content: "first answer"},
		},
		UserPrompt: "second question",
	}

	content := messageContent(req)
	require.Len(t, content, 4)

	roles := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	texts := []string{"system", "first question", "first answer", "second question"}
	for i, msg := range content {
		assert.Equal(t, roles[i], msg.Role)
		require.Len(t, msg.Parts, 1)
		assert.Equal(t, llms.TextPart(texts[i]), msg.Parts[0])
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("retrieval only without chat token", func(t *testing.T) {
		provider, err := NewProvider(ai.DefaultConfig())
		require.NoError(t, err)
		defer provider.Close()

		assert.NotNil(t, provider.Embedder())
		assert.Equal(t, "all-minilm", provider.Embedder().Model())
		assert.Nil(t, provider.Generator())
	})

	t.Run("with chat token", func(t *testing.T) {
		provider, err := NewProvider(ai.NewConfig(ai.WithChatToken("test-key")))
		require.NoError(t, err)
		defer provider.Close()

		assert.NotNil(t, provider.Generator())
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(&ai.Config{})
		assert.Error(t, err)
	})

	t.Run("generator requires token", func(t *testing.T) {
		_, err := NewGenerator(ai.DefaultConfig())
		assert.Error(t, err)
	})
}
