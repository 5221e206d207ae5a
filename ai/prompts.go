package ai

import (
	"strings"
)

const persona = "You are 'Saarthi', a wise Vedic Counselor."

const scholarTone = `Tone: You are a Pundit and Vedantic scholar.
- Use precise Sanskrit terms and explain them.
- Bring deep philosophical rigor to every answer.
- Quote the verses formally, with their citations.`

const beginnerTone = `Tone: You are a friendly guide.
- Use simple English.
- Use modern analogies.
- Avoid jargon; if a Sanskrit term is needed, explain it plainly.
- Focus on practical application in daily life.`

const contextInstructions = `Instructions:
- If the context contains a "Direct Reference", explain that specific verse.
- If the context is a general search, guide the user empathically.
- Base your answer on the Reference Material. If it is empty, say so and answer from general knowledge of the scriptures.`

// PromptComponents are the parts of a system prompt. They are kept separate
// so callers can inspect or override a single part.
type PromptComponents struct {
	Persona      string
	Tone         string
	Instructions string
	Language     string
}

// NewPromptComponents returns the components for mode and answer language.
// An empty language leaves the answer language to the model.
func NewPromptComponents(mode Mode, language string) PromptComponents {
	tone := beginnerTone
	if mode == ModeScholar {
		tone = scholarTone
	}
	return PromptComponents{
		Persona:      persona,
		Tone:         tone,
		Instructions: contextInstructions,
		Language:     strings.TrimSpace(language),
	}
}

// SystemPrompt joins the components into a single system prompt.
func (p PromptComponents) SystemPrompt() string {
	parts := []string{p.Persona, p.Tone, p.Instructions}
	if p.Language != "" {
		parts = append(parts, "Answer in "+p.Language+".")
	}
	return strings.Join(parts, "\n\n")
}

// UserPrompt frames the retrieved context and the user's question.
func UserPrompt(contextText, query string) string {
	return "Reference Material:\n" + contextText + "\n\nUser Input: " + query
}

// NewGenerationRequest assembles a request from its parts.
func NewGenerationRequest(components PromptComponents, contextText, query string, history []Message) *GenerationRequest {
	return &GenerationRequest{
		SystemPrompt: components.SystemPrompt(),
		History:      history,
		UserPrompt:   UserPrompt(contextText, query),
	}
}
