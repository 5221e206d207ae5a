package saarthi

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/saarthi/ai"
	"github.com/poiesic/saarthi/retrieval"
)

// directReferenceLabel marks exact matches in the reference material, so
// the model explains that verse instead of treating it as search results.
const directReferenceLabel = "Direct Reference:\n"

// AskRequest is one turn of a conversation.
type AskRequest struct {
	Query    string
	N        int
	Mode     ai.Mode
	Language string
	History  []ai.Message
}

// Answer is the model's reply together with the verses it was given.
type Answer struct {
	Text      string            `json:"text"`
	Citations []string          `json:"citations"`
	Exact     bool              `json:"exact"`
	Retrieval *retrieval.Result `json:"-"`
}

// Ask retrieves context for the query and asks the generator to answer.
// Retrieval failures degrade to an answer without reference material. A
// generation failure is returned together with the retrieved citations.
func (e *Engine) Ask(ctx context.Context, req AskRequest) (*Answer, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	generator := e.provider.Generator()
	if generator == nil {
		return nil, ErrGenerationDisabled
	}
	mode := req.Mode
	if mode == "" {
		mode = ai.ModeBeginner
	}

	result := e.retriever.Retrieve(ctx, retrieval.Query{
		Text:     req.Query,
		N:        req.N,
		Mode:     mode,
		Language: req.Language,
	})
	answer := &Answer{
		Citations: result.Citations,
		Exact:     result.Exact,
		Retrieval: result,
	}

	contextText := result.ContextText
	if result.Exact {
		contextText = directReferenceLabel + contextText
	}
	components := ai.NewPromptComponents(mode, req.Language)
	genReq := ai.NewGenerationRequest(components, contextText, req.Query, req.History)

	text, err := generator.Generate(ctx, genReq)
	if err != nil {
		e.logger.Error("answer generation failed", "err", err)
		return answer, fmt.Errorf("generate answer: %w", err)
	}
	answer.Text = text
	return answer, nil
}

// FormatReferences renders citations as a markdown footer to append to an
// answer. It returns "" when there are none.
func FormatReferences(citations []string) string {
	if len(citations) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n---\n**Shastra Pramana (References):**\n")
	for i, c := range citations {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(c)
	}
	return b.String()
}
