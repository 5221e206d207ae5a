// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ai provides abstractions for the AI services Saarthi depends on.
//
// Two services are involved:
//
//   - Embedder: turns verse and query text into vectors for the index
//   - Generator: writes an answer around retrieved verses
//
// AIProvider bundles both and owns their lifecycle. A provider built
// without chat credentials returns a nil Generator; retrieval still works.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs (Ollama, Groq, OpenAI) via langchaingo
//   - ai/mock: deterministic test doubles
//
// Production constructors return interfaces. Mock constructors return
// concrete types so tests can inject behavior and assert on calls:
//
//	embedder := mock.NewMockEmbedder().WithModel("all-minilm")
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("backend down")
//	}
//	provider := mock.NewMockProviderWithServices(embedder, nil)
//
// # Prompts
//
// NewPromptComponents and NewGenerationRequest assemble the system prompt
// for a Mode (scholar or beginner) and an optional answer language, and
// wrap the retrieved context and question into the user prompt.
//
//	config := ai.NewConfig(ai.WithChatToken(os.Getenv("GROQ_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req := ai.NewGenerationRequest(ai.NewPromptComponents(ai.ModeBeginner, ""), contextText, question, nil)
//	answer, err := provider.Generator().Generate(ctx, req)
package ai
