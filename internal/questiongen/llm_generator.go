package questiongen

import (
	"context"
	"fmt"

	"github.com/abhisek/studybuddy/internal/kb"
	"github.com/abhisek/studybuddy/internal/llm"
)

// Retriever fetches study passages. *kb.Client implements it.
type Retriever interface {
	Retrieve(ctx context.Context, query string, numResults int) ([]kb.Passage, error)
}

// LLMGenerator asks an LLM provider for questions as JSON, grounding it
// on passages from the knowledge base when a Retriever is set.
type LLMGenerator struct {
	provider  llm.Provider
	retriever Retriever
	config    Config
}

// NewLLMGenerator creates a generator. retriever may be nil.
func NewLLMGenerator(provider llm.Provider, retriever Retriever, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, retriever: retriever, config: cfg}
}

func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var passages []kb.Passage
	if g.retriever != nil && g.config.RetrievalResults > 0 {
		var err error
		passages, err = g.retriever.Retrieve(ctx, retrievalQuery(req), g.config.RetrievalResults)
		if err != nil {
			return "", fmt.Errorf("retrieve study material: %w", err)
		}
	}

	ctx = llm.WithPurpose(ctx, "quiz-gen")
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: llmSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLLMUserMessage(req, passages, g.config.MaxPassageChars)},
		},
		Schema:      QuestionListSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM generation: %w", err)
	}
	return string(resp.Content), nil
}
