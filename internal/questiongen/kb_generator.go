package questiongen

import (
	"context"
	"fmt"
)

// RetrieveAndGenerator is the knowledge-base call used by KBGenerator.
// *kb.Client implements it.
type RetrieveAndGenerator interface {
	RetrieveAndGenerate(ctx context.Context, query, prompt string, numResults int) (string, error)
}

// KBGenerator has the knowledge base retrieve passages and generate the
// questions in one call. The response is lettered text.
type KBGenerator struct {
	kb     RetrieveAndGenerator
	config Config
}

func NewKBGenerator(kb RetrieveAndGenerator, cfg Config) *KBGenerator {
	return &KBGenerator{kb: kb, config: cfg}
}

func (g *KBGenerator) Generate(ctx context.Context, req Request) (string, error) {
	raw, err := g.kb.RetrieveAndGenerate(ctx, retrievalQuery(req), buildKBPrompt(req), g.config.RetrievalResults)
	if err != nil {
		return "", fmt.Errorf("knowledge base generation: %w", err)
	}
	return raw, nil
}
