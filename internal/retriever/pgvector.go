package retriever

import (
	"context"
	"fmt"

	"github.com/medassist/medichat/internal/chat"
	"github.com/medassist/medichat/internal/kb"
)

// PgVector retrieves grounding passages from the local pgvector-backed
// knowledge base instead of a managed index.
type PgVector struct {
	repo     kb.Repository
	embedder Embedder
	topK     int
}

func NewPgVector(repo kb.Repository, embedder Embedder, topK int) (*PgVector, error) {
	if repo == nil {
		return nil, fmt.Errorf("pgvector retriever needs a repository")
	}
	if embedder == nil {
		return nil, fmt.Errorf("pgvector retriever needs an embedder")
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	return &PgVector{repo: repo, embedder: embedder, topK: topK}, nil
}

func (p *PgVector) Retrieve(ctx context.Context, question string) ([]chat.Snippet, error) {
	vec, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	chunks, err := p.repo.SearchSimilar(ctx, vec, p.topK)
	if err != nil {
		return nil, fmt.Errorf("knowledge base search: %w", err)
	}

	snippets := make([]chat.Snippet, 0, len(chunks))
	for _, c := range chunks {
		snippets = append(snippets, chat.Snippet{
			Title:   c.Title,
			Content: c.Content,
			Source:  c.SourceURL,
		})
	}
	return snippets, nil
}

var _ chat.Retriever = (*PgVector)(nil)
