// Package retriever provides the vector-search backends a chat service can
// ground its prompts with. Both backends embed the question with the same
// model the knowledge base was indexed with.
package retriever

import "context"

// Embedder turns text into the vector used for similarity search.
// Satisfied by llm.GeminiClient.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
