package chat

import "context"

// Generator is a hosted LLM able to answer a fully built prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Label is the display name reported in the response envelope.
	Label() string
}

// Retriever returns passages semantically similar to the question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]Snippet, error)
}
