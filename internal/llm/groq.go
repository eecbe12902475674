package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/medassist/medichat/internal/chat"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// Groq exposes an OpenAI-compatible API under its own base URL.
	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel = "llama-3.1-8b-instant"

	groqLabel = "Groq (Fast & Accurate)"
)

// GroqClient is the primary answer provider.
type GroqClient struct {
	model llms.Model
}

func NewGroqClient(apiKey, model string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GROQ_API_KEY")
	}
	if model == "" {
		model = defaultGroqModel
	}

	m, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithBaseURL(groqBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &GroqClient{model: m}, nil
}

func (g *GroqClient) Label() string { return groqLabel }

func (g *GroqClient) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(350),
	)
	if err != nil {
		return "", fmt.Errorf("groq completion error: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("model returned empty text")
	}
	return out, nil
}

var _ chat.Generator = (*GroqClient)(nil)
