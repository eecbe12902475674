package retriever

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/medassist/medichat/internal/chat"
)

const (
	pineconeControlPlane = "https://api.pinecone.io"
	pineconeAPIVersion   = "2025-01"

	defaultTopK = 3
)

// PineconeConfig configures the managed-index client. Host is optional:
// when empty it is resolved from the index name via the control plane.
type PineconeConfig struct {
	APIKey  string
	Index   string
	Host    string
	TopK    int
	Timeout time.Duration
}

// Pinecone queries a managed Pinecone index over its REST data plane.
type Pinecone struct {
	http     *resty.Client
	embedder Embedder
	topK     int
}

func NewPinecone(ctx context.Context, cfg PineconeConfig, embedder Embedder) (*Pinecone, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing PINECONE_API_KEY")
	}
	if embedder == nil {
		return nil, fmt.Errorf("pinecone retriever needs an embedder")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	host := cfg.Host
	if host == "" {
		if cfg.Index == "" {
			return nil, fmt.Errorf("missing PINECONE_INDEX")
		}
		resolved, err := resolveIndexHost(ctx, cfg.APIKey, cfg.Index, timeout)
		if err != nil {
			return nil, fmt.Errorf("resolve index host: %w", err)
		}
		host = resolved
	}
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}

	client := resty.New().
		SetBaseURL(host).
		SetHeader("Api-Key", cfg.APIKey).
		SetHeader("X-Pinecone-API-Version", pineconeAPIVersion).
		SetTimeout(timeout)

	return &Pinecone{http: client, embedder: embedder, topK: topK}, nil
}

// resolveIndexHost asks the control plane for the data-plane host of the
// named index.
func resolveIndexHost(ctx context.Context, apiKey, index string, timeout time.Duration) (string, error) {
	var out struct {
		Host string `json:"host"`
	}

	resp, err := resty.New().
		SetBaseURL(pineconeControlPlane).
		SetHeader("Api-Key", apiKey).
		SetHeader("X-Pinecone-API-Version", pineconeAPIVersion).
		SetTimeout(timeout).
		R().
		SetContext(ctx).
		SetResult(&out).
		Get("/indexes/" + index)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("describe index %q: %s", index, resp.Status())
	}
	if out.Host == "" {
		return "", fmt.Errorf("describe index %q: no host in response", index)
	}
	return out.Host, nil
}

type pineconeQuery struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type pineconeMatches struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

func (p *Pinecone) Retrieve(ctx context.Context, question string) ([]chat.Snippet, error) {
	vec, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	var out pineconeMatches
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(pineconeQuery{Vector: vec, TopK: p.topK, IncludeMetadata: true}).
		SetResult(&out).
		Post("/query")
	if err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pinecone query: %s", resp.Status())
	}

	snippets := make([]chat.Snippet, 0, len(out.Matches))
	for _, m := range out.Matches {
		sn := chat.Snippet{}
		if v, ok := m.Metadata["text"].(string); ok {
			sn.Content = v
		}
		if v, ok := m.Metadata["title"].(string); ok {
			sn.Title = v
		}
		if v, ok := m.Metadata["source"].(string); ok {
			sn.Source = v
		}
		if strings.TrimSpace(sn.Content) == "" {
			continue
		}
		snippets = append(snippets, sn)
	}
	return snippets, nil
}

var _ chat.Retriever = (*Pinecone)(nil)
