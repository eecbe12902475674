package retriever

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medassist/medichat/internal/chat"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec   []float32
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vec, nil
}

func TestPineconeRetrieve(t *testing.T) {
	var gotQuery pineconeQuery

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotQuery))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"matches": [
				{"id": "doc-1", "score": 0.91, "metadata": {"text": "Fever is a rise in body temperature.", "title": "Fever", "source": "who.int"}},
				{"id": "doc-2", "score": 0.84, "metadata": {"text": "Rest and fluids help recovery."}},
				{"id": "doc-3", "score": 0.60, "metadata": {"source": "no-text.example"}}
			]
		}`))
	}))
	defer srv.Close()

	embedder := &fakeEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	p, err := NewPinecone(context.Background(), PineconeConfig{
		APIKey: "test-key",
		Index:  "medical-chatbot",
		Host:   srv.URL,
	}, embedder)
	require.NoError(t, err)

	snippets, err := p.Retrieve(context.Background(), "What causes a fever?")
	require.NoError(t, err)

	require.Equal(t, 1, embedder.calls)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, gotQuery.Vector)
	require.Equal(t, defaultTopK, gotQuery.TopK)
	require.True(t, gotQuery.IncludeMetadata)

	// the match without text metadata is dropped
	require.Equal(t, []chat.Snippet{
		{Title: "Fever", Content: "Fever is a rise in body temperature.", Source: "who.int"},
		{Content: "Rest and fluids help recovery."},
	}, snippets)
}

func TestPineconeRetrieveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := NewPinecone(context.Background(), PineconeConfig{
		APIKey: "test-key",
		Index:  "medical-chatbot",
		Host:   srv.URL,
	}, &fakeEmbedder{vec: []float32{0.1}})
	require.NoError(t, err)

	_, err = p.Retrieve(context.Background(), "What causes a fever?")
	require.Error(t, err)
}

func TestNewPineconeRequiresCredentials(t *testing.T) {
	_, err := NewPinecone(context.Background(), PineconeConfig{}, &fakeEmbedder{})
	require.Error(t, err)

	_, err = NewPinecone(context.Background(), PineconeConfig{APIKey: "k", Host: "h"}, nil)
	require.Error(t, err)
}
