package main

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/medassist/medichat/internal/chat"
	"github.com/medassist/medichat/internal/config"
	"github.com/medassist/medichat/internal/db"
	apphttp "github.com/medassist/medichat/internal/http"
	"github.com/medassist/medichat/internal/kb"
	"github.com/medassist/medichat/internal/llm"
	"github.com/medassist/medichat/internal/retriever"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := log.Default()

	deps := chat.Deps{Logger: logger, CallTimeout: cfg.ProviderTimeout}

	// Each collaborator may fail to come up without taking the service
	// down; the orchestrator degrades around missing handles.
	groqClient, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel)
	if err != nil {
		logger.Warn("groq initialization failed", "error", err)
	} else {
		deps.Primary = groqClient
		logger.Info("groq chatbot initialized")
	}

	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("gemini initialization failed", "error", err)
	} else {
		deps.Backup = geminiClient
		logger.Info("gemini chatbot initialized")
	}

	if r := buildRetriever(ctx, cfg, geminiClient, logger); r != nil {
		deps.Retriever = r
		logger.Info("retriever initialized", "backend", cfg.Retriever)
	}

	if deps.Primary == nil && deps.Backup == nil {
		logger.Warn("no generation provider available; serving fallback answers only")
	}

	chatService := chat.NewService(deps)

	h := apphttp.NewHandler(chatService, logger)
	router := apphttp.NewRouter(h)
	handler := corsMiddleware(router)

	addr := ":" + cfg.Port
	logger.Info("medical chat API listening", "addr", addr)
	logger.Fatal(http.ListenAndServe(addr, handler))
}

// buildRetriever wires the configured retrieval backend. Everything here
// is best-effort: a broken backend just means answers without context.
func buildRetriever(ctx context.Context, cfg *config.Config, embedder *llm.GeminiClient, logger *log.Logger) chat.Retriever {
	switch cfg.Retriever {
	case "pinecone":
		if embedder == nil {
			logger.Warn("pinecone retriever needs the gemini embedder; skipping")
			return nil
		}
		r, err := retriever.NewPinecone(ctx, retriever.PineconeConfig{
			APIKey: cfg.PineconeAPIKey,
			Index:  cfg.PineconeIndex,
			Host:   cfg.PineconeHost,
		}, embedder)
		if err != nil {
			logger.Warn("pinecone initialization failed", "error", err)
			return nil
		}
		return r

	case "pgvector":
		if embedder == nil {
			logger.Warn("pgvector retriever needs the gemini embedder; skipping")
			return nil
		}
		if cfg.DatabaseURL == "" {
			logger.Warn("pgvector retriever needs DATABASE_URL; skipping")
			return nil
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("knowledge base connection failed", "error", err)
			return nil
		}
		r, err := retriever.NewPgVector(kb.NewPgRepository(pool), embedder, 0)
		if err != nil {
			logger.Warn("pgvector initialization failed", "error", err)
			return nil
		}
		return r

	case "none", "":
		return nil

	default:
		logger.Warn("unknown retriever backend", "backend", cfg.Retriever)
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
