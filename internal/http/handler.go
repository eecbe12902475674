package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/medassist/medichat/internal/chat"
)

// requestTimeout bounds a whole /chat request: retrieval plus up to two
// provider calls.
const requestTimeout = 60 * time.Second

type Handler struct {
	chatService *chat.Service
	logger      *log.Logger
}

func NewHandler(chatService *chat.Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{chatService: chatService, logger: logger}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

type healthResponse struct {
	Status             string `json:"status"`
	GroqAvailable      bool   `json:"groq_available"`
	GeminiAvailable    bool   `json:"gemini_available"`
	RetrieverAvailable bool   `json:"retriever_available"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	avail := h.chatService.Availability()
	writeJSON(w, healthResponse{
		Status:             "healthy",
		GroqAvailable:      avail.Groq,
		GeminiAvailable:    avail.Gemini,
		RetrieverAvailable: avail.Retriever,
	})
}

// Chat always answers HTTP 200 with an envelope; degraded service is
// reported through the envelope's status field, never as a transport error.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("bad chat request body", "error", err)
		writeJSON(w, &chat.Response{
			Answer: "Server error: invalid JSON body",
			Model:  "System",
			Status: chat.StatusError,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeJSON(w, h.chatService.Answer(ctx, req))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
