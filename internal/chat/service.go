package chat

import (
	"context"
	"strings"
	"time"

	wl "github.com/abadojack/whatlanggo"
	"github.com/charmbracelet/log"
)

const (
	// maxSnippets is the top-K asked of the retriever; only the first
	// usedSnippets passages reach the prompt.
	maxSnippets  = 3
	usedSnippets = 2

	defaultCallTimeout = 20 * time.Second
)

// Deps are the collaborators injected once at startup. Any handle may be
// nil; the service degrades instead of failing.
type Deps struct {
	Primary   Generator
	Backup    Generator
	Retriever Retriever
	Logger    *log.Logger
	// CallTimeout bounds every single provider or retrieval call.
	CallTimeout time.Duration
}

// Service coordinates retrieval, prompt construction, ordered provider
// fallback and response formatting for one request at a time.
type Service struct {
	primary   Generator
	backup    Generator
	retriever Retriever
	logger    *log.Logger
	timeout   time.Duration
}

func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := deps.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Service{
		primary:   deps.Primary,
		backup:    deps.Backup,
		retriever: deps.Retriever,
		logger:    logger,
		timeout:   timeout,
	}
}

// Availability reports which collaborators are usable right now.
func (s *Service) Availability() Availability {
	return Availability{
		Groq:      s.primary != nil,
		Gemini:    s.backup != nil,
		Retriever: s.retriever != nil,
	}
}

// Answer handles a single chat request end to end. It never returns an
// error and never panics: every failure is converted into an envelope.
func (s *Service) Answer(ctx context.Context, req Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered from request panic", "panic", r)
			resp = systemErrorResponse()
		}
	}()

	question := strings.TrimSpace(req.Message)
	if question == "" {
		return emptyQuestionResponse()
	}

	contextText := s.retrieveContext(ctx, question)
	prompt := BuildPrompt(question, contextText, responseLanguage(question))

	for _, gen := range s.providerChain(ParsePreference(req.Model)) {
		answer, err := s.generate(ctx, gen, prompt)
		if err != nil {
			s.logger.Warn("provider call failed", "provider", gen.Label(), "error", err)
			continue
		}
		return FormatSuccess(answer, gen.Label(), contextText != "")
	}

	return fallbackResponse(question)
}

// providerChain is the ordered list of generators to try. The primary is
// only attempted when preferred; the backup is always attempted. Nil
// handles are skipped.
func (s *Service) providerChain(pref Preference) []Generator {
	var chain []Generator
	if pref == PreferenceGroq && s.primary != nil {
		chain = append(chain, s.primary)
	}
	if s.backup != nil {
		chain = append(chain, s.backup)
	}
	return chain
}

func (s *Service) generate(ctx context.Context, gen Generator, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return gen.Generate(callCtx, prompt)
}

// retrieveContext asks the retrieval backend for grounding passages.
// Any failure degrades to no context; the request must go on.
func (s *Service) retrieveContext(ctx context.Context, question string) string {
	if s.retriever == nil {
		return ""
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snippets, err := s.retriever.Retrieve(callCtx, question)
	if err != nil {
		s.logger.Warn("vector search failed", "error", err)
		return ""
	}
	if len(snippets) == 0 {
		return ""
	}
	s.logger.Info("retrieved relevant medical documents", "count", len(snippets))

	if len(snippets) > maxSnippets {
		snippets = snippets[:maxSnippets]
	}
	n := len(snippets)
	if n > usedSnippets {
		n = usedSnippets
	}

	parts := make([]string, 0, n)
	for _, sn := range snippets[:n] {
		parts = append(parts, sn.Content)
	}
	return TruncateRunes(strings.Join(parts, "\n\n"), MaxContextChars)
}

// responseLanguage detects the question language so the answer can match
// it. English (and anything uncertain) keeps the default prompt.
func responseLanguage(question string) string {
	info := wl.Detect(question)
	if info.Confidence < 0.8 {
		return ""
	}
	switch wl.LangToString(info.Lang) {
	case "por":
		return "Portuguese"
	case "spa":
		return "Spanish"
	case "fra":
		return "French"
	case "deu":
		return "German"
	default:
		return ""
	}
}

func emptyQuestionResponse() *Response {
	return &Response{
		Answer: "Please ask a medical question.",
		Model:  "System",
		Status: StatusError,
	}
}

func fallbackResponse(question string) *Response {
	var b strings.Builder
	b.WriteString("⚠️ AI temporarily unavailable for: \"")
	b.WriteString(TruncateRunes(question, 50))
	b.WriteString("...\"\n\n")
	b.WriteString("**Immediate Steps:**\n")
	b.WriteString("• Consult a healthcare professional\n")
	b.WriteString("• Visit nearest medical clinic\n")
	b.WriteString("• Call medical helpline\n")
	b.WriteString("• Use trusted medical websites (Mayo Clinic, WebMD)\n\n")
	b.WriteString("🔒 **Always seek professional medical advice for health concerns.**")

	return &Response{
		Answer: b.String(),
		Model:  "System Fallback",
		Status: StatusFallback,
		Metrics: &Metrics{
			Words:         0,
			Conciseness:   ConcisenessNA,
			KnowledgeBase: KnowledgeBaseUnavailable,
		},
	}
}

func systemErrorResponse() *Response {
	return &Response{
		Answer: "❌ System error. Please consult a healthcare professional for medical questions.\n\n🔒 For urgent medical concerns, contact emergency services.",
		Model:  "System Error",
		Status: StatusError,
		Metrics: &Metrics{
			Words:         0,
			Conciseness:   ConcisenessNA,
			KnowledgeBase: KnowledgeBaseError,
		},
	}
}
