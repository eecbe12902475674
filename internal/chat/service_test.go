package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	label      string
	answer     string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGenerator) Label() string { return f.label }

type fakeRetriever struct {
	snippets []Snippet
	err      error
	panics   bool
	calls    int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string) ([]Snippet, error) {
	f.calls++
	if f.panics {
		panic("retriever blew up")
	}
	return f.snippets, f.err
}

func newTestService(primary, backup Generator, retr Retriever) *Service {
	return NewService(Deps{Primary: primary, Backup: backup, Retriever: retr})
}

func TestAnswerEmptyQuestionShortCircuits(t *testing.T) {
	primary := &fakeGenerator{label: "p", answer: "never"}
	backup := &fakeGenerator{label: "b", answer: "never"}
	retr := &fakeRetriever{}
	svc := newTestService(primary, backup, retr)

	for _, msg := range []string{"", "   ", "\n\t  "} {
		resp := svc.Answer(context.Background(), Request{Message: msg})

		require.Equal(t, StatusError, resp.Status)
		require.Equal(t, "System", resp.Model)
		require.Equal(t, "Please ask a medical question.", resp.Answer)
		require.Nil(t, resp.Metrics)
	}

	require.Zero(t, primary.calls)
	require.Zero(t, backup.calls)
	require.Zero(t, retr.calls)
}

func TestAnswerPrimarySuccessShortCircuitsBackup(t *testing.T) {
	primary := &fakeGenerator{label: "Groq (Fast & Accurate)", answer: "Fevers are caused by infection."}
	backup := &fakeGenerator{label: "Google Gemini (Reliable)", answer: "other"}
	svc := newTestService(primary, backup, nil)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, "Groq (Fast & Accurate)", resp.Model)
	require.Equal(t, "Fevers are caused by infection."+Disclaimer, resp.Answer)
	require.Equal(t, 1, primary.calls)
	require.Zero(t, backup.calls)

	require.NotNil(t, resp.Metrics)
	require.Equal(t, 5, resp.Metrics.Words)
	require.Equal(t, ConcisenessExcellent, resp.Metrics.Conciseness)
	require.Equal(t, KnowledgeBaseStandard, resp.Metrics.KnowledgeBase)
}

func TestAnswerFallsBackToBackupOnPrimaryError(t *testing.T) {
	primary := &fakeGenerator{label: "p", err: errors.New("quota exceeded")}
	backup := &fakeGenerator{label: "Google Gemini (Reliable)", answer: "backup answer"}
	svc := newTestService(primary, backup, nil)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, "Google Gemini (Reliable)", resp.Model)
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, backup.calls)
}

func TestAnswerUsesBackupWhenPrimaryUnavailable(t *testing.T) {
	backup := &fakeGenerator{label: "Google Gemini (Reliable)", answer: "backup answer"}
	svc := newTestService(nil, backup, nil)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, 1, backup.calls)
}

func TestAnswerGeminiPreferenceSkipsPrimary(t *testing.T) {
	primary := &fakeGenerator{label: "p", answer: "primary answer"}
	backup := &fakeGenerator{label: "b", answer: "backup answer"}
	svc := newTestService(primary, backup, nil)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?", Model: "gemini"})

	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, "b", resp.Model)
	require.Zero(t, primary.calls)
	require.Equal(t, 1, backup.calls)
}

func TestAnswerUnknownPreferenceDefaultsToPrimary(t *testing.T) {
	primary := &fakeGenerator{label: "p", answer: "primary answer"}
	backup := &fakeGenerator{label: "b", answer: "backup answer"}
	svc := newTestService(primary, backup, nil)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?", Model: "claude"})

	require.Equal(t, "p", resp.Model)
	require.Equal(t, 1, primary.calls)
	require.Zero(t, backup.calls)
}

func TestAnswerFallbackEnvelopeWhenAllProvidersFail(t *testing.T) {
	question := strings.Repeat("why does my head hurt ", 5) // > 50 chars
	primary := &fakeGenerator{label: "p", err: errors.New("timeout")}
	backup := &fakeGenerator{label: "b", err: errors.New("auth")}
	svc := newTestService(primary, backup, nil)

	resp := svc.Answer(context.Background(), Request{Message: question})

	require.Equal(t, StatusFallback, resp.Status)
	require.Equal(t, "System Fallback", resp.Model)
	require.Contains(t, resp.Answer, TruncateRunes(strings.TrimSpace(question), 50))
	require.Contains(t, resp.Answer, "Consult a healthcare professional")
	require.Contains(t, resp.Answer, "Call medical helpline")
	require.Contains(t, resp.Answer, "Visit nearest medical clinic")
	require.Contains(t, resp.Answer, "trusted medical websites")

	require.NotNil(t, resp.Metrics)
	require.Zero(t, resp.Metrics.Words)
	require.Equal(t, ConcisenessNA, resp.Metrics.Conciseness)
	require.Equal(t, KnowledgeBaseUnavailable, resp.Metrics.KnowledgeBase)

	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, backup.calls)
}

func TestAnswerFallbackWhenNoProvidersConfigured(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	require.Equal(t, StatusFallback, resp.Status)
	require.Equal(t, "System Fallback", resp.Model)
}

func TestAnswerRetrievalFailureDegradesToNoContext(t *testing.T) {
	primary := &fakeGenerator{label: "p", answer: "answer"}
	retr := &fakeRetriever{err: errors.New("index unreachable")}
	svc := newTestService(primary, nil, retr)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, 1, retr.calls)
	require.Equal(t, KnowledgeBaseStandard, resp.Metrics.KnowledgeBase)
	require.Contains(t, primary.lastPrompt, "General medical knowledge")
}

func TestAnswerUsesAtMostTwoSnippets(t *testing.T) {
	primary := &fakeGenerator{label: "p", answer: "answer"}
	retr := &fakeRetriever{snippets: []Snippet{
		{Content: "first passage"},
		{Content: "second passage"},
		{Content: "third passage"},
	}}
	svc := newTestService(primary, nil, retr)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	require.Equal(t, KnowledgeBaseEnhanced, resp.Metrics.KnowledgeBase)
	require.Contains(t, primary.lastPrompt, "first passage\n\nsecond passage")
	require.NotContains(t, primary.lastPrompt, "third passage")
}

func TestAnswerContextTruncatedTo1200Chars(t *testing.T) {
	primary := &fakeGenerator{label: "p", answer: "answer"}
	retr := &fakeRetriever{snippets: []Snippet{
		{Content: strings.Repeat("a", 900)},
		{Content: strings.Repeat("b", 900)},
	}}
	svc := newTestService(primary, nil, retr)

	svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	start := strings.Index(primary.lastPrompt, "MEDICAL CONTEXT:\n")
	require.GreaterOrEqual(t, start, 0)
	start += len("MEDICAL CONTEXT:\n")
	end := strings.Index(primary.lastPrompt, "\n\nQUESTION:")
	require.Greater(t, end, start)

	require.Len(t, []rune(primary.lastPrompt[start:end]), 1200)
}

func TestAnswerRecoversFromPanic(t *testing.T) {
	primary := &fakeGenerator{label: "p", answer: "answer"}
	retr := &fakeRetriever{panics: true}
	svc := newTestService(primary, nil, retr)

	resp := svc.Answer(context.Background(), Request{Message: "What causes a fever?"})

	require.Equal(t, StatusError, resp.Status)
	require.Equal(t, "System Error", resp.Model)
	require.Contains(t, resp.Answer, "contact emergency services")
	require.Equal(t, KnowledgeBaseError, resp.Metrics.KnowledgeBase)
}

func TestParsePreference(t *testing.T) {
	require.Equal(t, PreferenceGemini, ParsePreference("gemini"))
	require.Equal(t, PreferenceGroq, ParsePreference("groq"))
	require.Equal(t, PreferenceGroq, ParsePreference(""))
	require.Equal(t, PreferenceGroq, ParsePreference("gpt-4"))
}

func TestAvailability(t *testing.T) {
	svc := newTestService(&fakeGenerator{label: "p"}, nil, &fakeRetriever{})
	avail := svc.Availability()

	require.True(t, avail.Groq)
	require.False(t, avail.Gemini)
	require.True(t, avail.Retriever)
}
