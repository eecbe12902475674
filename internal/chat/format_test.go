package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestConcisenessBoundaries(t *testing.T) {
	require.Equal(t, ConcisenessExcellent, ConcisenessFor(0))
	require.Equal(t, ConcisenessExcellent, ConcisenessFor(150))
	require.Equal(t, ConcisenessGood, ConcisenessFor(151))
	require.Equal(t, ConcisenessGood, ConcisenessFor(250))
	require.Equal(t, ConcisenessVerbose, ConcisenessFor(251))
}

func TestWordCount(t *testing.T) {
	require.Equal(t, 0, WordCount(""))
	require.Equal(t, 0, WordCount("   \n\t"))
	require.Equal(t, 5, WordCount("Fevers are caused by infection."))
	require.Equal(t, 3, WordCount("  spaced   out\ttokens \n"))
}

func TestFormatSuccess(t *testing.T) {
	resp := FormatSuccess("  Fevers are caused by infection.  ", "Groq (Fast & Accurate)", false)

	require.Equal(t, StatusSuccess, resp.Status)
	require.Equal(t, "Groq (Fast & Accurate)", resp.Model)
	require.Equal(t, "Fevers are caused by infection."+Disclaimer, resp.Answer)

	require.NotNil(t, resp.Metrics)
	require.Equal(t, 5, resp.Metrics.Words)
	require.Equal(t, ConcisenessExcellent, resp.Metrics.Conciseness)
	require.Equal(t, KnowledgeBaseStandard, resp.Metrics.KnowledgeBase)
}

func TestFormatSuccessEnhancedKnowledgeBase(t *testing.T) {
	resp := FormatSuccess("answer", "Google Gemini (Reliable)", true)
	require.Equal(t, KnowledgeBaseEnhanced, resp.Metrics.KnowledgeBase)
}

func TestFormatSuccessCountsWordsBeforeDisclaimer(t *testing.T) {
	resp := FormatSuccess(words(151), "label", false)
	require.Equal(t, 151, resp.Metrics.Words)
	require.Equal(t, ConcisenessGood, resp.Metrics.Conciseness)

	resp = FormatSuccess(words(251), "label", false)
	require.Equal(t, ConcisenessVerbose, resp.Metrics.Conciseness)
}
