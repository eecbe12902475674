package chat

import "strings"

// Disclaimer is appended verbatim to every generated answer.
const Disclaimer = "\n\n🔒 **IMPORTANT:** This is educational information only. Always consult healthcare professionals for personal medical advice."

// FormatSuccess builds the success envelope for a generated answer.
// Metrics are computed on the answer before the disclaimer is appended.
func FormatSuccess(answer, providerLabel string, enhanced bool) *Response {
	answer = strings.TrimSpace(answer)

	words := WordCount(answer)
	kb := KnowledgeBaseStandard
	if enhanced {
		kb = KnowledgeBaseEnhanced
	}

	return &Response{
		Answer: answer + Disclaimer,
		Model:  providerLabel,
		Status: StatusSuccess,
		Metrics: &Metrics{
			Words:         words,
			Conciseness:   ConcisenessFor(words),
			KnowledgeBase: kb,
		},
	}
}

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ConcisenessFor maps a word count to its rating.
func ConcisenessFor(words int) Conciseness {
	switch {
	case words <= 150:
		return ConcisenessExcellent
	case words <= 250:
		return ConcisenessGood
	default:
		return ConcisenessVerbose
	}
}
