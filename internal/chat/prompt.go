package chat

import "strings"

// MaxContextChars bounds the retrieved context inserted into the prompt.
const MaxContextChars = 1200

const noContextFallback = "General medical knowledge"

// BuildPrompt assembles the instruction prompt sent to the providers.
// context may be empty; language is the full English name of the answer
// language and may be empty for English. Pure string construction.
func BuildPrompt(question, context, language string) string {
	if strings.TrimSpace(context) == "" {
		context = noContextFallback
	}

	var b strings.Builder
	b.WriteString("You are an expert medical AI assistant. Provide ACCURATE and CONCISE medical information.\n\n")
	b.WriteString("MEDICAL CONTEXT:\n")
	b.WriteString(context)
	b.WriteString("\n\nQUESTION: ")
	b.WriteString(question)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("- Maximum 250 words\n")
	b.WriteString("- Use bullet points for clarity\n")
	b.WriteString("- Focus on essential information only\n")
	b.WriteString("- Include specific actionable advice\n")
	b.WriteString("- Always mention when to seek professional help\n")
	if language != "" {
		b.WriteString("- Respond in ")
		b.WriteString(language)
		b.WriteString("\n")
	}
	b.WriteString("\nRESPONSE FORMAT:\n")
	b.WriteString("• **Overview:** Brief explanation\n")
	b.WriteString("• **Key Symptoms:** (if applicable)\n")
	b.WriteString("• **Prevention/Treatment:** Essential steps only\n")
	b.WriteString("• **⚠️ See Doctor:** Specific warning signs\n\n")
	b.WriteString("Response:")

	return b.String()
}

// TruncateRunes cuts s to at most max characters, not bytes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
