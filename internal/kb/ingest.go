package kb

import (
	"strings"
	"unicode/utf8"
)

// SplitContent breaks a document into chunks of at most maxLen bytes,
// preferring line boundaries. Over-long lines are hard-split.
func SplitContent(content string, maxLen int) []string {
	content = strings.TrimSpace(content)
	content = SanitizeUTF8(content)
	if content == "" {
		return nil
	}
	if len(content) <= maxLen {
		return []string{content}
	}

	var chunks []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunk := strings.TrimSpace(buf.String())
		chunk = SanitizeUTF8(chunk)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		buf.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for len(line) > maxLen {
			part := line[:maxLen]
			line = line[maxLen:]

			if buf.Len() > 0 {
				flush()
			}
			buf.WriteString(part)
			flush()
		}

		if buf.Len()+len(line)+1 > maxLen {
			flush()
		}

		buf.WriteString(line)
		buf.WriteRune('\n')
	}

	flush()
	return chunks
}

// DetectCategory guesses what kind of medical content a chunk holds.
func DetectCategory(chunk string) Category {
	s := strings.ToLower(chunk)

	switch {
	case strings.Contains(s, "symptom") || strings.Contains(s, "sign of") ||
		strings.Contains(s, "presents with"):
		return CategorySymptoms
	case strings.Contains(s, "dose") || strings.Contains(s, "dosage") ||
		strings.Contains(s, "medication") || strings.Contains(s, "side effect"):
		return CategoryMedication
	case strings.Contains(s, "treatment") || strings.Contains(s, "therapy") ||
		strings.Contains(s, "management"):
		return CategoryTreatment
	case strings.Contains(s, "prevention") || strings.Contains(s, "vaccine") ||
		strings.Contains(s, "hygiene"):
		return CategoryPrevention
	default:
		return CategoryGeneral
	}
}

// DetectTags extracts coarse topic tags used to browse the knowledge base.
func DetectTags(chunk string) []string {
	s := strings.ToLower(chunk)
	var tags []string

	add := func(t string) {
		for _, ex := range tags {
			if ex == t {
				return
			}
		}
		tags = append(tags, t)
	}

	if strings.Contains(s, "fever") || strings.Contains(s, "temperature") {
		add("fever")
	}
	if strings.Contains(s, "infection") || strings.Contains(s, "bacterial") ||
		strings.Contains(s, "viral") {
		add("infection")
	}
	if strings.Contains(s, "diabetes") || strings.Contains(s, "blood sugar") {
		add("diabetes")
	}
	if strings.Contains(s, "heart") || strings.Contains(s, "cardiac") ||
		strings.Contains(s, "blood pressure") {
		add("cardiovascular")
	}
	if strings.Contains(s, "allerg") {
		add("allergy")
	}
	if strings.Contains(s, "child") || strings.Contains(s, "pediatric") {
		add("pediatric")
	}
	if strings.Contains(s, "pregnan") {
		add("pregnancy")
	}
	if strings.Contains(s, "emergency") || strings.Contains(s, "911") ||
		strings.Contains(s, "urgent") {
		add("emergency")
	}

	return tags
}

// SanitizeUTF8 drops invalid bytes so Postgres never rejects the text.
func SanitizeUTF8(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = s[size:]
	}
	return b.String()
}
