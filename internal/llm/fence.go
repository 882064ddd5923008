package llm

import (
	"strings"
	"unicode"
)

// StripCodeFence removes a single wrapping Markdown code fence, with or
// without a language tag, from a model response. Input that is not fenced is
// returned trimmed but otherwise untouched, so the function is idempotent and
// safe to apply before every JSON parse.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if len(s) < 6 || !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	body := strings.TrimSpace(s[3 : len(s)-3])

	// ```json payload``` with or without a newline after the tag.
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		rest := strings.TrimSpace(body[4:])
		if rest == "" || rest[0] == '{' || rest[0] == '[' {
			return rest
		}
	}

	// Any other language tag sits alone on the first line.
	if i := strings.IndexByte(body, '\n'); i >= 0 && isFenceTag(strings.TrimSpace(body[:i])) {
		return strings.TrimSpace(body[i+1:])
	}
	return body
}

func isFenceTag(tag string) bool {
	if tag == "" || len(tag) > 16 {
		return false
	}
	for _, r := range tag {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
