package sandbox

import (
	"strings"
	"unicode"
)

const (
	fence       = "```"
	taggedFence = fence + DefaultLanguage
)

// Extraction is the outcome of isolating a code block from completion text.
type Extraction struct {
	Found bool
	Code  string
	// Language is the tag that opened the block, if any.
	Language string
}

// Extract isolates the code payload from a free-form completion.
//
// A block opened with "```python" wins: the code runs from the first such
// fence up to the next bare fence (or to the end of the text when unclosed).
// Otherwise the first bare-fenced segment is used, and a first line made of a
// single alphabetic token is treated as a language tag and dropped. Text
// without any fence yields Found == false.
func Extract(completion string) Extraction {
	if _, after, ok := strings.Cut(completion, taggedFence); ok {
		code, _, _ := strings.Cut(after, fence)
		return Extraction{Found: true, Code: code, Language: DefaultLanguage}
	}

	parts := strings.Split(completion, fence)
	if len(parts) < 2 {
		return Extraction{}
	}
	code := parts[1]
	var lang string
	if first, rest, ok := strings.Cut(code, "\n"); ok {
		if tag := strings.TrimSpace(first); isAlpha(tag) {
			lang = tag
			code = rest
		}
	}
	return Extraction{Found: true, Code: code, Language: lang}
}

// isAlpha reports whether s is non-empty and made only of letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
