package business

import (
	"strings"
	"unicode/utf8"
)

// KeywordMatcher decides whether a message qualifies for forwarding.
// Matching is case-insensitive substring containment, not tokenized: a
// keyword matches anywhere within the text, including inside other words.
// This is a deliberate low-precision, high-recall policy for safety alerting.
type KeywordMatcher struct {
	keywords []string
}

// NewKeywordMatcher builds a matcher from a comma-separated keyword list.
// Entries are trimmed and lowercased; empty entries and entries whose rune
// length reaches lengthLimit are dropped (a malformed oversized entry must
// not silently match everything).
func NewKeywordMatcher(raw string, lengthLimit int) *KeywordMatcher {
	var keywords []string
	if raw != "" {
		for _, entry := range strings.Split(raw, ",") {
			trimmed := strings.TrimSpace(entry)
			if trimmed == "" {
				continue
			}
			if utf8.RuneCountInString(trimmed) >= lengthLimit {
				continue
			}
			keywords = append(keywords, strings.ToLower(trimmed))
		}
	}
	return &KeywordMatcher{keywords: keywords}
}

// ShouldForward reports whether the text contains any configured keyword.
// Empty text or an empty keyword list never matches.
func (m *KeywordMatcher) ShouldForward(text string) bool {
	if text == "" || len(m.keywords) == 0 {
		return false
	}

	lowered := strings.ToLower(text)
	for _, keyword := range m.keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
