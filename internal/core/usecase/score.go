package usecase

import (
	"strings"
	"unicode"
)

const minKeywordLen = 3

// scoreChunk counts whole-word, case-insensitive occurrences of the
// question's keywords inside the chunk. Tokens shorter than three runes are
// ignored. This is a deliberately cheap lexical proxy for relevance: good
// enough for single-document QA without an embedding index.
func scoreChunk(chunkText, question string) int {
	keywords := keywordTokens(question)
	if len(keywords) == 0 {
		return 0
	}

	freq := make(map[string]int, 64)
	for _, token := range splitAlphaNumLower(chunkText) {
		freq[token]++
	}

	score := 0
	for _, kw := range keywords {
		score += freq[kw]
	}
	return score
}

func keywordTokens(question string) []string {
	tokens := splitAlphaNumLower(question)
	out := tokens[:0]
	for _, token := range tokens {
		if len([]rune(token)) >= minKeywordLen {
			out = append(out, token)
		}
	}
	return out
}

// splitAlphaNumLower tokenizes on word characters: letters, digits and
// underscore. Underscore joins identifiers (foo_bar is one token), matching
// \w word-boundary semantics.
func splitAlphaNumLower(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
