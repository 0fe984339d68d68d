// Package retrieval finds the parts of a graph relevant to a question: entry
// nodes matched from question tokens, then a bounded neighbourhood around them.
package retrieval

import (
	"strings"

	"github.com/agenthands/biokag/internal/core/kg"
)

type Tokenizer interface {
	Tokenize(text string) []string
}

// ASCIITokenizer lowercases text and splits it on every byte outside [a-z0-9].
// Non-ASCII letters act as separators.
type ASCIITokenizer struct{}

func (ASCIITokenizer) Tokenize(text string) []string {
	var tokens []string
	start := -1
	lower := strings.ToLower(text)
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, lower[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, lower[start:])
	}
	return tokens
}

// IdentifyEntryNodes returns, in node insertion order, every node whose
// normalized text (or lowercased text when that is empty) contains one of the
// tokens. Empty tokens never match.
func IdentifyEntryNodes(g *kg.Graph, tokens []string) []string {
	var ids []string
	for _, e := range g.Entities() {
		haystack := e.NormalizedText
		if haystack == "" {
			haystack = e.Text
		}
		haystack = strings.ToLower(haystack)

		for _, tok := range tokens {
			if tok != "" && strings.Contains(haystack, tok) {
				ids = append(ids, e.ID)
				break
			}
		}
	}
	return ids
}
