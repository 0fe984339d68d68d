// Package identity derives node ids from extracted entity mentions.
//
// Two mentions refer to the same node iff their entity type and normalized
// text are equal. Entity types never contain Separator, so the first
// Separator in an id always splits it back into its two parts.
package identity

import "strings"

const Separator = ":"

// Resolve returns the node id for an entity type and its normalized text.
func Resolve(entityType, normalizedText string) string {
	return entityType + Separator + normalizedText
}

// Split is the inverse of Resolve.
func Split(id string) (entityType, normalizedText string, ok bool) {
	entityType, normalizedText, ok = strings.Cut(id, Separator)
	if !ok || entityType == "" {
		return "", "", false
	}
	return entityType, normalizedText, true
}

// Normalize lowercases text, replaces everything except ASCII letters, digits,
// whitespace and hyphens with a space, and collapses whitespace runs.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		keep := ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') || c == '-'
		if !keep {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteByte(c)
	}
	return b.String()
}
