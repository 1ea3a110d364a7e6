package rawindexer

import (
	"regexp"
	"strings"
)

// splitRegex matches runs of characters that don't belong inside a token.
var splitRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// acronymBoundary catches "HTTPRequest" -> "HTTP Request": an upper-case run
// followed by an upper-then-lower pair marks where the acronym ends.
var acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// camelBoundary catches "theOffice" -> "the Office" and "myAPI" -> "my API".
var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// splitWords lowercases value, splits camelCase/PascalCase/acronym runs on
// their internal case boundaries, and breaks the result on everything that
// isn't a letter or digit.
func splitWords(value string) []string {
	withBoundaries := acronymBoundary.ReplaceAllString(value, "$1 $2")
	withBoundaries = camelBoundary.ReplaceAllString(withBoundaries, "$1 $2")
	lower := strings.ToLower(withBoundaries)

	parts := splitRegex.Split(lower, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// prefixNGrams returns every prefix of word from length 1 up to len(word),
// e.g. "cat" -> ["c", "ca", "cat"].
func prefixNGrams(word string) []string {
	if len(word) == 0 {
		return nil
	}
	ngrams := make([]string, len(word))
	for i := 1; i <= len(word); i++ {
		ngrams[i-1] = word[:i]
	}
	return ngrams
}
