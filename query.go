package pixgallery

import (
	"strings"
	"unicode/utf8"
)

// maxQueryRunes is Pixabay's upper bound on the length of the q parameter.
const maxQueryRunes = 100

// NormalizeQuery collapses whitespace in a search term and truncates it to
// the length the search API accepts. An empty or blank term becomes fallback.
func NormalizeQuery(query, fallback string) string {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return fallback
	}
	if utf8.RuneCountInString(query) <= maxQueryRunes {
		return query
	}

	runes := []rune(query)
	return strings.TrimSpace(string(runes[:maxQueryRunes]))
}
