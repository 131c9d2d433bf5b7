package catalog

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/cinedex/internal/domain"
	"golang.org/x/text/cases"
)

// MatchMode selects how the query narrows the accumulated list
type MatchMode string

const (
	MatchSubstring MatchMode = "substring"
	MatchFuzzy     MatchMode = "fuzzy"
)

// Matcher decides whether a title matches a query
type Matcher interface {
	Match(query, title string) bool
}

// SubstringMatcher matches titles containing the query, ignoring case.
// Case folding is Unicode-aware so "ÉTÉ" matches "été".
type SubstringMatcher struct{}

func (SubstringMatcher) Match(query, title string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(title), fold.String(query))
}

// FuzzyMatcher matches titles containing the query characters in order,
// ignoring case ("btmn" matches "Batman").
type FuzzyMatcher struct{}

func (FuzzyMatcher) Match(query, title string) bool {
	return fuzzy.MatchFold(query, title)
}

// NewMatcher returns the matcher for a mode, defaulting to substring
func NewMatcher(mode MatchMode) Matcher {
	if mode == MatchFuzzy {
		return FuzzyMatcher{}
	}
	return SubstringMatcher{}
}

// Visible returns the ordered subsequence of items whose title matches query.
// An empty query returns all items. The input slice is never modified.
func Visible(items []domain.Movie, query string, m Matcher) []domain.Movie {
	if m == nil {
		m = SubstringMatcher{}
	}
	if query == "" {
		out := make([]domain.Movie, len(items))
		copy(out, items)
		return out
	}

	out := make([]domain.Movie, 0, len(items))
	for _, item := range items {
		if m.Match(query, item.Title) {
			out = append(out, item)
		}
	}
	return out
}
