package scraper

import (
	"regexp"
	"strings"
)

// FilterConfig bounds and filters free-text candidates extracted from a page.
// The zero value is not useful; use DefaultFilterConfig.
type FilterConfig struct {
	StopPhrases []string
	MinLen      int
	MaxLen      int
	MaxEntries  int
}

// Stop phrases marking UI chrome rather than product content. Matching is a
// case-insensitive substring check.
var stopPhrases = []string{
	"main content",
	"about this item",
	"buying options",
	"compare with similar items",
	"videos",
	"reviews",
	"search",
	"home",
	"orders",
	"add to cart",
	"show/hide shortcuts",
	"keyboard shortcuts",
	"cart",
	"delivery options",
}

// Screen-reader keyboard hints leak into list items on some layouts.
var shortcutPattern = regexp.MustCompile(`(?i)(alt\s*\+|shift\s*\+|keyboard|shortcuts)`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// DefaultFilterConfig returns the bounds applied to feature candidates.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		StopPhrases: stopPhrases,
		MinLen:      4,
		MaxLen:      220,
		MaxEntries:  12,
	}
}

// VariantFilterConfig returns the stricter bounds applied to variant names
// such as colors.
func VariantFilterConfig() FilterConfig {
	return FilterConfig{
		StopPhrases: stopPhrases,
		MinLen:      2,
		MaxLen:      39,
		MaxEntries:  0, // capped by the assembler instead
	}
}

// CollapseWhitespace collapses internal runs of whitespace to single spaces
// and trims the result.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// ContainsStopPhrase reports whether s contains any stop phrase,
// case-insensitively.
func ContainsStopPhrase(s string, phrases []string) bool {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CleanCandidates normalizes, filters, and deduplicates text candidates in
// first-seen order: whitespace collapse, length bounds, stop-phrase and
// keyboard-shortcut rejection, then an optional cap on the surviving entries.
func CleanCandidates(candidates []string, cfg FilterConfig) []string {
	var out []string
	seen := make(map[string]bool)

	for _, c := range candidates {
		c = CollapseWhitespace(c)
		if len(c) < cfg.MinLen || len(c) > cfg.MaxLen {
			continue
		}
		if ContainsStopPhrase(c, cfg.StopPhrases) {
			continue
		}
		if shortcutPattern.MatchString(c) {
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if cfg.MaxEntries > 0 && len(out) >= cfg.MaxEntries {
			break
		}
	}

	return out
}

// CleanDescription splits a description into sentences, drops UI chrome
// lines, and rejoins the rest.
func CleanDescription(description string) string {
	if description == "" {
		return ""
	}

	lines := regexp.MustCompile(`\n|\.\s+`).Split(description, -1)
	var kept []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if ContainsStopPhrase(l, stopPhrases) || shortcutPattern.MatchString(l) {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, ". ")
}

// uniq removes empty strings and duplicates, preserving first-seen order.
func uniq(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
