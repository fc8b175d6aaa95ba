// Package extract turns noisy scraped text into normalized text and typed
// posting attributes. Everything here is a pure function over its input.
package extract

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxTextRunes    = 1000
	truncatedMarker = "…"
)

var (
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reSpaces     = regexp.MustCompile(`[\s\p{Z}]+`)
	reDisallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,!?()]+`)
)

// Normalize unescapes entities, strips markup and odd punctuation, collapses
// whitespace and caps the result at MaxTextRunes (marker included).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := reSpaces.ReplaceAllString(markupFree(raw), " ")
	s = reDisallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return truncate(s, MaxTextRunes)
}

// PlainText is the text extractors read: markup removed and whitespace
// collapsed, but punctuation such as currency signs kept and no length cap.
func PlainText(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(reSpaces.ReplaceAllString(markupFree(raw), " "))
}

func markupFree(raw string) string {
	return reTag.ReplaceAllString(html.UnescapeString(raw), " ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-utf8.RuneCountInString(truncatedMarker)]) + truncatedMarker
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest ("node.js" -> "Node.Js", "c++" -> "C++").
func titleCase(s string) string {
	out := []rune(s)
	prevLetter := false
	for i, r := range out {
		isLetter := unicode.IsLetter(r)
		if isLetter && !prevLetter {
			out[i] = unicode.ToUpper(r)
		} else if isLetter {
			out[i] = unicode.ToLower(r)
		}
		prevLetter = isLetter
	}
	return string(out)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
