// Package stringutils derives display strings from chat content.
package stringutils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reURL      = regexp.MustCompile(`(?i)(https?://|ftp://|www\.)[^\s]+`)
	reMarkdown = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	reEmail    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// GenerateTitle derives a short thread title from a message: links and
// addresses are stripped and the rest is cut to maxLen at a word
// boundary. Returns "" when nothing presentable remains.
func GenerateTitle(content string, maxLen int) string {
	title := sanitize(content)
	if title == "" {
		return ""
	}
	return truncate(title, maxLen)
}

func sanitize(content string) string {
	content = reURL.ReplaceAllString(content, "")
	content = reMarkdown.ReplaceAllString(content, "$1")
	content = reEmail.ReplaceAllString(content, "")

	// Keep letters, digits, whitespace and basic punctuation.
	content = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) ||
			strings.ContainsRune(".,!?-'", r) {
			return r
		}
		return -1
	}, content)

	content = reSpaces.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)
	return strings.TrimRight(content, " .,!?-'")
}

func truncate(title string, maxLen int) string {
	if len(title) <= maxLen {
		return title
	}

	const ellipsis = "..."
	limit := maxLen - len(ellipsis)
	if limit < 0 {
		limit = 0
	}

	cut := title[:limit]
	// Break on a space when one falls in the back half of the cut.
	if space := strings.LastIndex(cut, " "); space > limit/2 {
		cut = strings.TrimRight(cut[:space], " ")
	}
	return cut + ellipsis
}
