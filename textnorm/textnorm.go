// Package textnorm cleans the free-text values both sources supply before
// classification: currency parsing, markup stripping, truncation. All
// functions are pure; malformed input degrades to an absent result.
package textnorm

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reAmount = regexp.MustCompile(`\d{1,3}(?:[,\d]*)(?:\.\d+)?`)
	reTag    = regexp.MustCompile(`<[^>]*>`)
	reDigits = regexp.MustCompile(`[^\d.]`)
)

// ParseCurrencyAmount extracts the first numeric token from a price-like
// string ("£1,234.56" -> 1234.56). The second return is false when the
// input carries no digits ("N/A", "See Buying Options", "").
func ParseCurrencyAmount(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	m := reAmount.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloatSafe coerces a feed-supplied numeric string. Shopify sends
// prices as strings ("29.99"); anything non-numeric is scrubbed before a
// second parse attempt.
func ParseFloatSafe(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, true
	}
	cleaned := reDigits.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// StripMarkup removes tag syntax and collapses the remainder to trimmed
// plain text. Callers fall back to the product title when it comes back
// empty.
func StripMarkup(html string) string {
	return strings.TrimSpace(reTag.ReplaceAllString(html, ""))
}

// Truncate caps text at maxLen runes, appending an ellipsis marker when it
// was cut.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
