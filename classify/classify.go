// Package classify holds the free-text heuristics: pack-label and flavour
// classification plus the purchase-intent predicates. These keyword tables
// are the most volatile part of the pipeline, so they live here as
// independently testable functions rather than inline in the resolver.
package classify

import (
	"regexp"
	"strings"

	"github.com/pricewatch/offer-reconciler/models"
)

var (
	reTwin       = regexp.MustCompile(`\btwin\b|\b2-?pack\b|\bdouble\b`)
	reSingle     = regexp.MustCompile(`\bsingle\b|\b1-?pack\b|pack of 1`)
	rePackLoose  = regexp.MustCompile(`single|twin|2x|2 x|1x|1 x`)
	reFlavourOpt = regexp.MustCompile(`(?i)flavour|flavor|taste|variant`)
	reFlavourVoc = regexp.MustCompile(`(?i)Original|Mango|Strawberry|Raspberry|Pineapple|Lemon|Tropical|Berry|Apple|Orange`)
)

var subscriptionKeywords = []string{"subscribe", "subscription", "subscribe & save", "save", "autoship", "recurring"}

var oneTimeKeywords = []string{"one-time", "one time", "one-off", "single", "non-sub", "oneoff"}

// NormalizePackLabel maps free text to a canonical pack label. Unrecognized
// text is returned verbatim-trimmed; empty input maps to "N/A".
func NormalizePackLabel(text string) string {
	if text == "" {
		return models.NotAvailable
	}
	t := strings.ToLower(text)
	if reTwin.MatchString(t) {
		return models.PackTwin
	}
	if reSingle.MatchString(t) {
		return models.PackSingle
	}
	if m := rePackLoose.FindString(t); m != "" {
		if strings.Contains(m, "twin") || strings.Contains(m, "2") {
			return models.PackTwin
		}
		return models.PackSingle
	}
	return strings.TrimSpace(text)
}

// ExtractFlavour returns the flavour for a variant: a flavour-like named
// option wins, then a known flavour word anywhere in the combined text,
// then the "Default" sentinel.
func ExtractFlavour(options []models.Option, combined string) string {
	for _, opt := range options {
		if opt.Value != "" && reFlavourOpt.MatchString(opt.Name) {
			return opt.Value
		}
	}
	if m := reFlavourVoc.FindString(combined); m != "" {
		return m
	}
	return models.DefaultFlavour
}

// IsExplicitSubscription reports whether the variant text or any of its
// option name/value pairs carries a subscription keyword.
func IsExplicitSubscription(combined string, options []models.Option) bool {
	return matchesAny(combined, options, subscriptionKeywords)
}

// IsExplicitOneTime reports whether the variant text or any of its option
// name/value pairs carries a one-time purchase keyword. Independent of
// IsExplicitSubscription; both may hold for the same variant.
func IsExplicitOneTime(combined string, options []models.Option) bool {
	return matchesAny(combined, options, oneTimeKeywords)
}

func matchesAny(combined string, options []models.Option, keywords []string) bool {
	t := strings.ToLower(combined)
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	for _, opt := range options {
		if opt.Value == "" {
			continue
		}
		pair := strings.ToLower(opt.Name + " " + opt.Value)
		for _, k := range keywords {
			if strings.Contains(pair, k) {
				return true
			}
		}
	}
	return false
}
