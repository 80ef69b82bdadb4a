package amazon

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pricewatch/offer-reconciler/models"
)

var reCurrency = regexp.MustCompile(`£\s*\d{1,3}(?:[,\d]*)(?:\.\d+)?`)

// priceStrategy attempts one extraction approach; ok is false when the
// document holds nothing for it.
type priceStrategy func(*goquery.Document) (string, bool)

// Ordered broad-to-narrow: listing pages render different DOM structures
// per experiment cohort, stock state and subscription availability, so
// correctness comes from redundancy, not from any one selector.
var priceStrategies = []priceStrategy{
	priceNearOneTimePurchase,
	priceFromKnownSelectors,
	seeBuyingOptions,
	priceFromBodyScan,
}

// ExtractPrice recovers the displayed price from a rendered product
// document, or "N/A" when every strategy comes up empty.
func ExtractPrice(doc *goquery.Document) string {
	for _, strategy := range priceStrategies {
		if price, ok := strategy(doc); ok {
			return price
		}
	}
	return models.NotAvailable
}

// priceNearOneTimePurchase anchors on the element that directly contains a
// "One-time purchase" text node (the buy-box right rail) and searches its
// descendants for a price-like element.
func priceNearOneTimePurchase(doc *goquery.Document) (string, bool) {
	var anchor *goquery.Selection
	doc.Find("*").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(ownText(s)), "one-time purchase") {
			anchor = s
			return false
		}
		return true
	})
	if anchor == nil {
		return "", false
	}

	candidates := []string{
		"span.a-offscreen",
		"span[id*='price'], span.a-color-price, span.a-price",
		"span[class*='price']",
	}
	for _, sel := range candidates {
		var found string
		anchor.Find(sel).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if m := reCurrency.FindString(s.Text()); m != "" {
				found = m
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// Known price containers, desktop and buy box, legacy included.
var priceSelectors = []string{
	"span.a-price > span.a-offscreen",
	"span#priceblock_ourprice",
	"span#priceblock_dealprice",
	"span#price_inside_buybox",
	"#corePrice_feature_div span.a-price > span.a-offscreen",
	"#corePrice_desktop span.a-price > span.a-offscreen",
	"div#corePrice_feature_div span.a-offscreen",
	"div#corePrice_feature_div .a-price-whole",
	"div#price span.a-offscreen",
	"span.a-color-price",
	"div.a-section.a-spacing-none span.a-price > span.a-offscreen",
	"div.a-section.a-spacing-small .a-price > span.a-offscreen",
}

func priceFromKnownSelectors(doc *goquery.Document) (string, bool) {
	for _, sel := range priceSelectors {
		txt := strings.TrimSpace(doc.Find(sel).First().Text())
		if txt == "" {
			continue
		}
		if m := reCurrency.FindString(txt); m != "" {
			return m, true
		}
	}
	return "", false
}

// seeBuyingOptions detects the out-of-buy-box affordance and reports its
// sentinel instead of a price.
func seeBuyingOptions(doc *goquery.Document) (string, bool) {
	sel := doc.Find("a[href*='/gp/offer-listing']")
	if sel.Length() == 0 {
		sel = doc.Find("span.a-size-medium.a-color-price")
	}
	if sel.Length() > 0 && strings.Contains(strings.ToLower(sel.First().Text()), "see buying options") {
		return models.SeeBuyingOptions, true
	}
	return "", false
}

// priceFromBodyScan is the last resort: any currency-pattern substring
// anywhere in the document.
func priceFromBodyScan(doc *goquery.Document) (string, bool) {
	body, err := doc.Html()
	if err != nil {
		return "", false
	}
	if m := reCurrency.FindString(body); m != "" {
		return m, true
	}
	return "", false
}

// ownText concatenates the direct text-node children of the selection,
// excluding descendant element text. This pins the anchor to the deepest
// element around the matching text node rather than <body>.
func ownText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
	}
	return sb.String()
}
