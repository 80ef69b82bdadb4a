// Package amazon extracts listing-side offers: search-page ASIN discovery
// and per-product ScrapedOffer assembly over rendered documents.
package amazon

import (
	"fmt"
	neturl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricewatch/offer-reconciler/models"
	"github.com/pricewatch/offer-reconciler/scrapers/base"
	"github.com/pricewatch/offer-reconciler/textnorm"
)

// Scraper handles the HTML parsing for the Amazon UK listing side.
type Scraper struct {
	*base.BaseScraper
	BaseURL    string
	Refinement string
}

func NewScraper(fetcher *base.BaseScraper, baseURL, refinement string) *Scraper {
	return &Scraper{
		BaseScraper: fetcher,
		BaseURL:     baseURL,
		Refinement:  refinement,
	}
}

// searchURL builds the drugstore search URL, narrowed by the brand
// refinement so unrelated drugstore listings never enter the ASIN list.
func (s *Scraper) searchURL(query string) string {
	url := fmt.Sprintf("%s/s?k=%s&i=drugstore", s.BaseURL, neturl.QueryEscape(query))
	if s.Refinement != "" {
		url += "&rh=" + s.Refinement
	}
	return url
}

// SearchASINs loads the search results page for query and returns the
// ASINs found, deduplicated in first-seen document order.
func (s *Scraper) SearchASINs(query string) ([]string, error) {
	doc, err := s.FetchDocument(s.searchURL(query), func(doc *goquery.Document) bool {
		return doc.Find("div.s-main-slot").Length() > 0
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var asins []string
	doc.Find("div[data-asin]").Each(func(i int, sel *goquery.Selection) {
		asin := strings.TrimSpace(sel.AttrOr("data-asin", ""))
		if len(asin) < 5 || seen[asin] {
			return
		}
		seen[asin] = true
		asins = append(asins, asin)
	})
	return asins, nil
}

// ProductURL builds the canonical product URL for an ASIN.
func (s *Scraper) ProductURL(asin string) string {
	return fmt.Sprintf("%s/dp/%s", s.BaseURL, asin)
}

// priceSlotSelector is the rendered buy-box price element; product-page
// fetches give it time to appear before extraction.
const priceSlotSelector = "span.a-price > span.a-offscreen"

// ScrapeOffer loads one product document and extracts its ScrapedOffer.
// Individual missing fields degrade to sentinels; only a failed document
// load is an error.
func (s *Scraper) ScrapeOffer(asin string) (*models.ScrapedOffer, error) {
	url := s.ProductURL(asin)

	doc, err := s.FetchDocument(url, base.IsValidDocument, priceSlotSelector)
	if err != nil {
		return nil, err
	}

	offer := ExtractOffer(doc, asin, url)
	return offer, nil
}

// ExtractOffer assembles a ScrapedOffer from an already-loaded document.
// Pure over the document; split out so tests can feed fixture HTML.
func ExtractOffer(doc *goquery.Document, asin, url string) *models.ScrapedOffer {
	offer := &models.ScrapedOffer{
		ASIN: asin,
		URL:  url,
	}

	offer.Title = strings.TrimSpace(doc.Find("#productTitle").Text())

	offer.Brand = extractBrand(doc)

	offer.PriceRaw = ExtractPrice(doc)
	if v, ok := textnorm.ParseCurrencyAmount(offer.PriceRaw); ok {
		offer.Price = &v
	}

	offer.StarRating = strings.TrimSpace(doc.Find("span.a-icon-alt").First().Text())
	if offer.StarRating == "" {
		offer.StarRating = models.NotAvailable
	}

	offer.TotalRatings = strings.TrimSpace(doc.Find("#acrCustomerReviewText").First().Text())
	if offer.TotalRatings == "" {
		offer.TotalRatings = "0"
	}

	var bullets []string
	doc.Find("#feature-bullets ul li span").Each(func(i int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			bullets = append(bullets, text)
		}
	})
	offer.Description = strings.Join(bullets, " | ")

	// Generic attribute-table scan; the table layout varies per cohort so
	// both the po-table and th/td shapes are accepted.
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		label := row.Find("td.a-span3 span").First()
		if label.Length() == 0 {
			label = row.Find("th").First()
		}
		value := row.Find("td.a-span9 span").First()
		if value.Length() == 0 {
			value = row.Find("td").First()
		}
		if label.Length() == 0 || value.Length() == 0 {
			return
		}

		key := strings.ToLower(strings.TrimSpace(label.Text()))
		val := strings.TrimSpace(value.Text())
		switch {
		case strings.Contains(key, "flavour") || strings.Contains(key, "flavor"):
			offer.Flavour = val
		case strings.Contains(key, "size") || strings.Contains(key, "unit"):
			offer.Size = val
		case strings.Contains(key, "number of items") || strings.Contains(key, "item count"):
			offer.NumberOfItems = val
		}
	})

	offer.Image = doc.Find("#landingImage").AttrOr("src", "")
	if offer.Image == "" {
		offer.Image = models.NotAvailable
	}

	return offer
}

var brandSelectors = []string{
	"#bylineInfo",
	"a#brand",
	"tr.po-brand td:nth-child(2)",
}

func extractBrand(doc *goquery.Document) string {
	for _, sel := range brandSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}

	// Detail-table fallback: a "Brand" header row with the value beside it.
	// Checked before the stores link, whose text is a storefront blurb
	// rather than the brand itself.
	brand := ""
	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if !strings.Contains(row.Find("th").First().Text(), "Brand") {
			return true
		}
		if text := strings.TrimSpace(row.Find("td").First().Text()); text != "" {
			brand = text
			return false
		}
		return true
	})
	if brand != "" {
		return brand
	}

	if text := strings.TrimSpace(doc.Find("a[href*='/stores/']").First().Text()); text != "" {
		return text
	}
	return models.NotAvailable
}
