package base

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// BaseScraper loads rendered product documents. A single selector or
// transport is never reliable on listing sites, so it tries an ordered
// sequence of fetch strategies and accepts the first document the caller's
// validator approves.
type BaseScraper struct {
	Client       *http.Client
	Identities   *IdentityPool
	CookieDomain string
	Postcode     string
	Headless     bool
}

// NewBaseScraper creates a BaseScraper that injects locale/postcode
// cookies for cookieDomain on every browser-backed fetch.
func NewBaseScraper(identities *IdentityPool, cookieDomain, postcode string, headless bool) *BaseScraper {
	return &BaseScraper{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		Identities:   identities,
		CookieDomain: cookieDomain,
		Postcode:     postcode,
		Headless:     headless,
	}
}

// FetchDocument fetches the URL using multiple strategies with a custom
// validator. Optional waitSelectors name elements the browser-backed
// strategies should give time to render before extracting.
func (b *BaseScraper) FetchDocument(url string, validator func(*goquery.Document) bool, waitSelectors ...string) (*goquery.Document, error) {
	identity := b.Identities.Next()
	fmt.Printf("[BaseScraper] Identity -> Proxy: %s, UA: %.60s...\n", orDirect(identity.Proxy), identity.UserAgent)

	// Strategy 1: HTTP client (fastest, no JS)
	doc, err := b.FetchDocumentHTTP(url, identity)
	if err == nil {
		if validator(doc) {
			fmt.Printf("[BaseScraper] HTTP Success: %s\n", url)
			return doc, nil
		}
		fmt.Printf("[BaseScraper] HTTP yielded invalid content (validator failed), trying fallbacks...\n")
	} else {
		fmt.Printf("[BaseScraper] HTTP Failed: %v\n", err)
	}

	// Strategy 2: ChromeDP (headless, renders JS, carries the locale cookies)
	fmt.Printf("[BaseScraper] Trying ChromeDP: %s\n", url)
	doc, err = b.FetchDocumentChromeDP(url, identity, waitSelectors...)
	if err == nil && validator(doc) {
		fmt.Printf("[BaseScraper] ChromeDP Success\n")
		return doc, nil
	}
	if err != nil {
		fmt.Printf("[BaseScraper] ChromeDP Failed: %v\n", err)
	}

	// Strategy 3: Selenium (full browser)
	fmt.Printf("[BaseScraper] Trying Selenium: %s\n", url)
	doc, err = b.FetchDocumentSelenium(url, identity)
	if err == nil && validator(doc) {
		fmt.Printf("[BaseScraper] Selenium Success\n")
		return doc, nil
	}
	if err != nil {
		fmt.Printf("[BaseScraper] Selenium Failed: %v\n", err)
	}

	return nil, fmt.Errorf("all strategies failed for %s", url)
}

// IsValidDocument rejects blocked or interstitial pages.
func IsValidDocument(doc *goquery.Document) bool {
	title := strings.TrimSpace(doc.Find("title").Text())
	body := strings.TrimSpace(doc.Find("body").Text())

	lowerTitle := strings.ToLower(title)
	if strings.Contains(lowerTitle, "robot check") ||
		strings.Contains(lowerTitle, "captcha") ||
		strings.Contains(lowerTitle, "access denied") {
		return false
	}

	return len(body) > 200
}

// FetchDocumentHTTP fetches the URL and returns a GoQuery document via standard HTTP
func (b *BaseScraper) FetchDocumentHTTP(url string, identity Identity) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", identity.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != 200 {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func orDirect(proxy string) string {
	if proxy == "" {
		return "DIRECT"
	}
	return proxy
}
