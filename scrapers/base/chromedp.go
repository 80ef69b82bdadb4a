package base

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// FetchDocumentChromeDP fetches the URL with a headless browser so that
// JS-rendered price slots exist in the returned document. Locale and
// delivery-postcode cookies are set before navigation; listing sites
// render different prices per delivery area. Each waitSelector gets a
// bounded, non-fatal grace period to render after the body is ready.
func (b *BaseScraper) FetchDocumentChromeDP(url string, identity Identity, waitSelectors ...string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.UserAgent(identity.UserAgent),
	)
	if identity.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(identity.Proxy))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	headers := map[string]interface{}{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-GB,en;q=0.9",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
	}

	if err := chromedp.Run(taskCtx, network.SetExtraHTTPHeaders(network.Headers(headers))); err != nil {
		return nil, fmt.Errorf("chromedp header error: %w", err)
	}

	if err := chromedp.Run(taskCtx, b.localeCookies()); err != nil {
		return nil, fmt.Errorf("chromedp cookie error: %w", err)
	}

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	for _, sel := range waitSelectors {
		actions = append(actions, waitBounded(sel, 10*time.Second))
	}
	var htmlContent string
	actions = append(actions,
		chromedp.Sleep(time.Duration(2+rand.Float64()*3)*time.Second), // Random delay
		chromedp.OuterHTML("html", &htmlContent),
	)

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return nil, fmt.Errorf("chromedp navigation error: %w", err)
	}

	return goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
}

// waitBounded waits up to timeout for sel to appear in the DOM. The
// element may legitimately be absent (unavailable listings have no price
// slot), so the wait never fails the fetch.
func waitBounded(sel string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := chromedp.WaitReady(sel, chromedp.ByQuery).Do(waitCtx); err != nil {
			fmt.Printf("[BaseScraper] ChromeDP: %s not rendered within %s, continuing\n", sel, timeout)
		}
		return nil
	})
}

// localeCookies pins the site to en-GB presentation and the configured
// delivery postcode.
func (b *BaseScraper) localeCookies() chromedp.Action {
	cookies := map[string]string{
		"lc-main":                   "en_GB",
		"glow-destination-postcode": b.Postcode,
		"sp-cc-gp":                  "1",
	}
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for name, value := range cookies {
			err := network.SetCookie(name, value).
				WithDomain(b.CookieDomain).
				WithPath("/").
				Do(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
