package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	neturl "net/url"
	"os"
	"strings"
	"time"

	"github.com/pricewatch/offer-reconciler/catalog"
	"github.com/pricewatch/offer-reconciler/config"
	"github.com/pricewatch/offer-reconciler/export"
	"github.com/pricewatch/offer-reconciler/models"
	"github.com/pricewatch/offer-reconciler/retry"
	"github.com/pricewatch/offer-reconciler/scrapers/amazon"
	"github.com/pricewatch/offer-reconciler/scrapers/base"
	"github.com/pricewatch/offer-reconciler/utils"
)

func main() {
	config.LoadConfig()
	ctx := context.Background()

	identities := base.NewIdentityPool(config.Proxies)
	fetcher := base.NewBaseScraper(identities, cookieDomain(config.ListingBaseURL), config.Postcode, config.Headless)
	lister := amazon.NewScraper(fetcher, config.ListingBaseURL, config.SearchRefinement)

	scraped, failed := extractListings(lister)

	feed := catalog.NewClient(config.StoreURL)
	offers := feed.ExtractOffers(ctx)

	log.Printf("Scraping complete: %d listings scraped (%d failed), %d catalog offers resolved",
		len(scraped), len(failed), len(offers))

	path := fmt.Sprintf("amazon_symprove_%s.xlsx", time.Now().Format("20060102_150405"))
	if err := export.WriteWorkbook(path, scraped, offers); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}
	log.Printf("Data exported to %s", path)

	if config.MongoURI != "" {
		if err := utils.ConnectMongo(config.MongoURI); err != nil {
			log.Printf("Warning: mongo sink disabled: %v", err)
		} else if err := utils.SaveRun(ctx, scraped, offers, failed); err != nil {
			log.Printf("Warning: failed to persist run: %v", err)
		}
	}

	if config.AWSBucketName != "" {
		uploadArtifacts(ctx, path, scraped)
	}

	if config.ReportEmail != "" {
		body := fmt.Sprintf("Listings scraped: %d\nListings failed: %d (%s)\nCatalog offers: %d\nWorkbook: %s\n",
			len(scraped), len(failed), strings.Join(failed, ", "), len(offers), path)
		if err := utils.SendRunReport(config.ReportEmail, "Offer reconciliation run", body); err != nil {
			log.Printf("Warning: failed to email report: %v", err)
		}
	}
}

// extractListings discovers ASINs on the search page and scrapes each
// product. A listing that fails after retries lands in the failed list and
// never aborts the batch.
func extractListings(lister *amazon.Scraper) ([]models.ScrapedOffer, []string) {
	var asins []string
	found := retry.Policy{Attempts: 3, Delay: 3 * time.Second, Label: "search page"}.Do(func() error {
		var err error
		asins, err = lister.SearchASINs(config.SearchQuery)
		return err
	})
	if !found {
		log.Printf("Warning: search page unavailable, skipping listing extraction")
		return nil, nil
	}
	log.Printf("Found %d ASINs on search page", len(asins))

	var scraped []models.ScrapedOffer
	var failed []string
	for _, asin := range asins {
		var offer *models.ScrapedOffer
		ok := retry.Policy{Attempts: 3, Delay: 3 * time.Second, Label: "ASIN " + asin}.Do(func() error {
			var err error
			offer, err = lister.ScrapeOffer(asin)
			return err
		})
		if !ok {
			log.Printf("Failed to scrape %s", asin)
			failed = append(failed, asin)
			continue
		}
		scraped = append(scraped, *offer)

		// pacing between product loads
		time.Sleep(time.Duration(2+rand.Float64()*2) * time.Second)
	}
	return scraped, failed
}

func uploadArtifacts(ctx context.Context, workbookPath string, scraped []models.ScrapedOffer) {
	f, err := os.Open(workbookPath)
	if err != nil {
		log.Printf("Warning: cannot open workbook for upload: %v", err)
		return
	}
	defer f.Close()

	prefix := "runs/" + time.Now().Format("20060102_150405")
	key := prefix + "/" + workbookPath
	if _, err := utils.UploadFileToS3(ctx, f, key, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		log.Printf("Warning: workbook upload failed: %v", err)
	} else {
		log.Printf("Workbook uploaded to s3://%s/%s", config.AWSBucketName, key)
	}

	var images []string
	for _, o := range scraped {
		images = append(images, o.Image)
	}
	archived := utils.ArchiveImages(ctx, images, prefix+"/images")
	log.Printf("Archived %d product images", len(archived))
}

// cookieDomain derives the cookie scope for the listing site, e.g.
// https://www.amazon.co.uk -> .amazon.co.uk
func cookieDomain(baseURL string) string {
	u, err := neturl.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return "." + strings.TrimPrefix(u.Hostname(), "www.")
}
