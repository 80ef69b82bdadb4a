package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	ListingBaseURL   string
	SearchQuery      string
	SearchRefinement string
	Postcode         string
	StoreURL         string
	Headless         bool
	Proxies          []string

	MongoURI      string
	AWSRegion     string
	AWSBucketName string
	ReportEmail   string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	ListingBaseURL = os.Getenv("LISTING_BASE_URL")
	if ListingBaseURL == "" {
		ListingBaseURL = "https://www.amazon.co.uk"
	}

	SearchQuery = os.Getenv("SEARCH_QUERY")
	if SearchQuery == "" {
		SearchQuery = "symprove"
	}

	SearchRefinement = os.Getenv("SEARCH_REFINEMENT")
	if SearchRefinement == "" {
		SearchRefinement = "p_89:Symprove"
	}

	Postcode = os.Getenv("POSTCODE")
	if Postcode == "" {
		Postcode = "SW1A1AA"
	}

	StoreURL = os.Getenv("STORE_URL")
	if StoreURL == "" {
		StoreURL = "https://www.symprove.com"
	}

	Headless = os.Getenv("HEADLESS") != "false"

	Proxies = nil
	if raw := os.Getenv("PROXIES"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				Proxies = append(Proxies, p)
			}
		}
	}

	// Optional sinks; each stays disabled while its variable is unset.
	MongoURI = os.Getenv("MONGO_URI")
	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "eu-west-2"
	}
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
	ReportEmail = os.Getenv("REPORT_EMAIL")
}
