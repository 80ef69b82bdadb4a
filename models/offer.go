package models

// Sentinel values used across both extraction sides. A missing field is a
// normal outcome, not an error, so it is carried as one of these rather
// than as a nil that downstream export would have to special-case.
const (
	NotAvailable     = "N/A"
	DefaultFlavour   = "Default"
	SeeBuyingOptions = "See Buying Options"
)

// Purchase types emitted on resolved offers
const (
	PurchaseBoth             = "Both"
	PurchaseSubscriptionOnly = "Subscription only"
	PurchaseOneTimeOnly      = "One-time only"
	PurchasePackBased        = "Pack-based"
	PurchaseOneTimeOnTheGo   = "One-time (On The Go)"
)

// Normalized pack labels
const (
	PackSingle = "Single Pack"
	PackTwin   = "Twin Pack"
)

// Option is a single named purchase option on a variant. Options are kept
// as an ordered slice, not a map: names are not unique across products and
// resolution must not depend on iteration order.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawVariant is one purchase option from the vendor feed, annotated with
// the derived purchase-intent booleans. Both booleans may be false, which
// signals an ambiguous variant left to the resolver's override rules.
type RawVariant struct {
	ID                   int64    `json:"id"`
	Title                string   `json:"title"`
	Combined             string   `json:"combined"`
	Options              []Option `json:"options"`
	Price                *float64 `json:"price"`
	CompareAt            *float64 `json:"compare_at_price"`
	ExplicitSubscription bool     `json:"explicit_subscription"`
	ExplicitOneTime      bool     `json:"explicit_one_time"`
}

// OfferRecord is the resolved catalog-side output row, one per flavour
// group (or per variant for pack-based products).
type OfferRecord struct {
	ProductName       string   `json:"product_name" bson:"product_name"`
	Description       string   `json:"description" bson:"description"`
	FlavourName       string   `json:"flavour_name" bson:"flavour_name"`
	OneTimePrice      string   `json:"one_time_price" bson:"one_time_price"`
	SubscriptionPrice string   `json:"subscription_price" bson:"subscription_price"`
	PurchaseType      string   `json:"purchase_type" bson:"purchase_type"`
	Pack              string   `json:"pack" bson:"pack"`
	Images            []string `json:"images" bson:"images"`
	URL               string   `json:"url" bson:"url"`
}

// ScrapedOffer is the listing-side output row, one per ASIN. Created once
// per successfully loaded product document and never mutated afterwards.
type ScrapedOffer struct {
	ASIN          string   `json:"asin" bson:"asin"`
	URL           string   `json:"url" bson:"url"`
	Title         string   `json:"title" bson:"title"`
	Brand         string   `json:"brand" bson:"brand"`
	PriceRaw      string   `json:"price_raw" bson:"price_raw"`
	Price         *float64 `json:"price" bson:"price"`
	StarRating    string   `json:"star_rating" bson:"star_rating"`
	TotalRatings  string   `json:"total_ratings" bson:"total_ratings"`
	Flavour       string   `json:"flavour" bson:"flavour"`
	Size          string   `json:"size" bson:"size"`
	NumberOfItems string   `json:"number_of_items" bson:"number_of_items"`
	Description   string   `json:"description" bson:"description"`
	Image         string   `json:"image" bson:"image"`
}
