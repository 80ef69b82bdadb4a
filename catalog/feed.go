// Package catalog normalizes a Shopify-style products.json feed into
// resolved offer records. The feed's purchase-option semantics are
// ambiguous, so each variant is classified and then resolved per flavour
// group by explicit precedence rules.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pricewatch/offer-reconciler/models"
)

// Product is one product entry of the vendor feed. Missing fields decode
// to zero values, never to errors.
type Product struct {
	Title    string       `json:"title"`
	Handle   string       `json:"handle"`
	BodyHTML string       `json:"body_html"`
	Images   []Image      `json:"images"`
	Options  []OptionName `json:"options"`
	Variants []Variant    `json:"variants"`
}

type Image struct {
	Src string `json:"src"`
}

// Variant mirrors the feed's purchase option shape. Prices arrive as
// strings on Shopify feeds but some stores send bare numbers, so both are
// accepted.
type Variant struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Price          FlexString `json:"price"`
	CompareAtPrice FlexString `json:"compare_at_price"`
	Option1        string     `json:"option1"`
	Option2        string     `json:"option2"`
	Option3        string     `json:"option3"`
}

// OptionName tolerates both feed shapes for the options array:
// [{"name": "Flavour"}] and ["Flavour"].
type OptionName string

func (o *OptionName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = OptionName(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Name == "" {
		obj.Name = "Option"
	}
	*o = OptionName(obj.Name)
	return nil
}

// FlexString decodes a JSON string, number or null into a plain string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Client fetches and resolves the vendor catalog.
type Client struct {
	HTTP     *http.Client
	StoreURL string
}

func NewClient(storeURL string) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		StoreURL: storeURL,
	}
}

// ExtractOffers fetches the full catalog and resolves it into offer
// records. Total source unavailability degrades to an empty result with a
// logged warning; it never propagates an error to the caller.
func (c *Client) ExtractOffers(ctx context.Context) []models.OfferRecord {
	products, err := c.fetchProducts(ctx)
	if err != nil {
		log.Printf("Warning: catalog feed unavailable: %v", err)
		return nil
	}
	log.Printf("Found %d products in catalog feed", len(products))

	var rows []models.OfferRecord
	for _, p := range products {
		rows = append(rows, ResolveProduct(p, c.StoreURL)...)
	}
	return rows
}

func (c *Client) fetchProducts(ctx context.Context) ([]Product, error) {
	url := c.StoreURL + "/collections/all/products.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	var payload struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}
	return payload.Products, nil
}
