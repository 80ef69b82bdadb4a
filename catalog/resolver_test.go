package catalog

import (
	"reflect"
	"sort"
	"testing"

	"github.com/pricewatch/offer-reconciler/models"
)

const testStoreURL = "https://www.symprove.com"

func variant(id int64, title, price string, opts ...string) Variant {
	v := Variant{ID: id, Title: title, Price: FlexString(price)}
	if len(opts) > 0 {
		v.Option1 = opts[0]
	}
	if len(opts) > 1 {
		v.Option2 = opts[1]
	}
	if len(opts) > 2 {
		v.Option3 = opts[2]
	}
	return v
}

func TestDailyEssentialOverride(t *testing.T) {
	p := Product{
		Title:  "Daily Essential",
		Handle: "daily-essential",
		Variants: []Variant{
			variant(1, "One-time", "20.00"),
			variant(2, "Subscribe", "18.00"),
		},
	}

	rows := ResolveProduct(p, testStoreURL)
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	r := rows[0]
	if r.OneTimePrice != "£18.00" {
		t.Errorf("one-time price = %q, want £18.00", r.OneTimePrice)
	}
	if r.SubscriptionPrice != "£20.00" {
		t.Errorf("subscription price = %q, want £20.00", r.SubscriptionPrice)
	}
	if r.PurchaseType != models.PurchaseBoth {
		t.Errorf("purchase type = %q, want %q", r.PurchaseType, models.PurchaseBoth)
	}
}

func TestDailyOverrideNeedsExactlyTwoPrices(t *testing.T) {
	p := Product{
		Title:  "Daily Essential",
		Handle: "daily-essential",
		Variants: []Variant{
			variant(1, "One-time", "20.00"),
			variant(2, "Subscribe", "18.00"),
			variant(3, "Subscribe 12 weeks", "16.00"),
		},
	}

	rows := ResolveProduct(p, testStoreURL)
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	r := rows[0]
	// three distinct prices: no override, explicit classification decides.
	// Subscription anchors at the highest explicit-sub price.
	if r.SubscriptionPrice != "£18.00" {
		t.Errorf("subscription price = %q, want £18.00", r.SubscriptionPrice)
	}
	if r.OneTimePrice != "£20.00" {
		t.Errorf("one-time price = %q, want £20.00", r.OneTimePrice)
	}
}

func TestShotGlassEmitsPerVariant(t *testing.T) {
	p := Product{
		Title:   "Shot Glass Mango Twin",
		Handle:  "shot-glass-mango-twin",
		Options: []OptionName{"Flavour"},
		Variants: []Variant{
			variant(1, "Twin Pack", "9.99", "Mango"),
		},
	}

	rows := ResolveProduct(p, testStoreURL)
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	r := rows[0]
	if r.FlavourName != "Mango" {
		t.Errorf("flavour = %q, want Mango", r.FlavourName)
	}
	if r.Pack != models.PackTwin {
		t.Errorf("pack = %q, want %q", r.Pack, models.PackTwin)
	}
	if r.PurchaseType != models.PurchasePackBased {
		t.Errorf("purchase type = %q, want %q", r.PurchaseType, models.PurchasePackBased)
	}
	if r.SubscriptionPrice != models.NotAvailable {
		t.Errorf("shot glass products never carry a subscription price, got %q", r.SubscriptionPrice)
	}
	if r.OneTimePrice != "£9.99" {
		t.Errorf("one-time price = %q, want £9.99", r.OneTimePrice)
	}
}

func TestPromotionalProductsExcluded(t *testing.T) {
	for _, p := range []Product{
		{Title: "Symprove PR Sample", Handle: "symprove-sample", Variants: []Variant{variant(1, "One-time", "1.00")}},
		{Title: "Symprove", Handle: "symprove-pr-pack", Variants: []Variant{variant(1, "One-time", "1.00")}},
		{Title: "FOC 4 week", Handle: "foc-4-week", Variants: []Variant{variant(1, "One-time", "0.00")}},
		{Title: "Marketing bundle", Handle: "marketing-bundle", Variants: []Variant{variant(1, "One-time", "1.00")}},
	} {
		if rows := ResolveProduct(p, testStoreURL); rows != nil {
			t.Errorf("product %q/%q must be excluded, got %d records", p.Title, p.Handle, len(rows))
		}
	}

	// "pr" must match as a whole word only
	p := Product{Title: "Probiotic supply", Handle: "probiotic-supply", Variants: []Variant{variant(1, "One-time purchase", "10.00")}}
	if rows := ResolveProduct(p, testStoreURL); len(rows) != 1 {
		t.Errorf("substring 'pr' must not exclude, got %d records", len(rows))
	}
}

func TestOnTheGoOverride(t *testing.T) {
	p := Product{
		Title:  "Symprove On The Go",
		Handle: "symprove-on-the-go",
		Variants: []Variant{
			variant(1, "Subscribe monthly", "6.00"),
			variant(2, "Subscribe weekly", "5.00"),
		},
	}

	rows := ResolveProduct(p, testStoreURL)
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	r := rows[0]
	if r.PurchaseType != models.PurchaseOneTimeOnTheGo {
		t.Errorf("purchase type = %q, want %q", r.PurchaseType, models.PurchaseOneTimeOnTheGo)
	}
	if r.SubscriptionPrice != models.NotAvailable {
		t.Errorf("subscription price must be forced to N/A, got %q", r.SubscriptionPrice)
	}
	if r.OneTimePrice != "£5.00" {
		t.Errorf("one-time price = %q, want lowest distinct £5.00", r.OneTimePrice)
	}
}

func TestFlavourGrouping(t *testing.T) {
	p := Product{
		Title:   "Symprove 12 Week Supply",
		Handle:  "symprove-12-week",
		Options: []OptionName{"Flavour", "Purchase Type"},
		Variants: []Variant{
			variant(1, "Mango / One-time", "79.99", "Mango", "One-time purchase"),
			variant(2, "Mango / Subscribe", "63.99", "Mango", "Subscribe & Save"),
			variant(3, "Original / One-time", "79.99", "Original", "One-time purchase"),
		},
	}

	rows := ResolveProduct(p, testStoreURL)
	if len(rows) != 2 {
		t.Fatalf("expected 2 flavour groups, got %d", len(rows))
	}

	byFlavour := make(map[string]models.OfferRecord)
	for _, r := range rows {
		byFlavour[r.FlavourName] = r
	}

	mango, ok := byFlavour["Mango"]
	if !ok {
		t.Fatalf("missing Mango group")
	}
	if mango.PurchaseType != models.PurchaseBoth || mango.OneTimePrice != "£79.99" || mango.SubscriptionPrice != "£63.99" {
		t.Errorf("Mango resolved as %+v", mango)
	}

	original, ok := byFlavour["Original"]
	if !ok {
		t.Fatalf("missing Original group")
	}
	if original.PurchaseType != models.PurchaseOneTimeOnly {
		t.Errorf("Original purchase type = %q, want %q", original.PurchaseType, models.PurchaseOneTimeOnly)
	}
	if original.SubscriptionPrice != models.NotAvailable {
		t.Errorf("Original subscription price = %q, want N/A", original.SubscriptionPrice)
	}
}

func TestResolutionOrderIndependent(t *testing.T) {
	p := Product{
		Title:   "Symprove 12 Week Supply",
		Handle:  "symprove-12-week",
		Options: []OptionName{"Flavour", "Purchase Type"},
		Variants: []Variant{
			variant(1, "Mango / One-time", "79.99", "Mango", "One-time purchase"),
			variant(2, "Mango / Subscribe", "63.99", "Mango", "Subscribe & Save"),
			variant(3, "Original / One-time", "79.99", "Original", "One-time purchase"),
			variant(4, "Original / Subscribe", "59.99", "Original", "Subscribe & Save"),
		},
	}

	first := ResolveProduct(p, testStoreURL)

	reversed := p
	reversed.Variants = make([]Variant, len(p.Variants))
	for i, v := range p.Variants {
		reversed.Variants[len(p.Variants)-1-i] = v
	}
	second := ResolveProduct(reversed, testStoreURL)

	sortRecords(first)
	sortRecords(second)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("record sets differ under input shuffling:\n%+v\n%+v", first, second)
	}
}

func TestPurchaseTypePriceInvariant(t *testing.T) {
	products := []Product{
		{
			Title:   "Symprove 12 Week Supply",
			Handle:  "symprove-12-week",
			Options: []OptionName{"Flavour", "Purchase Type"},
			Variants: []Variant{
				variant(1, "Mango / One-time", "79.99", "Mango", "One-time purchase"),
				variant(2, "Mango / Subscribe", "63.99", "Mango", "Subscribe & Save"),
				variant(3, "Original / Subscribe", "59.99", "Original", "Subscribe & Save"),
			},
		},
		{
			Title:  "Daily Essential",
			Handle: "daily-essential",
			Variants: []Variant{
				variant(1, "One-time", "20.00"),
				variant(2, "Subscribe", "18.00"),
			},
		},
	}

	for _, p := range products {
		for _, r := range ResolveProduct(p, testStoreURL) {
			oneSet := r.OneTimePrice != models.NotAvailable
			subSet := r.SubscriptionPrice != models.NotAvailable
			switch r.PurchaseType {
			case models.PurchaseBoth:
				if !oneSet || !subSet {
					t.Errorf("Both requires two prices: %+v", r)
				}
			case models.PurchaseOneTimeOnly:
				if !oneSet || subSet {
					t.Errorf("One-time only requires exactly the one-time price: %+v", r)
				}
			case models.PurchaseSubscriptionOnly:
				if oneSet || !subSet {
					t.Errorf("Subscription only requires exactly the subscription price: %+v", r)
				}
			}
		}
	}
}

func TestDescriptionFallsBackToTitle(t *testing.T) {
	p := Product{
		Title:    "Symprove Starter",
		Handle:   "symprove-starter",
		BodyHTML: "<p></p>",
		Variants: []Variant{variant(1, "One-time purchase", "29.99")},
	}
	rows := ResolveProduct(p, testStoreURL)
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	if rows[0].Description != "Symprove Starter" {
		t.Errorf("description = %q, want title fallback", rows[0].Description)
	}
	if rows[0].URL != testStoreURL+"/products/symprove-starter" {
		t.Errorf("url = %q", rows[0].URL)
	}
}

func sortRecords(rows []models.OfferRecord) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].FlavourName < rows[j].FlavourName })
}
