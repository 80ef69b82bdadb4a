package classify

import (
	"testing"

	"github.com/pricewatch/offer-reconciler/models"
)

func TestNormalizePackLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Twin Pack of 2", models.PackTwin},
		{"2-pack bundle", models.PackTwin},
		{"Double supply", models.PackTwin},
		{"Single 500ml", models.PackSingle},
		{"pack of 1", models.PackSingle},
		{"2x bottles", models.PackTwin},
		{"", models.NotAvailable},
		{"  Mystery Box ", "Mystery Box"},
	}
	for _, c := range cases {
		if got := NormalizePackLabel(c.in); got != c.want {
			t.Errorf("NormalizePackLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractFlavour(t *testing.T) {
	options := []models.Option{
		{Name: "Purchase Type", Value: "One-time"},
		{Name: "Flavour", Value: "Mango"},
	}
	if got := ExtractFlavour(options, "whatever"); got != "Mango" {
		t.Errorf("flavour-named option must win, got %q", got)
	}

	if got := ExtractFlavour(nil, "Symprove Strawberry 500ml"); got != "Strawberry" {
		t.Errorf("combined-text vocabulary fallback, got %q", got)
	}

	if got := ExtractFlavour(nil, "Symprove 12 week supply"); got != models.DefaultFlavour {
		t.Errorf("expected Default sentinel, got %q", got)
	}

	// empty option values never win over the vocabulary
	empty := []models.Option{{Name: "Flavour", Value: ""}}
	if got := ExtractFlavour(empty, "Mango refill"); got != "Mango" {
		t.Errorf("empty flavour option must be skipped, got %q", got)
	}
}

func TestPurchaseIntentIndependence(t *testing.T) {
	combined := "Subscribe & Save or one-time purchase"
	if !IsExplicitSubscription(combined, nil) {
		t.Fatalf("expected explicit subscription")
	}
	if !IsExplicitOneTime(combined, nil) {
		t.Fatalf("expected explicit one-time")
	}
}

func TestPurchaseIntentFromOptions(t *testing.T) {
	options := []models.Option{{Name: "Purchase option", Value: "Subscription"}}
	if !IsExplicitSubscription("Symprove 500ml", options) {
		t.Errorf("option pair must trigger subscription intent")
	}
	if IsExplicitOneTime("Symprove 500ml", options) {
		t.Errorf("unexpected one-time intent")
	}

	// a keyword in an option with an empty value does not count
	blank := []models.Option{{Name: "Subscription", Value: ""}}
	if IsExplicitSubscription("Symprove 500ml", blank) {
		t.Errorf("empty option value must be ignored")
	}
}
