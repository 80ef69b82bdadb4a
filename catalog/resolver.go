package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pricewatch/offer-reconciler/classify"
	"github.com/pricewatch/offer-reconciler/models"
	"github.com/pricewatch/offer-reconciler/textnorm"
)

const descriptionLimit = 400

var (
	rePromo     = regexp.MustCompile(`(?i)\b(foc|marketing|pr)\b`)
	reShotGlass = regexp.MustCompile(`(?i)shot\s*glass`)
	reDaily     = regexp.MustCompile(`(?i)\bdaily\b|\bdaily-essential\b`)
	reOnTheGo   = regexp.MustCompile(`(?i)\bon\s*the\s*go\b`)
	rePackValue = regexp.MustCompile(`(?i)single|twin|pack|\d+\s*x|\d+\s*ml`)
	reFlavour   = regexp.MustCompile(`(?i)flavour|flavor|taste|variant`)
)

// BuildVariants converts the feed's variants into classified RawVariants.
// Option names come from the product's options array positionally; a
// variant always carries three slots, unused ones with empty values.
func BuildVariants(p Product) []models.RawVariant {
	var variants []models.RawVariant
	for _, v := range p.Variants {
		values := []string{v.Option1, v.Option2, v.Option3}
		options := make([]models.Option, 0, 3)
		for i, val := range values {
			name := fmt.Sprintf("option%d", i+1)
			if i < len(p.Options) && p.Options[i] != "" {
				name = string(p.Options[i])
			}
			options = append(options, models.Option{Name: name, Value: val})
		}

		title := strings.TrimSpace(v.Title)
		parts := append([]string{p.Title, title}, values...)
		combined := strings.TrimSpace(strings.Join(parts, " "))

		variants = append(variants, models.RawVariant{
			ID:                   v.ID,
			Title:                title,
			Combined:             combined,
			Options:              options,
			Price:                parsePrice(string(v.Price)),
			CompareAt:            parsePrice(string(v.CompareAtPrice)),
			ExplicitSubscription: classify.IsExplicitSubscription(combined, options),
			ExplicitOneTime:      classify.IsExplicitOneTime(combined, options),
		})
	}
	return variants
}

// ResolveProduct turns one feed product into its offer records. Promotional
// and internal products yield nothing. The result depends only on the
// variant values, not on their input order.
func ResolveProduct(p Product, storeURL string) []models.OfferRecord {
	if rePromo.MatchString(p.Title) || rePromo.MatchString(p.Handle) {
		return nil
	}

	desc := textnorm.StripMarkup(p.BodyHTML)
	if desc == "" {
		desc = p.Title
	}
	desc = textnorm.Truncate(desc, descriptionLimit)

	var images []string
	for _, img := range p.Images {
		if img.Src != "" {
			images = append(images, img.Src)
		}
	}
	url := storeURL + "/products/" + p.Handle

	variants := BuildVariants(p)

	// Shot glass products are pack merchandise: one record per variant,
	// never a subscription price.
	if reShotGlass.MatchString(p.Title) {
		var rows []models.OfferRecord
		for _, v := range variants {
			rows = append(rows, resolvePackVariant(p, v, desc, images, url))
		}
		return rows
	}

	groups, order := groupByFlavour(variants)

	var rows []models.OfferRecord
	for _, flavour := range order {
		rows = append(rows, resolveGroup(p, flavour, groups[flavour], desc, images, url))
	}
	return rows
}

func resolvePackVariant(p Product, v models.RawVariant, desc string, images []string, url string) models.OfferRecord {
	flavour := models.DefaultFlavour
	for _, opt := range v.Options {
		if opt.Value != "" && reFlavour.MatchString(opt.Name) {
			flavour = opt.Value
			break
		}
	}

	var packCandidate string
	for _, opt := range v.Options {
		if opt.Value != "" && rePackValue.MatchString(opt.Value) {
			packCandidate = strings.TrimSpace(opt.Value)
			break
		}
	}
	if packCandidate == "" {
		packCandidate = v.Title
	}

	return models.OfferRecord{
		ProductName:       p.Title,
		Description:       desc,
		FlavourName:       flavour,
		OneTimePrice:      formatPrice(v.Price),
		SubscriptionPrice: formatPrice(nil),
		PurchaseType:      models.PurchasePackBased,
		Pack:              classify.NormalizePackLabel(packCandidate),
		Images:            images,
		URL:               url,
	}
}

func groupByFlavour(variants []models.RawVariant) (map[string][]models.RawVariant, []string) {
	groups := make(map[string][]models.RawVariant)
	var order []string
	for _, v := range variants {
		flavour := classify.ExtractFlavour(v.Options, v.Combined)
		if _, seen := groups[flavour]; !seen {
			order = append(order, flavour)
		}
		groups[flavour] = append(groups[flavour], v)
	}
	return groups, order
}

func resolveGroup(p Product, flavour string, gvars []models.RawVariant, desc string, images []string, url string) models.OfferRecord {
	var subsPrice, onePrice *float64

	// Subscription tiers vary by commitment length; the highest advertised
	// price is the non-discounted anchor. One-time takes the lowest
	// walk-in price point.
	if prices := pricesWhere(gvars, func(v models.RawVariant) bool { return v.ExplicitSubscription }); len(prices) > 0 {
		subsPrice = ptr(prices[len(prices)-1])
	}
	if prices := pricesWhere(gvars, func(v models.RawVariant) bool { return v.ExplicitOneTime }); len(prices) > 0 {
		onePrice = ptr(prices[0])
	}

	// Daily-essential catalogs omit reliable subscription keywords. The
	// override applies only with exactly two distinct prices; the rule is
	// vendor-catalog specific and deliberately not generalized.
	if reDaily.MatchString(p.Title) || reDaily.MatchString(p.Handle) {
		if distinct := distinctPrices(gvars, false); len(distinct) == 2 {
			subsPrice, onePrice = ptr(distinct[1]), ptr(distinct[0])
		}
	}

	var purchaseType string
	if reOnTheGo.MatchString(p.Title) {
		distinct := distinctPrices(gvars, true)
		onePrice, subsPrice = nil, nil
		if len(distinct) > 0 {
			onePrice = ptr(distinct[0])
		}
		purchaseType = models.PurchaseOneTimeOnTheGo
	} else {
		switch {
		case nonZero(onePrice) && nonZero(subsPrice):
			purchaseType = models.PurchaseBoth
		case nonZero(subsPrice):
			purchaseType = models.PurchaseSubscriptionOnly
		default:
			purchaseType = models.PurchaseOneTimeOnly
		}
	}

	var titles strings.Builder
	for _, v := range gvars {
		titles.WriteString(v.Title)
	}

	return models.OfferRecord{
		ProductName:       p.Title,
		Description:       desc,
		FlavourName:       flavour,
		OneTimePrice:      formatPrice(onePrice),
		SubscriptionPrice: formatPrice(subsPrice),
		PurchaseType:      purchaseType,
		Pack:              classify.NormalizePackLabel(titles.String()),
		Images:            images,
		URL:               url,
	}
}

// pricesWhere collects the non-zero prices of matching variants, sorted
// ascending.
func pricesWhere(gvars []models.RawVariant, match func(models.RawVariant) bool) []float64 {
	var prices []float64
	for _, v := range gvars {
		if match(v) && nonZero(v.Price) {
			prices = append(prices, *v.Price)
		}
	}
	sort.Float64s(prices)
	return prices
}

// distinctPrices returns the sorted distinct prices of a group. A zero
// price counts as present only when excludeZero is false; the daily
// override counts it, the on-the-go minimum does not.
func distinctPrices(gvars []models.RawVariant, excludeZero bool) []float64 {
	seen := make(map[float64]bool)
	var prices []float64
	for _, v := range gvars {
		if v.Price == nil || (excludeZero && *v.Price == 0) {
			continue
		}
		if !seen[*v.Price] {
			seen[*v.Price] = true
			prices = append(prices, *v.Price)
		}
	}
	sort.Float64s(prices)
	return prices
}

func parsePrice(s string) *float64 {
	if v, ok := textnorm.ParseFloatSafe(s); ok {
		return &v
	}
	return nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return models.NotAvailable
	}
	return fmt.Sprintf("£%.2f", *p)
}

func nonZero(p *float64) bool {
	return p != nil && *p != 0
}

func ptr(v float64) *float64 {
	return &v
}
