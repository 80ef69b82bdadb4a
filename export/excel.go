// Package export writes both output collections to a two-sheet workbook.
// Column order matches the normalized schema exactly; downstream
// comparison tooling reads the sheets positionally.
package export

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pricewatch/offer-reconciler/models"
)

var scrapedHeaders = []interface{}{
	"ASIN", "URL", "Title", "Brand", "Price Raw", "Price (GBP)",
	"Star Rating", "Total Ratings", "Flavour", "Size", "No. of Products",
	"Description", "Product Images",
}

var offerHeaders = []interface{}{
	"Product Name", "Description", "Flavour Name", "One-time Price",
	"Subscription Price", "Purchase Type", "Pack", "Product Images", "URL",
}

// WriteWorkbook saves both row sets to path, listing rows on the "Amazon"
// sheet and resolved catalog offers on the "Symprove" sheet.
func WriteWorkbook(path string, scraped []models.ScrapedOffer, offers []models.OfferRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Amazon"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &scrapedHeaders); err != nil {
		return err
	}
	for i, o := range scraped {
		var price interface{}
		if o.Price != nil {
			price = *o.Price
		}
		row := []interface{}{
			o.ASIN, o.URL, o.Title, o.Brand, o.PriceRaw, price,
			o.StarRating, o.TotalRatings, o.Flavour, o.Size,
			o.NumberOfItems, o.Description, o.Image,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	sheet = "Symprove"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &offerHeaders); err != nil {
		return err
	}
	for i, o := range offers {
		row := []interface{}{
			o.ProductName, o.Description, o.FlavourName, o.OneTimePrice,
			o.SubscriptionPrice, o.PurchaseType, o.Pack,
			strings.Join(o.Images, ", "), o.URL,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
