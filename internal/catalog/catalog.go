// Package catalog provides the static item price sheet used when
// accounting a charge.
package catalog

import "github.com/shopspring/decimal"

// Catalog maps item keys to unit prices. Lookups of unknown items resolve
// to zero so ad-hoc items can still be accounted.
type Catalog struct {
	prices map[string]decimal.Decimal
}

// defaultSheet is the house price list.
var defaultSheet = map[string]string{
	"alarm":             "1.50",
	"pizza":             "6.00",
	"bred":              "2.00",
	"fish":              "15.00",
	"wine":              "4.00",
	"room-service-food": "9.99",
	"reception":         "0.00",
	"extra-cleaning":    "20.00",
}

// New returns a catalog with the default price sheet. Entries in overrides
// replace or extend the defaults; prices are given in major units.
func New(overrides map[string]float64) *Catalog {
	prices := make(map[string]decimal.Decimal, len(defaultSheet)+len(overrides))
	for item, price := range defaultSheet {
		prices[item] = decimal.RequireFromString(price)
	}
	for item, price := range overrides {
		prices[item] = decimal.NewFromFloat(price)
	}
	return &Catalog{prices: prices}
}

// Price returns the unit price for an item, or zero for unknown items.
func (c *Catalog) Price(item string) decimal.Decimal {
	if price, ok := c.prices[item]; ok {
		return price
	}
	return decimal.Zero
}

// Items returns the known item keys.
func (c *Catalog) Items() []string {
	items := make([]string, 0, len(c.prices))
	for item := range c.prices {
		items = append(items, item)
	}
	return items
}
