package promo

import (
	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// LineItem is the read-only view of a cart line a promotion evaluates.
// ApplicablePromotions returns the promotions accepted so far in the current calculation.
type LineItem interface {
	Product() *catalog.Product
	Quantity() int
	ApplicablePromotions() []Promotion
}

// Promotion is a discount rule evaluable against a line item.
// Implementations must be immutable and must not mutate the item they inspect.
type Promotion interface {
	Description() string
	// LineItemDiscount returns the discount in minor units; 0 means the rule does not apply.
	LineItemDiscount(item LineItem) pricing.Money
}

// BulkRulesFor builds one bulk discount per catalog product that offers bulk pricing,
// ordered by product id.
func BulkRulesFor(c *catalog.Catalog, description string, exclusive bool) []Promotion {
	products := c.Products()
	rules := make([]Promotion, 0, len(products))
	for _, p := range products {
		if !p.HasBulkPricing() {
			continue
		}
		rules = append(rules, NewBulkDiscount(description, p, exclusive))
	}
	return rules
}
