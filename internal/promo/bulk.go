package promo

import (
	"fmt"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// BulkDiscount charges the product's bulk price for every whole bundle of
// UnitsInBulk units. Units outside a whole bundle pay the regular price.
type BulkDiscount struct {
	description string
	target      *catalog.Product
	exclusive   bool
}

// NewBulkDiscount builds a bulk rule for target. An exclusive rule only applies
// when no earlier promotion already applies to the line item.
func NewBulkDiscount(description string, target *catalog.Product, exclusive bool) *BulkDiscount {
	return &BulkDiscount{description: description, target: target, exclusive: exclusive}
}

// Target returns the product the rule applies to.
func (b *BulkDiscount) Target() *catalog.Product { return b.target }

// Exclusive reports whether the rule refuses to stack.
func (b *BulkDiscount) Exclusive() bool { return b.exclusive }

// Description renders e.g. "Bulk discount (3 for 2.50)". The bulk price is shown in
// major units via pricing.Format, not as the raw minor-unit value stored on the product.
func (b *BulkDiscount) Description() string {
	if b.target == nil {
		return b.description
	}
	return fmt.Sprintf("%s (%d for %s)", b.description, b.target.UnitsInBulk(), pricing.Format(b.target.PriceInBulk()))
}

// LineItemDiscount implements Promotion.
func (b *BulkDiscount) LineItemDiscount(item LineItem) pricing.Money {
	if item == nil || b.target == nil {
		return 0
	}
	subject := item.Product()
	if subject != b.target {
		return 0
	}

	if b.exclusive && len(item.ApplicablePromotions()) > 0 {
		return 0
	}

	quantity := item.Quantity()
	threshold := subject.UnitsInBulk()
	if threshold <= 0 || quantity < threshold {
		return 0
	}

	// Truncating division matches floor here: every operand is non-negative.
	quantityInPromo := pricing.Money(quantity / threshold * threshold)
	bundleSaving := subject.Price()*pricing.Money(threshold) - subject.PriceInBulk()
	if bundleSaving <= 0 {
		return 0
	}
	return quantityInPromo * bundleSaving / pricing.Money(threshold)
}
