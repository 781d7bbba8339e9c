package checkout

import (
	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/promo"
)

// Checkout groups line items, one per product, in the order products were first added.
// Every new line item receives the same promotion list.
type Checkout struct {
	promos []promo.Promotion
	order  []string
	items  map[string]*LineItem
}

var _ Quote = (*Checkout)(nil)

// New returns an empty checkout offering promos to each line item.
func New(promos []promo.Promotion) *Checkout {
	ps := make([]promo.Promotion, len(promos))
	copy(ps, promos)
	return &Checkout{promos: ps, items: make(map[string]*LineItem)}
}

// Add increases the product's quantity by quantity, creating its line item when needed.
func (c *Checkout) Add(product *catalog.Product, quantity int) *LineItem {
	if li, ok := c.items[product.ID()]; ok {
		return li.QuantityDelta(quantity)
	}
	li := NewLineItem(product, quantity, c.promos)
	c.items[product.ID()] = li
	c.order = append(c.order, product.ID())
	return li
}

// Remove decreases the product's quantity. The line stays listed at 0 until Prune.
func (c *Checkout) Remove(product *catalog.Product, quantity int) *LineItem {
	li, ok := c.items[product.ID()]
	if !ok {
		return nil
	}
	return li.QuantityDelta(-quantity)
}

// LineItem returns the line for productID, if any.
func (c *Checkout) LineItem(productID string) (*LineItem, bool) {
	li, ok := c.items[productID]
	return li, ok
}

// LineItems lists the lines in insertion order.
func (c *Checkout) LineItems() []*LineItem {
	out := make([]*LineItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Prune drops lines whose quantity reached 0.
func (c *Checkout) Prune() {
	kept := c.order[:0]
	for _, id := range c.order {
		if c.items[id].Quantity() == 0 {
			delete(c.items, id)
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
}

// Summary adds up every line item.
func (c *Checkout) Summary() pricing.Summary {
	quotes := make([]pricing.Quoter, 0, len(c.order))
	for _, li := range c.LineItems() {
		quotes = append(quotes, li)
	}
	return pricing.Summarize(quotes...)
}

func (c *Checkout) Amount() pricing.Money   { return c.Summary().Amount }
func (c *Checkout) Discount() pricing.Money { return c.Summary().Discount }
func (c *Checkout) Total() pricing.Money    { return c.Summary().Total }
