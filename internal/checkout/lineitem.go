package checkout

import (
	"math"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/promo"
)

// Quote is anything that can be priced: a single line item or a whole checkout.
type Quote interface {
	Amount() pricing.Money
	Discount() pricing.Money
	Total() pricing.Money
}

// discountCache memoizes the last calculation. Any quantity change drops it entirely.
type discountCache struct {
	valid      bool
	discount   pricing.Money
	applicable []promo.Promotion
}

// LineItem pairs a product with a quantity and the promotions available to it.
// The discount is calculated lazily and reused until the quantity changes.
// A LineItem is not safe for concurrent use.
type LineItem struct {
	product   *catalog.Product
	quantity  int
	available []promo.Promotion
	cache     discountCache
}

var _ promo.LineItem = (*LineItem)(nil)

// NewLineItem builds a line item. A negative quantity is stored as 0.
func NewLineItem(product *catalog.Product, quantity int, promos []promo.Promotion) *LineItem {
	if quantity < 0 {
		quantity = 0
	}
	available := make([]promo.Promotion, len(promos))
	copy(available, promos)
	return &LineItem{product: product, quantity: quantity, available: available}
}

// Product returns the product of the line.
func (li *LineItem) Product() *catalog.Product { return li.product }

// Quantity returns the current number of units.
func (li *LineItem) Quantity() int { return li.quantity }

// QuantityDelta adds delta to the quantity, clamping at 0 and at math.MaxInt,
// and drops the cached discount.
func (li *LineItem) QuantityDelta(delta int) *LineItem {
	switch {
	case delta > 0 && li.quantity > math.MaxInt-delta:
		li.quantity = math.MaxInt
	case li.quantity+delta > 0:
		li.quantity += delta
	default:
		li.quantity = 0
	}
	li.cache = discountCache{}
	return li
}

// Amount is the undiscounted price: unit price times quantity.
func (li *LineItem) Amount() pricing.Money {
	if li.product == nil {
		return 0
	}
	return li.product.Price() * pricing.Money(li.quantity)
}

// Discount returns the total discount of the applicable promotions, capped at Amount.
func (li *LineItem) Discount() pricing.Money {
	if !li.cache.valid {
		li.calculate()
	}
	return li.cache.discount
}

// Total is Amount minus Discount.
func (li *LineItem) Total() pricing.Money {
	return li.Amount() - li.Discount()
}

// AvailablePromotions returns every configured promotion in evaluation order.
func (li *LineItem) AvailablePromotions() []promo.Promotion {
	out := make([]promo.Promotion, len(li.available))
	copy(out, li.available)
	return out
}

// ApplicablePromotions returns the promotions that contributed a positive discount,
// in evaluation order. While a calculation is running it reports the promotions
// accepted so far, which is what exclusive rules inspect.
func (li *LineItem) ApplicablePromotions() []promo.Promotion {
	if !li.cache.valid {
		li.calculate()
	}
	out := make([]promo.Promotion, len(li.cache.applicable))
	copy(out, li.cache.applicable)
	return out
}

func (li *LineItem) calculate() {
	// valid is set first so promotions can read the partial result without recursing.
	li.cache = discountCache{valid: true}

	for _, p := range li.available {
		if p == nil {
			continue
		}
		discount := p.LineItemDiscount(li)
		if discount > 0 {
			li.cache.applicable = append(li.cache.applicable, p)
			li.cache.discount += discount
		}
	}

	if amount := li.Amount(); li.cache.discount > amount {
		li.cache.discount = amount
	}
}
