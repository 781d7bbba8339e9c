package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/toko-pricing/internal/pricing"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Record is the persisted form of a product.
type Record struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name,omitempty"`
	Price       pricing.Money `json:"price" validate:"gte=0"`
	UnitsInBulk int           `json:"unitsInBulk,omitempty" validate:"omitempty,gte=2"`
	PriceInBulk pricing.Money `json:"priceInBulk,omitempty" validate:"gte=0"`
}

// Product is an immutable purchasable item. Line items and promotions share it by pointer.
type Product struct {
	id          string
	name        string
	price       pricing.Money
	unitsInBulk int
	priceInBulk pricing.Money
}

// NewProduct validates rec and builds a Product from it.
func NewProduct(rec Record) (*Product, error) {
	if err := recordValidator().Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("%w: product %q field %s failed %s", ErrImportFormat, rec.ID, fe.Field(), fe.Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if rec.UnitsInBulk == 0 && rec.PriceInBulk != 0 {
		return nil, fmt.Errorf("%w: product %q has bulk price without bulk units", ErrImportFormat, rec.ID)
	}
	return &Product{
		id:          rec.ID,
		name:        rec.Name,
		price:       rec.Price,
		unitsInBulk: rec.UnitsInBulk,
		priceInBulk: rec.PriceInBulk,
	}, nil
}

// MustProduct is NewProduct for fixtures; it panics on invalid input.
func MustProduct(rec Record) *Product {
	p, err := NewProduct(rec)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Product) ID() string                 { return p.id }
func (p *Product) Name() string               { return p.name }
func (p *Product) Price() pricing.Money       { return p.price }
func (p *Product) UnitsInBulk() int           { return p.unitsInBulk }
func (p *Product) PriceInBulk() pricing.Money { return p.priceInBulk }

// HasBulkPricing reports whether the product offers a bulk price.
func (p *Product) HasBulkPricing() bool { return p.unitsInBulk > 0 }

// Record exports the product into its persisted form.
func (p *Product) Record() Record {
	return Record{
		ID:          p.id,
		Name:        p.name,
		Price:       p.price,
		UnitsInBulk: p.unitsInBulk,
		PriceInBulk: p.priceInBulk,
	}
}
