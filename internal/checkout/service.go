package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/promo"
)

// MaxQuantity bounds the units of one product in a quote so line amounts stay far from int64 overflow.
const MaxQuantity = 1_000_000

// ItemInput is one requested product and quantity.
type ItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=1000000"`
}

// Input is the body of a quote request.
type Input struct {
	Items []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// LineOutput describes one priced line item.
type LineOutput struct {
	ProductID  string        `json:"productId"`
	Name       string        `json:"name,omitempty"`
	Quantity   int           `json:"quantity"`
	UnitPrice  pricing.Money `json:"unitPrice"`
	Amount     pricing.Money `json:"amount"`
	Discount   pricing.Money `json:"discount"`
	Total      pricing.Money `json:"total"`
	Promotions []string      `json:"promotions"`
}

// Output is a priced quote.
type Output struct {
	Lines   []LineOutput    `json:"lines"`
	Summary pricing.Summary `json:"summary"`
}

// Service prices quote requests against the catalog and configured promotions.
type Service struct {
	Catalog    *catalog.Catalog
	Promotions []promo.Promotion
	Metrics    *obs.PricingMetrics
	Logger     zerolog.Logger

	validate *validator.Validate
}

// NewService constructs a quote Service.
func NewService(c *catalog.Catalog, promos []promo.Promotion, metrics *obs.PricingMetrics, logger zerolog.Logger) *Service {
	return &Service{
		Catalog:    c,
		Promotions: promos,
		Metrics:    metrics,
		Logger:     logger,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Quote prices every requested item. Repeated product ids accumulate into one line.
func (s *Service) Quote(ctx context.Context, in Input) (Output, error) {
	if s == nil || s.Catalog == nil {
		return Output{}, common.NewAppError(common.CodeInternal, "quote service not configured", http.StatusInternalServerError, nil)
	}
	logger := s.logger(ctx)

	if err := s.validator().Struct(in); err != nil {
		s.Metrics.QuoteFailed("invalid")
		return Output{}, common.Validation("invalid quote request", err, validationDetails(err))
	}

	co := New(s.Promotions)
	for _, item := range in.Items {
		product, err := s.Catalog.ProductByID(item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				s.Metrics.QuoteFailed("not_found")
				return Output{}, common.NotFound(fmt.Sprintf("product %s not found", item.ProductID), err)
			}
			s.Metrics.QuoteFailed("error")
			return Output{}, err
		}
		if li := co.Add(product, item.Quantity); li.Quantity() > MaxQuantity {
			s.Metrics.QuoteFailed("invalid")
			return Output{}, common.Validation("invalid quote request", nil, map[string]string{
				"items": fmt.Sprintf("product %s exceeds %d units", item.ProductID, MaxQuantity),
			})
		}
	}

	out := Output{Lines: make([]LineOutput, 0, len(in.Items))}
	var applied []string
	for _, li := range co.LineItems() {
		line := LineOutput{
			ProductID:  li.Product().ID(),
			Name:       li.Product().Name(),
			Quantity:   li.Quantity(),
			UnitPrice:  li.Product().Price(),
			Amount:     li.Amount(),
			Discount:   li.Discount(),
			Total:      li.Total(),
			Promotions: []string{},
		}
		for _, p := range li.ApplicablePromotions() {
			line.Promotions = append(line.Promotions, p.Description())
		}
		applied = append(applied, line.Promotions...)
		out.Lines = append(out.Lines, line)
	}
	out.Summary = co.Summary()

	s.Metrics.QuoteSucceeded(out.Summary.Discount, applied)
	logger.Debug().
		Int("lines", len(out.Lines)).
		Int64("amount", out.Summary.Amount).
		Int64("discount", out.Summary.Discount).
		Strs("promotions", applied).
		Msg("quote computed")
	return out, nil
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return s.validate
}

// logger prefers the request-scoped logger attached by obs.RequestLogger.
func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.Logger
}

func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return details
}
