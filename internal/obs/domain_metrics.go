package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics groups collectors describing quote calculations.
type PricingMetrics struct {
	// QuotesTotal counts quote requests by outcome (ok, not_found, invalid, error).
	QuotesTotal *prometheus.CounterVec
	// PromotionsApplied counts line items each promotion discounted.
	PromotionsApplied *prometheus.CounterVec
	// QuoteDiscount records the summary discount of successful quotes in minor units.
	QuoteDiscount prometheus.Histogram
}

// NewPricingMetrics registers and returns pricing collectors. Collectors already
// registered under the same names are reused.
func NewPricingMetrics(namespace string, reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PricingMetrics{
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of quote calculations by outcome.",
		}, []string{"result"}),
		PromotionsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_applied_total",
			Help:      "Count of line items discounted per promotion.",
		}, []string{"promotion"}),
		QuoteDiscount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_discount_minor_units",
			Help:      "Discount granted per quote in minor currency units.",
			Buckets:   []float64{0, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
	}

	mustRegisterCollector(reg, m.QuotesTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.QuotesTotal = v
		}
	})
	mustRegisterCollector(reg, m.PromotionsApplied, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.PromotionsApplied = v
		}
	})
	mustRegisterCollector(reg, m.QuoteDiscount, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.QuoteDiscount = v
		}
	})
	return m
}

// QuoteFailed records a rejected quote.
func (m *PricingMetrics) QuoteFailed(result string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(result).Inc()
}

// QuoteSucceeded records a computed quote with its applied promotion labels.
func (m *PricingMetrics) QuoteSucceeded(discount int64, promotions []string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues("ok").Inc()
	m.QuoteDiscount.Observe(float64(discount))
	for _, p := range promotions {
		m.PromotionsApplied.WithLabelValues(p).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
