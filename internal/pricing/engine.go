package pricing

import "github.com/shopspring/decimal"

// Money represents a monetary value stored in minor units.
type Money = int64

// Quoter is anything that can report a priced amount, its discount and the payable total.
type Quoter interface {
	Amount() Money
	Discount() Money
	Total() Money
}

// Summary aggregates computed pricing components.
type Summary struct {
	Amount   Money `json:"amount"`
	Discount Money `json:"discount"`
	Total    Money `json:"total"`
}

// Summarize adds up the provided quotes. The discount never exceeds the amount.
func Summarize(quotes ...Quoter) Summary {
	var amount, discount Money
	for _, q := range quotes {
		if q == nil {
			continue
		}
		amount += q.Amount()
		discount += q.Discount()
	}
	if discount > amount {
		discount = amount
	}
	if discount < 0 {
		discount = 0
	}
	return Summary{
		Amount:   amount,
		Discount: discount,
		Total:    amount - discount,
	}
}

// Format renders minor units with two decimal digits, e.g. 1250 -> "12.50".
func Format(m Money) string {
	return decimal.NewFromInt(m).Shift(-2).StringFixed(2)
}
