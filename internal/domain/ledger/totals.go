package ledger

import (
	"math"

	"fieldledger/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Totals are the derived amounts of a monetary document. They are never
// rounded; use RoundCurrency/FormatCurrency for presentation.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// ComputeTotals sums quantity*unitPrice over items and applies taxRate.
// Finite inputs whose amounts overflow are rejected as invalid line items.
func ComputeTotals(items []entities.LineItem, taxRate float64) (Totals, error) {
	if err := validateTaxRate(taxRate); err != nil {
		return Totals{}, err
	}
	subtotal := 0.0
	for i, it := range items {
		lt, err := lineTotal(i, it)
		if err != nil {
			return Totals{}, err
		}
		subtotal += lt
		if !nonNegativeFinite(subtotal) {
			return Totals{}, &LineItemError{Index: i, Field: "line_total", Value: subtotal}
		}
	}
	tax := subtotal * taxRate
	total := subtotal + tax
	if !nonNegativeFinite(total) {
		return Totals{}, &LineItemError{Index: len(items) - 1, Field: "line_total", Value: total}
	}
	return Totals{Subtotal: subtotal, TaxAmount: tax, Total: total}, nil
}

// PriceLineItems returns a copy of items with LineTotal recomputed.
func PriceLineItems(items []entities.LineItem) ([]entities.LineItem, error) {
	out := make([]entities.LineItem, len(items))
	for i, it := range items {
		lt, err := lineTotal(i, it)
		if err != nil {
			return nil, err
		}
		it.LineTotal = lt
		out[i] = it
	}
	return out, nil
}

// Recalculate prices items and computes the document totals in one step.
func Recalculate(items []entities.LineItem, taxRate float64) ([]entities.LineItem, Totals, error) {
	priced, err := PriceLineItems(items)
	if err != nil {
		return nil, Totals{}, err
	}
	totals, err := ComputeTotals(priced, taxRate)
	if err != nil {
		return nil, Totals{}, err
	}
	return priced, totals, nil
}

// RoundCurrency rounds v to cents, half away from zero.
func RoundCurrency(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatCurrency renders v with exactly two decimals.
func FormatCurrency(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func validateLineItem(i int, it entities.LineItem) error {
	if !nonNegativeFinite(it.Quantity) {
		return &LineItemError{Index: i, Field: "quantity", Value: it.Quantity}
	}
	if !nonNegativeFinite(it.UnitPrice) {
		return &LineItemError{Index: i, Field: "unit_price", Value: it.UnitPrice}
	}
	return nil
}

func lineTotal(i int, it entities.LineItem) (float64, error) {
	if err := validateLineItem(i, it); err != nil {
		return 0, err
	}
	lt := it.Quantity * it.UnitPrice
	if !nonNegativeFinite(lt) {
		return 0, &LineItemError{Index: i, Field: "line_total", Value: lt}
	}
	return lt, nil
}

func validateTaxRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return ErrInvalidTaxRate
	}
	return nil
}

func nonNegativeFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
