package response

import (
	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
)

type LineItemResponse struct {
	Description      string  `json:"description"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	UnitPriceDisplay string  `json:"unit_price_display"`
	LineTotal        float64 `json:"line_total"`
	LineTotalDisplay string  `json:"line_total_display"`
}

func fromLineItems(items []entities.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			UnitPriceDisplay: ledger.FormatCurrency(it.UnitPrice),
			LineTotal:        it.LineTotal,
			LineTotalDisplay: ledger.FormatCurrency(it.LineTotal),
		})
	}
	return out
}

// TotalsResponse carries the derived amounts of a monetary document.
type TotalsResponse struct {
	TaxRate          float64 `json:"tax_rate"`
	Subtotal         float64 `json:"subtotal"`
	SubtotalDisplay  string  `json:"subtotal_display"`
	TaxAmount        float64 `json:"tax_amount"`
	TaxAmountDisplay string  `json:"tax_amount_display"`
	Total            float64 `json:"total"`
	TotalDisplay     string  `json:"total_display"`
}

func totals(taxRate, subtotal, tax, total float64) TotalsResponse {
	return TotalsResponse{
		TaxRate:          taxRate,
		Subtotal:         subtotal,
		SubtotalDisplay:  ledger.FormatCurrency(subtotal),
		TaxAmount:        tax,
		TaxAmountDisplay: ledger.FormatCurrency(tax),
		Total:            total,
		TotalDisplay:     ledger.FormatCurrency(total),
	}
}
