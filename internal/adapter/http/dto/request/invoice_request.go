package request

import (
	"time"

	"fieldledger/internal/usecase"
)

type InvoiceRequest struct {
	CustomerID string            `json:"customer_id" binding:"required"`
	EstimateID string            `json:"estimate_id"`
	Notes      string            `json:"notes"`
	LineItems  []LineItemRequest `json:"line_items"`
	TaxRate    *float64          `json:"tax_rate"`
	DueDate    *time.Time        `json:"due_date"`
}

func (r InvoiceRequest) ToInput() usecase.InvoiceInput {
	return usecase.InvoiceInput{
		CustomerID: r.CustomerID,
		EstimateID: r.EstimateID,
		Notes:      r.Notes,
		LineItems:  toLineItems(r.LineItems),
		TaxRate:    r.TaxRate,
		DueDate:    r.DueDate,
	}
}

// PaymentRecordRequest registers an offline payment (cash, check, transfer).
type PaymentRecordRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}
