package response

import (
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
)

type InvoiceResponse struct {
	ID         string             `json:"id"`
	Number     string             `json:"number"`
	CustomerID string             `json:"customer_id"`
	EstimateID string             `json:"estimate_id,omitempty"`
	JobIDs     []string           `json:"job_ids,omitempty"`
	LineItems  []LineItemResponse `json:"line_items"`
	TotalsResponse
	AmountPaid        float64    `json:"amount_paid"`
	AmountPaidDisplay string     `json:"amount_paid_display"`
	Balance           float64    `json:"balance"`
	BalanceDisplay    string     `json:"balance_display"`
	Status            string     `json:"status"`
	DueDate           time.Time  `json:"due_date"`
	Notes             string     `json:"notes,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromInvoice(inv entities.Invoice) InvoiceResponse {
	balance := inv.Balance()
	return InvoiceResponse{
		ID:                inv.ID,
		Number:            inv.Number,
		CustomerID:        inv.CustomerID,
		EstimateID:        inv.EstimateID,
		JobIDs:            inv.JobIDs,
		LineItems:         fromLineItems(inv.LineItems),
		TotalsResponse:    totals(inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.Total),
		AmountPaid:        inv.AmountPaid,
		AmountPaidDisplay: ledger.FormatCurrency(inv.AmountPaid),
		Balance:           balance,
		BalanceDisplay:    ledger.FormatCurrency(balance),
		Status:            string(inv.Status),
		DueDate:           inv.DueDate,
		Notes:             inv.Notes,
		PaidAt:            inv.PaidAt,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

func FromInvoices(list []entities.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, FromInvoice(inv))
	}
	return out
}

// BatchInvoiceResponse lists the invoices issued by a batch run and the
// customer groups that failed.
type BatchInvoiceResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Errors   []string          `json:"errors,omitempty"`
}
