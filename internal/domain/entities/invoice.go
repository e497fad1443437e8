package entities

import "time"

//go:generate stringer -type=InvoiceStatus

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusViewed  InvoiceStatus = "viewed"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice is a bill for completed work, tracked until paid.
//
// Storage model (DynamoDB):
//   - PK: id
//
// JobIDs links the invoice back to the jobs it was generated from.
// Overdue is evaluated lazily on read from DueDate; there is no sweep.
type Invoice struct {
	ID         string        `json:"id"`
	Number     string        `json:"number"`
	CustomerID string        `json:"customer_id"`
	EstimateID string        `json:"estimate_id,omitempty"`
	JobIDs     []string      `json:"job_ids,omitempty"`
	LineItems  []LineItem    `json:"line_items"`
	TaxRate    float64       `json:"tax_rate"`
	Subtotal   float64       `json:"subtotal"`
	TaxAmount  float64       `json:"tax_amount"`
	Total      float64       `json:"total"`
	AmountPaid float64       `json:"amount_paid"`
	Status     InvoiceStatus `json:"status"`
	DueDate    time.Time     `json:"due_date"`
	Notes      string        `json:"notes,omitempty"`
	PaidAt     *time.Time    `json:"paid_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Balance is what is still owed on the invoice.
func (i Invoice) Balance() float64 {
	b := i.Total - i.AmountPaid
	if b < 0 {
		return 0
	}
	return b
}
