package entities

import "time"

// EstimateStatus represents the lifecycle of an estimate (quote).
//
// Domain notes:
//   - draft -> sent -> approved | declined
//   - sent -> expired once ValidUntil has passed
//   - transitions are validated by ledger.TransitionEstimate, never inline.
//
//go:generate stringer -type=EstimateStatus

type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusApproved EstimateStatus = "approved"
	EstimateStatusDeclined EstimateStatus = "declined"
	EstimateStatusExpired  EstimateStatus = "expired"
)

// Estimate is a pre-work quote sent to a customer for approval.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Monetary representation:
//   - Subtotal, TaxAmount and Total are always recomputed from LineItems and TaxRate.
//   - JobID is set once the estimate has been converted into a job.
type Estimate struct {
	ID         string         `json:"id"`
	Number     string         `json:"number"`
	CustomerID string         `json:"customer_id"`
	LeadID     string         `json:"lead_id,omitempty"`
	JobID      string         `json:"job_id,omitempty"`
	Title      string         `json:"title"`
	LineItems  []LineItem     `json:"line_items"`
	TaxRate    float64        `json:"tax_rate"`
	Subtotal   float64        `json:"subtotal"`
	TaxAmount  float64        `json:"tax_amount"`
	Total      float64        `json:"total"`
	Status     EstimateStatus `json:"status"`
	Notes      string         `json:"notes,omitempty"`
	ValidUntil time.Time      `json:"valid_until"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
