package response

import (
	"time"

	"fieldledger/internal/domain/entities"
)

type EstimateResponse struct {
	ID         string             `json:"id"`
	Number     string             `json:"number"`
	CustomerID string             `json:"customer_id,omitempty"`
	LeadID     string             `json:"lead_id,omitempty"`
	JobID      string             `json:"job_id,omitempty"`
	Title      string             `json:"title"`
	LineItems  []LineItemResponse `json:"line_items"`
	TotalsResponse
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	ValidUntil time.Time `json:"valid_until"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:             e.ID,
		Number:         e.Number,
		CustomerID:     e.CustomerID,
		LeadID:         e.LeadID,
		JobID:          e.JobID,
		Title:          e.Title,
		LineItems:      fromLineItems(e.LineItems),
		TotalsResponse: totals(e.TaxRate, e.Subtotal, e.TaxAmount, e.Total),
		Status:         string(e.Status),
		Notes:          e.Notes,
		ValidUntil:     e.ValidUntil,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromEstimates(list []entities.Estimate) []EstimateResponse {
	out := make([]EstimateResponse, 0, len(list))
	for _, e := range list {
		out = append(out, FromEstimate(e))
	}
	return out
}
