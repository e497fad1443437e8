package request

import (
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase"
)

// LineItemRequest is one row of an estimate or invoice. The line total is
// always computed server side.
type LineItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func toLineItems(items []LineItemRequest) []entities.LineItem {
	out := make([]entities.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.LineItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}

// EstimateRequest creates a draft estimate for a customer or a lead.
// Omitting tax_rate or valid_until applies the configured defaults.
type EstimateRequest struct {
	CustomerID string            `json:"customer_id"`
	LeadID     string            `json:"lead_id"`
	Title      string            `json:"title"`
	Notes      string            `json:"notes"`
	LineItems  []LineItemRequest `json:"line_items"`
	TaxRate    *float64          `json:"tax_rate"`
	ValidUntil *time.Time        `json:"valid_until"`
}

func (r EstimateRequest) ToInput() usecase.EstimateInput {
	return usecase.EstimateInput{
		CustomerID: r.CustomerID,
		LeadID:     r.LeadID,
		Title:      r.Title,
		Notes:      r.Notes,
		LineItems:  toLineItems(r.LineItems),
		TaxRate:    r.TaxRate,
		ValidUntil: r.ValidUntil,
	}
}

// LineItemsRequest replaces the line items of a draft estimate.
type LineItemsRequest struct {
	LineItems []LineItemRequest `json:"line_items" binding:"required"`
	TaxRate   *float64          `json:"tax_rate"`
}

func (r LineItemsRequest) Items() []entities.LineItem {
	return toLineItems(r.LineItems)
}
