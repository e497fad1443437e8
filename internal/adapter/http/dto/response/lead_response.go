package response

import (
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
)

type LeadResponse struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email,omitempty"`
	Phone                 string    `json:"phone,omitempty"`
	Address               string    `json:"address,omitempty"`
	Source                string    `json:"source,omitempty"`
	Status                string    `json:"status"`
	EstimatedValue        float64   `json:"estimated_value"`
	EstimatedValueDisplay string    `json:"estimated_value_display"`
	Notes                 string    `json:"notes,omitempty"`
	CustomerID            string    `json:"customer_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func FromLead(l entities.Lead) LeadResponse {
	return LeadResponse{
		ID:                    l.ID,
		Name:                  l.Name,
		Email:                 l.Email,
		Phone:                 l.Phone,
		Address:               l.Address,
		Source:                l.Source,
		Status:                string(l.Status),
		EstimatedValue:        l.EstimatedValue,
		EstimatedValueDisplay: ledger.FormatCurrency(l.EstimatedValue),
		Notes:                 l.Notes,
		CustomerID:            l.CustomerID,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

func FromLeads(list []entities.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(list))
	for _, l := range list {
		out = append(out, FromLead(l))
	}
	return out
}
