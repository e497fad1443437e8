package entities

import "time"

// LeadStatus is the sales pipeline stage of a lead.
//
//go:generate stringer -type=LeadStatus

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusProposal  LeadStatus = "proposal"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

type Lead struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	Source         string     `json:"source,omitempty"`
	Status         LeadStatus `json:"status"`
	EstimatedValue float64    `json:"estimated_value"`
	Notes          string     `json:"notes,omitempty"`
	CustomerID     string     `json:"customer_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
