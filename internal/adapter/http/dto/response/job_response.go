package response

import (
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
)

type ChecklistItemResponse struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type JobResponse struct {
	ID           string                  `json:"id"`
	CustomerID   string                  `json:"customer_id"`
	EstimateID   string                  `json:"estimate_id,omitempty"`
	InvoiceID    string                  `json:"invoice_id,omitempty"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description,omitempty"`
	Status       string                  `json:"status"`
	Priority     string                  `json:"priority"`
	Price        float64                 `json:"price"`
	PriceDisplay string                  `json:"price_display"`
	Checklist    []ChecklistItemResponse `json:"checklist"`
	Notes        string                  `json:"notes,omitempty"`
	ScheduledAt  *time.Time              `json:"scheduled_at,omitempty"`
	CompletedAt  *time.Time              `json:"completed_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func FromJob(j entities.Job) JobResponse {
	res := JobResponse{
		ID:           j.ID,
		CustomerID:   j.CustomerID,
		EstimateID:   j.EstimateID,
		InvoiceID:    j.InvoiceID,
		Title:        j.Title,
		Description:  j.Description,
		Status:       string(j.Status),
		Priority:     string(j.Priority),
		Price:        j.Price,
		PriceDisplay: ledger.FormatCurrency(j.Price),
		Checklist:    make([]ChecklistItemResponse, 0, len(j.Checklist)),
		Notes:        j.Notes,
		ScheduledAt:  j.ScheduledAt,
		CompletedAt:  j.CompletedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	for i, c := range j.Checklist {
		res.Checklist = append(res.Checklist, ChecklistItemResponse{Index: i, Text: c.Text, Completed: c.Completed})
	}
	return res
}

func FromJobs(list []entities.Job) []JobResponse {
	out := make([]JobResponse, 0, len(list))
	for _, j := range list {
		out = append(out, FromJob(j))
	}
	return out
}
