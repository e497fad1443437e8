package entities

import "time"

//go:generate stringer -type=JobStatus

type JobStatus string

const (
	JobStatusUnscheduled JobStatus = "unscheduled"
	JobStatusScheduled   JobStatus = "scheduled"
	JobStatusInProgress  JobStatus = "in_progress"
	JobStatusOnHold      JobStatus = "on_hold"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusCancelled   JobStatus = "cancelled"
)

type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityNormal JobPriority = "normal"
	JobPriorityHigh   JobPriority = "high"
	JobPriorityUrgent JobPriority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p JobPriority) Valid() bool {
	switch p {
	case JobPriorityLow, JobPriorityNormal, JobPriorityHigh, JobPriorityUrgent:
		return true
	}
	return false
}

type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Job is a unit of field work for a customer.
//
// InvoiceID is the consumed marker: once set the job is never invoiced again.
type Job struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	EstimateID  string          `json:"estimate_id,omitempty"`
	InvoiceID   string          `json:"invoice_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      JobStatus       `json:"status"`
	Priority    JobPriority     `json:"priority"`
	Price       float64         `json:"price"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
