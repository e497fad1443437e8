package request

import (
	"time"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase"
)

type JobRequest struct {
	CustomerID  string     `json:"customer_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Price       float64    `json:"price"`
	Checklist   []string   `json:"checklist"`
	Notes       string     `json:"notes"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (r JobRequest) ToInput() usecase.JobInput {
	return usecase.JobInput{
		CustomerID:  r.CustomerID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    entities.JobPriority(r.Priority),
		Price:       r.Price,
		Checklist:   r.Checklist,
		Notes:       r.Notes,
		ScheduledAt: r.ScheduledAt,
	}
}

type JobStatusRequest struct {
	Status entities.JobStatus `json:"status" binding:"required"`
}

type JobScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}
