package request

import "fieldledger/internal/domain/entities"

type LeadRequest struct {
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	Source         string  `json:"source"`
	EstimatedValue float64 `json:"estimated_value"`
	Notes          string  `json:"notes"`
}

func (r LeadRequest) ToEntity() entities.Lead {
	return entities.Lead{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		Source:         r.Source,
		EstimatedValue: r.EstimatedValue,
		Notes:          r.Notes,
	}
}

// LeadStatusRequest moves a lead to another pipeline stage.
type LeadStatusRequest struct {
	Status entities.LeadStatus `json:"status" binding:"required"`
}
