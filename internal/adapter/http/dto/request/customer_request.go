package request

import "fieldledger/internal/domain/entities"

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (r CustomerRequest) ToEntity() entities.Customer {
	return entities.Customer{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		Notes:   r.Notes,
	}
}
