package dto

import (
	"time"

	"loan-ledger/internal/domain/customer"
)

type CustomerRequest struct {
	FullName string `json:"fullName" example:"Kamala Silva"`
	Birthday string `json:"birthday" example:"1985-01-30"`
	Address  string `json:"address" example:"44 Galle Rd, Colombo"`
	IDNumber string `json:"idNumber" example:"853456789V"`
}

func (r CustomerRequest) ToDetails() (customer.Details, error) {
	birthday, err := ParseDate("birthday", r.Birthday)
	if err != nil {
		return customer.Details{}, err
	}
	return customer.Details{
		FullName: r.FullName,
		Birthday: birthday,
		Address:  r.Address,
		IDNumber: r.IDNumber,
	}, nil
}

type CustomerResponse struct {
	ID        int64     `json:"_id" example:"7"`
	FullName  string    `json:"fullName" example:"Kamala Silva"`
	Birthday  string    `json:"birthday" example:"1985-01-30"`
	Address   string    `json:"address" example:"44 Galle Rd, Colombo"`
	IDNumber  string    `json:"idNumber" example:"853456789V"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	if c == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Birthday:  FormatDate(c.Birthday),
		Address:   c.Address,
		IDNumber:  c.IDNumber,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCustomerResponses(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		resp[i] = NewCustomerResponse(c)
	}
	return resp
}

type CustomerEnvelope struct {
	Message  string           `json:"message" example:"Customer added successfully!"`
	Customer CustomerResponse `json:"customer"`
}
