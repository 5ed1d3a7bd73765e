package customer

import (
	"strings"
	"time"

	"loan-ledger/internal/pkg/apperrors"
)

const BirthdayLayout = "2006-01-02"

type Customer struct {
	ID        int64
	FullName  string
	Birthday  time.Time
	Address   string
	IDNumber  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Details are the user-editable fields of a customer.
type Details struct {
	FullName string
	Birthday time.Time
	Address  string
	IDNumber string
}

func (d *Details) normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Address = strings.TrimSpace(d.Address)
	d.IDNumber = strings.TrimSpace(d.IDNumber)
}

func (d Details) Validate() error {
	switch {
	case strings.TrimSpace(d.FullName) == "":
		return apperrors.NewValidationError("fullName", "All fields are required!")
	case d.Birthday.IsZero():
		return apperrors.NewValidationError("birthday", "All fields are required!")
	case strings.TrimSpace(d.Address) == "":
		return apperrors.NewValidationError("address", "All fields are required!")
	case strings.TrimSpace(d.IDNumber) == "":
		return apperrors.NewValidationError("idNumber", "All fields are required!")
	}
	return nil
}

func NewCustomer(d Details) *Customer {
	d.normalize()
	now := time.Now()
	return &Customer{
		FullName:  d.FullName,
		Birthday:  d.Birthday,
		Address:   d.Address,
		IDNumber:  d.IDNumber,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Customer) Apply(d Details) {
	d.normalize()
	c.FullName = d.FullName
	c.Birthday = d.Birthday
	c.Address = d.Address
	c.IDNumber = d.IDNumber
	c.UpdatedAt = time.Now()
}
