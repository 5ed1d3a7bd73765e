package payment

import (
	"strings"
	"time"

	"loan-ledger/internal/pkg/apperrors"
)

const msgRequiredFields = "LoanID, idNumber, Amount, and date are required!"

type Payment struct {
	ID         int64
	LoanID     int64
	CustomerID int64

	// Copied from the paying customer when the payment is recorded.
	FullName string
	Address  string
	IDNumber string

	Amount        float64
	RiderID       string
	Date          time.Time
	ReceiptNumber string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input is what a caller supplies to record or correct a payment.
type Input struct {
	LoanID   int64
	IDNumber string
	Amount   float64
	RiderID  string
	Date     time.Time
}

func (in Input) Validate() error {
	switch {
	case in.LoanID <= 0:
		return apperrors.NewValidationError("LoanID", msgRequiredFields)
	case strings.TrimSpace(in.IDNumber) == "":
		return apperrors.NewValidationError("idNumber", msgRequiredFields)
	case in.Amount <= 0:
		return apperrors.NewValidationError("Amount", msgRequiredFields)
	case in.Date.IsZero():
		return apperrors.NewValidationError("date", msgRequiredFields)
	}
	return nil
}

// HistoryEntry is the projection of a payment shown in a customer's payment history.
type HistoryEntry struct {
	ID     int64
	Date   time.Time
	Amount float64
	LoanID int64
}

func (p *Payment) apply(in Input) {
	p.LoanID = in.LoanID
	p.IDNumber = strings.TrimSpace(in.IDNumber)
	p.Amount = in.Amount
	p.RiderID = strings.TrimSpace(in.RiderID)
	p.Date = in.Date
}
