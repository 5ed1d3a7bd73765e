package dto

import (
	"time"

	"loan-ledger/internal/domain/payment"

	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	LoanID   decimal.Decimal `json:"LoanID" swaggertype:"number" example:"42"`
	IDNumber string          `json:"idNumber" example:"853456789V"`
	Amount   decimal.Decimal `json:"Amount" swaggertype:"number" example:"1000"`
	RiderID  string          `json:"RiderID" example:"R-1"`
	Date     string          `json:"date" example:"2025-03-20"`
}

func (r PaymentRequest) ToInput() (payment.Input, error) {
	loanID, err := ParseID("LoanID", r.LoanID)
	if err != nil {
		return payment.Input{}, err
	}
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return payment.Input{}, err
	}
	return payment.Input{
		LoanID:   loanID,
		IDNumber: r.IDNumber,
		Amount:   money(r.Amount),
		RiderID:  r.RiderID,
		Date:     date,
	}, nil
}

type PaymentResponse struct {
	ID            int64     `json:"_id" example:"9"`
	LoanID        int64     `json:"LoanID" example:"42"`
	CustomerID    int64     `json:"customerID" example:"7"`
	FullName      string    `json:"fullName" example:"Kamala Silva"`
	Address       string    `json:"address" example:"44 Galle Rd, Colombo"`
	IDNumber      string    `json:"idNumber" example:"853456789V"`
	Amount        float64   `json:"Amount" example:"1000"`
	RiderID       string    `json:"RiderID,omitempty" example:"R-1"`
	Date          time.Time `json:"date"`
	ReceiptNumber string    `json:"receiptNumber" example:"4821"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewPaymentResponse(p *payment.Payment) PaymentResponse {
	if p == nil {
		return PaymentResponse{}
	}
	return PaymentResponse{
		ID:            p.ID,
		LoanID:        p.LoanID,
		CustomerID:    p.CustomerID,
		FullName:      p.FullName,
		Address:       p.Address,
		IDNumber:      p.IDNumber,
		Amount:        p.Amount,
		RiderID:       p.RiderID,
		Date:          p.Date,
		ReceiptNumber: p.ReceiptNumber,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewPaymentResponses(payments []*payment.Payment) []PaymentResponse {
	resp := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = NewPaymentResponse(p)
	}
	return resp
}

type PaymentEnvelope struct {
	Message string          `json:"message" example:"Payment created successfully!"`
	Payment PaymentResponse `json:"payment"`
}

type PaymentHistoryResponse struct {
	ID     int64     `json:"_id" example:"9"`
	Date   time.Time `json:"date"`
	Amount float64   `json:"Amount" example:"1000"`
	LoanID int64     `json:"LoanID" example:"42"`
}

func NewPaymentHistory(entries []payment.HistoryEntry) []PaymentHistoryResponse {
	resp := make([]PaymentHistoryResponse, len(entries))
	for i, e := range entries {
		resp[i] = PaymentHistoryResponse{ID: e.ID, Date: e.Date, Amount: e.Amount, LoanID: e.LoanID}
	}
	return resp
}
