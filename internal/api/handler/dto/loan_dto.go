package dto

import (
	"time"

	"loan-ledger/internal/domain/loan"

	"github.com/shopspring/decimal"
)

// LoanRequest keeps the field names existing clients send.
type LoanRequest struct {
	CustomerID        decimal.Decimal `json:"CustomerID" swaggertype:"number" example:"7"`
	FullName          string          `json:"fullname" example:"Kamala Silva"`
	Email             string          `json:"email" example:"kamala@example.com"`
	NIC               string          `json:"nic" example:"853456789V"`
	Guarantor1        string          `json:"garantter1" example:"Sunil Perera"`
	Guarantor1ID      string          `json:"garantter1id" example:"781234567V"`
	Guarantor1Address string          `json:"garantter1address" example:"Matale"`
	Guarantor2        string          `json:"garantter2" example:"Ruwan Jayasuriya"`
	Guarantor2ID      string          `json:"garantter2id" example:"801234567V"`
	Guarantor2Address string          `json:"garantter2address" example:"Kurunegala"`
	RouteName         string          `json:"rootname" example:"North"`
	RouteID           string          `json:"rootid" example:"R-7"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"number" example:"5000"`
	Installment       decimal.Decimal `json:"installment" swaggertype:"number" example:"500"`
	InstallmentRate   decimal.Decimal `json:"installmentrate" swaggertype:"number" example:"10"`
	Interest          decimal.Decimal `json:"interest" swaggertype:"number" example:"1250"`
	LoanDuration      decimal.Decimal `json:"loanDuration" swaggertype:"integer" example:"10"`
	LoanType          string          `json:"loanType" enums:"Daily,Weekly" example:"Weekly"`
	LoanEndDate       string          `json:"loanEndDate" example:"2025-05-12"`
}

func (r LoanRequest) ToTerms() (loan.Terms, error) {
	endDate, err := ParseDate("loanEndDate", r.LoanEndDate)
	if err != nil {
		return loan.Terms{}, err
	}
	duration, err := ParseID("loanDuration", r.LoanDuration)
	if err != nil {
		return loan.Terms{}, err
	}
	return loan.Terms{
		FullName:        r.FullName,
		Email:           r.Email,
		NIC:             r.NIC,
		Guarantor1:      loan.Guarantor{Name: r.Guarantor1, IDNumber: r.Guarantor1ID, Address: r.Guarantor1Address},
		Guarantor2:      loan.Guarantor{Name: r.Guarantor2, IDNumber: r.Guarantor2ID, Address: r.Guarantor2Address},
		RouteName:       r.RouteName,
		RouteID:         r.RouteID,
		Amount:          money(r.Amount),
		Installment:     money(r.Installment),
		InstallmentRate: money(r.InstallmentRate),
		Interest:        money(r.Interest),
		LoanDuration:    int(duration),
		LoanType:        loan.LoanType(r.LoanType),
		LoanEndDate:     endDate,
	}, nil
}

type LoanResponse struct {
	ID                int64     `json:"_id" example:"42"`
	CustomerID        int64     `json:"CustomerID" example:"7"`
	FullName          string    `json:"fullname"`
	Email             string    `json:"email"`
	NIC               string    `json:"nic"`
	Guarantor1        string    `json:"garantter1"`
	Guarantor1ID      string    `json:"garantter1id"`
	Guarantor1Address string    `json:"garantter1address"`
	Guarantor2        string    `json:"garantter2"`
	Guarantor2ID      string    `json:"garantter2id"`
	Guarantor2Address string    `json:"garantter2address"`
	RouteName         string    `json:"rootname"`
	RouteID           string    `json:"rootid"`
	Amount            float64   `json:"amount" example:"5000"`
	Installment       float64   `json:"installment" example:"500"`
	InstallmentRate   float64   `json:"installmentrate" example:"10"`
	Interest          float64   `json:"interest" example:"1250"`
	TotalPayment      float64   `json:"totalPayment" example:"1000"`
	Fine              float64   `json:"fine" example:"10"`
	DuePayment        float64   `json:"duePayment" example:"5250"`
	LoanDuration      int       `json:"loanDuration" example:"10"`
	LoanType          string    `json:"loanType" example:"Weekly"`
	CreateDate        time.Time `json:"createDate"`
	LoanEndDate       time.Time `json:"loanEndDate"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	return LoanResponse{
		ID:                l.ID,
		CustomerID:        l.CustomerID,
		FullName:          l.FullName,
		Email:             l.Email,
		NIC:               l.NIC,
		Guarantor1:        l.Guarantor1.Name,
		Guarantor1ID:      l.Guarantor1.IDNumber,
		Guarantor1Address: l.Guarantor1.Address,
		Guarantor2:        l.Guarantor2.Name,
		Guarantor2ID:      l.Guarantor2.IDNumber,
		Guarantor2Address: l.Guarantor2.Address,
		RouteName:         l.RouteName,
		RouteID:           l.RouteID,
		Amount:            l.Amount,
		Installment:       l.Installment,
		InstallmentRate:   l.InstallmentRate,
		Interest:          l.Interest,
		TotalPayment:      l.TotalPayment,
		Fine:              l.Fine,
		DuePayment:        l.DuePayment,
		LoanDuration:      l.LoanDuration,
		LoanType:          string(l.LoanType),
		CreateDate:        l.CreateDate,
		LoanEndDate:       l.LoanEndDate,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func NewLoanResponses(loans []*loan.Loan) []LoanResponse {
	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = NewLoanResponse(l)
	}
	return resp
}

type LoanEnvelope struct {
	Message string       `json:"message" example:"Loan created successfully!"`
	Loan    LoanResponse `json:"loan"`
}
