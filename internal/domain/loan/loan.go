package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanType string

const (
	TypeDaily  LoanType = "Daily"
	TypeWeekly LoanType = "Weekly"
)

func (t LoanType) Valid() bool {
	return t == TypeDaily || t == TypeWeekly
}

// Period is the accrual and repayment cadence for the type; zero for unknown types.
func (t LoanType) Period() time.Duration {
	switch t {
	case TypeDaily:
		return 24 * time.Hour
	case TypeWeekly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

type Guarantor struct {
	Name     string
	IDNumber string
	Address  string
}

type Loan struct {
	ID         int64
	CustomerID int64
	FullName   string
	Email      string
	NIC        string
	Guarantor1 Guarantor
	Guarantor2 Guarantor
	RouteName  string
	RouteID    string

	Amount          float64
	Installment     float64
	InstallmentRate float64
	Interest        float64
	LoanDuration    int
	LoanType        LoanType
	CreateDate      time.Time
	LoanEndDate     time.Time

	// Owned by reconciliation; Fine and DuePayment are refreshed on every read.
	TotalPayment float64
	Fine         float64
	DuePayment   float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terms are the fields a loan update may change.
type Terms struct {
	FullName        string
	Email           string
	NIC             string
	Guarantor1      Guarantor
	Guarantor2      Guarantor
	RouteName       string
	RouteID         string
	Amount          float64
	Installment     float64
	InstallmentRate float64
	Interest        float64
	LoanDuration    int
	LoanType        LoanType
	LoanEndDate     time.Time
}

func (l *Loan) applyTerms(t Terms) {
	l.FullName = t.FullName
	l.Email = t.Email
	l.NIC = t.NIC
	l.Guarantor1 = t.Guarantor1
	l.Guarantor2 = t.Guarantor2
	l.RouteName = t.RouteName
	l.RouteID = t.RouteID
	l.Amount = t.Amount
	l.Installment = t.Installment
	l.InstallmentRate = t.InstallmentRate
	l.Interest = t.Interest
	l.LoanDuration = t.LoanDuration
	l.LoanType = t.LoanType
	l.LoanEndDate = t.LoanEndDate
}

// Refresh recomputes the derived Fine and DuePayment for today.
func (l *Loan) Refresh(today time.Time) {
	st := Assess(l, today)
	l.Fine = st.Fine
	l.DuePayment = st.DuePayment
}

// EndDate is createDate advanced by loanDuration periods.
func EndDate(createDate time.Time, loanType LoanType, duration int) time.Time {
	if duration <= 0 {
		return createDate
	}
	switch loanType {
	case TypeDaily:
		return createDate.AddDate(0, 0, duration)
	case TypeWeekly:
		return createDate.AddDate(0, 0, 7*duration)
	default:
		return createDate
	}
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
