package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DaysPerMonth is the number of accrual days a monthly rate is spread over.
	DaysPerMonth = 25
	// WeeksPerMonth is the number of accrual weeks a monthly rate is spread over.
	WeeksPerMonth = 4
	// FineRate is charged per missed installment, as a fraction of the installment.
	FineRate = 0.02
)

// Statement is a point-in-time assessment of a loan.
type Statement struct {
	Interest           float64
	Fine               float64
	DuePayment         float64
	PeriodsPassed      int
	ExpectedPeriods    int
	PaidInstallments   int
	MissedInstallments int
}

func CalculateInterest(l *Loan) float64 {
	duration := max(l.LoanDuration, 0)
	monthlyRate := l.InstallmentRate / 100

	var periodRate float64
	switch l.LoanType {
	case TypeDaily:
		periodRate = monthlyRate / DaysPerMonth
	case TypeWeekly:
		periodRate = monthlyRate / WeeksPerMonth
	default:
		return 0
	}
	return round2(l.Amount * periodRate * float64(duration))
}

// PeriodsPassed counts whole periods between the loan's createDate and today.
func PeriodsPassed(l *Loan, today time.Time) int {
	period := l.LoanType.Period()
	if period == 0 || !today.After(l.CreateDate) {
		return 0
	}
	return int(today.Sub(l.CreateDate) / period)
}

func PaidInstallments(totalPayment, installment float64) int {
	if installment <= 0 || totalPayment <= 0 {
		return 0
	}
	paid := math.Floor(totalPayment / installment)
	if paid >= math.MaxInt {
		return math.MaxInt
	}
	return int(paid)
}

func CalculateFine(l *Loan, today time.Time) float64 {
	return Assess(l, today).Fine
}

// DuePayment is principal plus a flat installment-rate surcharge, less what has been paid.
func DuePayment(l *Loan) float64 {
	amount := decimal.NewFromFloat(l.Amount)
	surcharge := amount.Mul(decimal.NewFromFloat(l.InstallmentRate)).Div(decimal.NewFromInt(100))
	due := amount.Add(surcharge).Sub(decimal.NewFromFloat(l.TotalPayment))
	if due.IsNegative() {
		return 0
	}
	f, _ := due.Round(2).Float64()
	return f
}

func Assess(l *Loan, today time.Time) Statement {
	st := Statement{
		Interest:         CalculateInterest(l),
		DuePayment:       DuePayment(l),
		PeriodsPassed:    PeriodsPassed(l, today),
		PaidInstallments: PaidInstallments(l.TotalPayment, l.Installment),
	}
	st.ExpectedPeriods = min(st.PeriodsPassed, max(l.LoanDuration, 0))
	st.MissedInstallments = st.ExpectedPeriods - st.PaidInstallments

	if st.MissedInstallments > 0 {
		st.Fine = round2(float64(st.MissedInstallments) * l.Installment * FineRate)
	} else {
		st.MissedInstallments = 0
	}
	return st
}

// SumAmounts folds payment amounts in decimal and rounds to cents.
func SumAmounts(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Round(2).Float64()
	return f
}
