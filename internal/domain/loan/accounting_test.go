package loan

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 3, 24, 10, 0, 0, 0, time.UTC)

func weeklyScenarioLoan() *Loan {
	return &Loan{
		Amount:          5000,
		Installment:     500,
		InstallmentRate: 10,
		LoanDuration:    10,
		LoanType:        TypeWeekly,
		CreateDate:      today.AddDate(0, 0, -21),
	}
}

func TestCalculateInterest(t *testing.T) {
	tests := []struct {
		name string
		loan Loan
		want float64
	}{
		{"daily", Loan{Amount: 10000, InstallmentRate: 10, LoanDuration: 20, LoanType: TypeDaily}, 800},
		{"weekly", Loan{Amount: 10000, InstallmentRate: 10, LoanDuration: 8, LoanType: TypeWeekly}, 2000},
		{"rounded to cents", Loan{Amount: 1234, InstallmentRate: 7, LoanDuration: 1, LoanType: TypeDaily}, 3.46},
		{"zero duration", Loan{Amount: 10000, InstallmentRate: 10, LoanDuration: 0, LoanType: TypeDaily}, 0},
		{"negative duration", Loan{Amount: 10000, InstallmentRate: 10, LoanDuration: -3, LoanType: TypeWeekly}, 0},
		{"unknown type", Loan{Amount: 10000, InstallmentRate: 10, LoanDuration: 20, LoanType: "Monthly"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateInterest(&tt.loan), 1e-9)
		})
	}
}

func TestCalculateInterestDailyFormula(t *testing.T) {
	for _, a := range []float64{1000, 2500, 12345} {
		for _, r := range []float64{1, 7.5, 10} {
			for _, d := range []int{1, 20, 60} {
				l := &Loan{Amount: a, InstallmentRate: r, LoanDuration: d, LoanType: TypeDaily}
				want := round2(a * (r / 100 / 25) * float64(d))
				assert.InDelta(t, want, CalculateInterest(l), 0.005, "A=%v R=%v D=%v", a, r, d)
			}
		}
	}
}

func TestPeriodsPassed(t *testing.T) {
	l := &Loan{LoanType: TypeDaily, CreateDate: today.Add(-49 * time.Hour)}
	assert.Equal(t, 2, PeriodsPassed(l, today))

	l = &Loan{LoanType: TypeWeekly, CreateDate: today.AddDate(0, 0, -20)}
	assert.Equal(t, 2, PeriodsPassed(l, today))

	l = &Loan{LoanType: TypeWeekly, CreateDate: today.AddDate(0, 0, 3)}
	assert.Equal(t, 0, PeriodsPassed(l, today), "future createDate")

	l = &Loan{LoanType: "Monthly", CreateDate: today.AddDate(0, -2, 0)}
	assert.Equal(t, 0, PeriodsPassed(l, today))
}

func TestPaidInstallments(t *testing.T) {
	assert.Equal(t, 2, PaidInstallments(1000, 500))
	assert.Equal(t, 2, PaidInstallments(1499.99, 500))
	assert.Equal(t, 0, PaidInstallments(1000, 0))
	assert.Equal(t, 0, PaidInstallments(1000, -5))
	assert.Equal(t, 0, PaidInstallments(0, 500))
}

func TestCalculateFine_WeeklyScenario(t *testing.T) {
	l := weeklyScenarioLoan()

	st := Assess(l, today)
	assert.Equal(t, 3, st.PeriodsPassed)
	assert.Equal(t, 0, st.PaidInstallments)
	assert.Equal(t, 3, st.MissedInstallments)
	assert.InDelta(t, 30.0, st.Fine, 1e-9)

	l.TotalPayment = 1000
	st = Assess(l, today)
	assert.Equal(t, 2, st.PaidInstallments)
	assert.Equal(t, 1, st.MissedInstallments)
	assert.InDelta(t, 10.0, st.Fine, 1e-9)
}

func TestCalculateFine_Idempotent(t *testing.T) {
	l := weeklyScenarioLoan()
	first := CalculateFine(l, today)
	second := CalculateFine(l, today)
	assert.Equal(t, first, second)

	l.Refresh(today)
	l.Refresh(today)
	assert.InDelta(t, first, l.Fine, 1e-9, "refresh replaces the fine instead of adding to it")
}

func TestCalculateFine_EdgeCases(t *testing.T) {
	t.Run("capped at loan duration", func(t *testing.T) {
		l := weeklyScenarioLoan()
		l.CreateDate = today.AddDate(0, 0, -7*30)
		st := Assess(l, today)
		assert.Equal(t, 10, st.ExpectedPeriods)
		assert.InDelta(t, 100.0, st.Fine, 1e-9)
	})

	t.Run("zero duration never fines", func(t *testing.T) {
		l := weeklyScenarioLoan()
		l.LoanDuration = 0
		assert.Equal(t, 0.0, CalculateFine(l, today))
	})

	t.Run("zero installment never fines", func(t *testing.T) {
		l := weeklyScenarioLoan()
		l.Installment = 0
		assert.Equal(t, 0.0, CalculateFine(l, today))
	})

	t.Run("overpaid loan has no missed installments", func(t *testing.T) {
		l := weeklyScenarioLoan()
		l.TotalPayment = 4000
		st := Assess(l, today)
		assert.Equal(t, 0, st.MissedInstallments)
		assert.Equal(t, 0.0, st.Fine)
	})
}

func TestDuePayment(t *testing.T) {
	l := weeklyScenarioLoan()
	assert.InDelta(t, 5500.0, DuePayment(l), 1e-9)

	l.TotalPayment = 1000
	assert.InDelta(t, 4500.0, DuePayment(l), 1e-9)

	l.TotalPayment = 9000
	assert.Equal(t, 0.0, DuePayment(l), "never negative")

	for _, paid := range []float64{0, 0.01, 5499.99, 5500, 5500.01, 1e6} {
		l.TotalPayment = paid
		assert.GreaterOrEqual(t, DuePayment(l), 0.0)
	}
}

func TestSumAmounts(t *testing.T) {
	assert.Equal(t, 0.3, SumAmounts([]float64{0.1, 0.2}))
	assert.Equal(t, 0.0, SumAmounts(nil))

	forward := SumAmounts([]float64{100.10, 250.25, 999.99, 0.01})
	backward := SumAmounts([]float64{0.01, 999.99, 250.25, 100.10})
	assert.Equal(t, forward, backward)
	assert.Equal(t, 1350.35, forward)
}

func TestPaidInstallments_ClampsHugeQuotients(t *testing.T) {
	assert.Equal(t, math.MaxInt, PaidInstallments(1e10, 1e-300))
	assert.Equal(t, math.MaxInt, PaidInstallments(math.Inf(1), 1))

	l := weeklyScenarioLoan()
	l.Installment = 1e-300
	l.TotalPayment = 1e10
	st := Assess(l, today)
	assert.Equal(t, 0, st.MissedInstallments)
	assert.Equal(t, 0.0, st.Fine)
}

func TestEndDate(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start.AddDate(0, 0, 20), EndDate(start, TypeDaily, 20))
	assert.Equal(t, start.AddDate(0, 0, 70), EndDate(start, TypeWeekly, 10))
	assert.Equal(t, start, EndDate(start, TypeWeekly, 0))
	assert.Equal(t, start, EndDate(start, "Monthly", 5))

	for _, tt := range []struct {
		loanType LoanType
		duration int
	}{
		{TypeDaily, 200000},
		{TypeWeekly, 20000},
		{TypeWeekly, MaxLoanDuration},
	} {
		end := EndDate(start, tt.loanType, tt.duration)
		assert.True(t, end.After(start), "%s x %d ends at %s", tt.loanType, tt.duration, end)
	}
	assert.Equal(t, start.AddDate(0, 0, 140000), EndDate(start, TypeWeekly, 20000))
}
