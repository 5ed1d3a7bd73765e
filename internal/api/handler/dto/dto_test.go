package dto

import (
	"encoding/json"
	"testing"
	"time"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2025-03-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("date", "2025-03-20T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	d, err = ParseDate("date", "  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("birthday", "20/03/2025")
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "birthday", validationErr.Field)
}

func TestLoanRequest_AcceptsNumericStrings(t *testing.T) {
	body := `{
		"CustomerID": "7", "fullname": "Kamala Silva", "nic": "853456789V",
		"garantter1": "Sunil", "garantter1id": "781234567V", "garantter1address": "Matale",
		"garantter2": "Ruwan", "garantter2id": "801234567V", "garantter2address": "Kurunegala",
		"rootname": "North", "rootid": "R-7",
		"amount": "5000", "installment": 500, "installmentrate": "10.5",
		"loanDuration": "10", "loanType": "Weekly"
	}`
	var req LoanRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	customerID, err := ParseID("CustomerID", req.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), customerID)

	terms, err := req.ToTerms()
	require.NoError(t, err)
	assert.Equal(t, 5000.0, terms.Amount)
	assert.Equal(t, 500.0, terms.Installment)
	assert.Equal(t, 10.5, terms.InstallmentRate)
	assert.Equal(t, 10, terms.LoanDuration)
	assert.Equal(t, loan.TypeWeekly, terms.LoanType)
	assert.Equal(t, "781234567V", terms.Guarantor1.IDNumber)
	assert.True(t, terms.LoanEndDate.IsZero())
}

func TestPaymentRequest_ToInput(t *testing.T) {
	var req PaymentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"LoanID": 42, "idNumber": "853456789V", "Amount": "1000", "date": "2025-03-20"}`), &req))

	in, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, int64(42), in.LoanID)
	assert.Equal(t, 1000.0, in.Amount)
	assert.Equal(t, 20, in.Date.Day())

	require.NoError(t, json.Unmarshal([]byte(`{"LoanID": 4.5}`), &req))
	_, err = req.ToInput()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMoneyRoundsToStoredScale(t *testing.T) {
	var req PaymentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"LoanID": 42, "idNumber": "853456789V", "Amount": "0.004", "date": "2025-03-20"}`), &req))

	in, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, 0.0, in.Amount)
	assert.Equal(t, 400, apperrors.HTTPStatus(in.Validate()))

	require.NoError(t, json.Unmarshal([]byte(`{"Amount": 1000.005}`), &req))
	in, err = req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, 1000.01, in.Amount)

	var loanReq LoanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount": "5000.999", "installment": "500.125", "installmentrate": "10.125"}`), &loanReq))
	terms, err := loanReq.ToTerms()
	require.NoError(t, err)
	assert.Equal(t, 5001.0, terms.Amount)
	assert.Equal(t, 500.13, terms.Installment)
	assert.Equal(t, 10.13, terms.InstallmentRate)
}
