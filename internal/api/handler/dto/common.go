package dto

import (
	"strings"
	"time"

	"loan-ledger/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type ErrorResponse struct {
	Message string `json:"message" example:"Customer not found!"`
	Field   string `json:"field,omitempty" example:"idNumber"`
	Error   string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Loan deleted successfully!"`
}

type HealthResponse struct {
	Message string `json:"message,omitempty" example:"Server is healthy and running!"`
	Status  string `json:"status,omitempty" example:"ok"`
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp. An empty string
// yields the zero time so that required-field checks can report it.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.NewValidationError(field, "Invalid date, use YYYY-MM-DD")
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseID reads a positive integer identifier sent as a JSON number or string.
func ParseID(field string, value decimal.Decimal) (int64, error) {
	if value.IsZero() {
		return 0, nil
	}
	if !value.IsInteger() || value.IsNegative() {
		return 0, apperrors.NewValidationError(field, "Invalid "+field+"!")
	}
	return value.IntPart(), nil
}

// MoneyScale is the number of decimal places money and rate columns store.
const MoneyScale = 2

// money rounds to the stored scale so validation sees the value that will be persisted.
func money(d decimal.Decimal) float64 {
	return d.Round(MoneyScale).InexactFloat64()
}
