package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/pkg/apperrors"
)

const (
	paymentColumns = `id, loan_id, customer_id, full_name, address, id_number,
        amount, rider_id, paid_at, receipt_number, created_at, updated_at`

	receiptNumberConstraint = "payments_receipt_number_key"
)

type PaymentRepository struct {
	db     DBPool
	logger *slog.Logger
}

var (
	_ payment.Repository     = (*PaymentRepository)(nil)
	_ payment.ReceiptChecker = (*PaymentRepository)(nil)
)

func NewPaymentRepository(db DBPool, logger *slog.Logger) *PaymentRepository {
	if db == nil {
		panic("DBPool cannot be nil for PaymentRepository")
	}
	return &PaymentRepository{db: db, logger: logger.With("component", "PaymentRepository")}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) (_ *payment.Payment, err error) {
	defer func(start time.Time) { observe("payment_insert", start, err) }(time.Now())

	query := `
        INSERT INTO payments (loan_id, customer_id, full_name, address, id_number,
            amount, rider_id, paid_at, receipt_number, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		p.LoanID, p.CustomerID, p.FullName, p.Address, p.IDNumber,
		p.Amount, p.RiderID, p.Date, p.ReceiptNumber,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if violatesConstraint(translated, receiptNumberConstraint) {
			return nil, fmt.Errorf("%w: %s: %w", payment.ErrReceiptTaken, p.ReceiptNumber, translated)
		}
		r.logger.ErrorContext(ctx, "Failed to insert payment", slog.Int64("loanID", p.LoanID), slog.Any("error", err))
		return nil, translated
	}
	return p, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, paymentID int64) (p *payment.Payment, err error) {
	defer func(start time.Time) { observe("payment_find_by_id", start, err) }(time.Now())

	p, err = scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID))
	if err != nil {
		translated := translateDBError(err, r.logger)
		if !errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to get payment", slog.Int64("paymentID", paymentID), slog.Any("error", err))
		}
		return nil, translated
	}
	return p, nil
}

func (r *PaymentRepository) FindAll(ctx context.Context) ([]*payment.Payment, error) {
	return r.findMany(ctx, "payment_find_all", `SELECT `+paymentColumns+` FROM payments ORDER BY paid_at DESC, id DESC`)
}

func (r *PaymentRepository) FindByLoanID(ctx context.Context, loanID int64) ([]*payment.Payment, error) {
	return r.findMany(ctx, "payment_find_by_loan",
		`SELECT `+paymentColumns+` FROM payments WHERE loan_id = $1 ORDER BY paid_at ASC, id ASC`, loanID)
}

func (r *PaymentRepository) FindByIDNumber(ctx context.Context, idNumber string) ([]*payment.Payment, error) {
	return r.findMany(ctx, "payment_find_by_id_number",
		`SELECT `+paymentColumns+` FROM payments WHERE id_number = $1 ORDER BY paid_at ASC, id ASC`, idNumber)
}

func (r *PaymentRepository) findMany(ctx context.Context, name, query string, args ...any) (payments []*payment.Payment, err error) {
	defer func(start time.Time) { observe(name, start, err) }(time.Now())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments", slog.String("query", name), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments = make([]*payment.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan payment row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return payments, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) (err error) {
	defer func(start time.Time) { observe("payment_update", start, err) }(time.Now())

	query := `
        UPDATE payments
        SET loan_id = $1, customer_id = $2, full_name = $3, address = $4, id_number = $5,
            amount = $6, rider_id = $7, paid_at = $8, updated_at = NOW()
        WHERE id = $9
        RETURNING updated_at`

	err = r.db.QueryRow(ctx, query,
		p.LoanID, p.CustomerID, p.FullName, p.Address, p.IDNumber,
		p.Amount, p.RiderID, p.Date, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if !errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to update payment", slog.Int64("paymentID", p.ID), slog.Any("error", err))
		}
		return translated
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, paymentID int64) (p *payment.Payment, err error) {
	defer func(start time.Time) { observe("payment_delete", start, err) }(time.Now())

	p, err = scanPayment(r.db.QueryRow(ctx, `DELETE FROM payments WHERE id = $1 RETURNING `+paymentColumns, paymentID))
	if err != nil {
		translated := translateDBError(err, r.logger)
		if !errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to delete payment", slog.Int64("paymentID", paymentID), slog.Any("error", err))
		}
		return nil, translated
	}
	return p, nil
}

func (r *PaymentRepository) ReceiptNumberExists(ctx context.Context, receiptNumber string) (exists bool, err error) {
	defer func(start time.Time) { observe("payment_receipt_exists", start, err) }(time.Now())

	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE receipt_number = $1)`, receiptNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *PaymentRepository) AmountsByLoan(ctx context.Context, loanID int64) (amounts []float64, err error) {
	defer func(start time.Time) { observe("payment_amounts_by_loan", start, err) }(time.Now())

	rows, err := r.db.Query(ctx, `SELECT amount FROM payments WHERE loan_id = $1`, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payment amounts", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	amounts = make([]float64, 0)
	for rows.Next() {
		var amount float64
		if err = rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		amounts = append(amounts, amount)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return amounts, nil
}

func scanPayment(row scanner) (*payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID, &p.LoanID, &p.CustomerID, &p.FullName, &p.Address, &p.IDNumber,
		&p.Amount, &p.RiderID, &p.Date, &p.ReceiptNumber, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
