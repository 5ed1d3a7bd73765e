package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"
)

const loanColumns = `id, customer_id, full_name, email, nic,
        guarantor1_name, guarantor1_id_number, guarantor1_address,
        guarantor2_name, guarantor2_id_number, guarantor2_address,
        route_name, route_id, amount, installment, installment_rate, interest,
        total_payment, fine, due_payment, loan_duration, loan_type,
        create_date, loan_end_date, created_at, updated_at`

var errMsgFormat = "%w: %w"

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) (_ *loan.Loan, err error) {
	defer func(start time.Time) { observe("loan_insert", start, err) }(time.Now())
	logCtx := r.logger.With(slog.Int64("customerID", l.CustomerID))

	query := `
        INSERT INTO loans (
            customer_id, full_name, email, nic,
            guarantor1_name, guarantor1_id_number, guarantor1_address,
            guarantor2_name, guarantor2_id_number, guarantor2_address,
            route_name, route_id, amount, installment, installment_rate, interest,
            total_payment, fine, due_payment, loan_duration, loan_type,
            create_date, loan_end_date, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
            $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		l.CustomerID, l.FullName, l.Email, l.NIC,
		l.Guarantor1.Name, l.Guarantor1.IDNumber, l.Guarantor1.Address,
		l.Guarantor2.Name, l.Guarantor2.IDNumber, l.Guarantor2.Address,
		l.RouteName, l.RouteID, l.Amount, l.Installment, l.InstallmentRate, l.Interest,
		l.TotalPayment, l.Fine, l.DuePayment, l.LoanDuration, string(l.LoanType),
		l.CreateDate, l.LoanEndDate,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert loan", slog.Any("error", err))
		return nil, translateDBError(err, logCtx)
	}

	logCtx.InfoContext(ctx, "Loan inserted", slog.Int64("loanID", l.ID))
	return l, nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (l *loan.Loan, err error) {
	defer func(start time.Time) { observe("loan_find_by_id", start, err) }(time.Now())

	l, err = scanLoan(r.db.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID))
	if err != nil {
		translated := translateDBError(err, r.logger)
		if !errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		}
		return nil, translated
	}
	return l, nil
}

func (r *LoanRepository) FindAll(ctx context.Context) ([]*loan.Loan, error) {
	return r.findMany(ctx, "loan_find_all", `SELECT `+loanColumns+` FROM loans ORDER BY id ASC`)
}

func (r *LoanRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	return r.findMany(ctx, "loan_find_by_customer",
		`SELECT `+loanColumns+` FROM loans WHERE customer_id = $1 ORDER BY id ASC`, customerID)
}

func (r *LoanRepository) findMany(ctx context.Context, name, query string, args ...any) (loans []*loan.Loan, err error) {
	defer func(start time.Time) { observe(name, start, err) }(time.Now())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans", slog.String("query", name), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans = make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return loans, nil
}

func (r *LoanRepository) ExistsForCustomer(ctx context.Context, customerID int64) (exists bool, err error) {
	defer func(start time.Time) { observe("loan_exists_for_customer", start, err) }(time.Now())

	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE customer_id = $1)`, customerID).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check loans for customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *LoanRepository) Update(ctx context.Context, l *loan.Loan) (err error) {
	defer func(start time.Time) { observe("loan_update", start, err) }(time.Now())

	query := `
        UPDATE loans
        SET full_name = $1, email = $2, nic = $3,
            guarantor1_name = $4, guarantor1_id_number = $5, guarantor1_address = $6,
            guarantor2_name = $7, guarantor2_id_number = $8, guarantor2_address = $9,
            route_name = $10, route_id = $11, amount = $12, installment = $13,
            installment_rate = $14, interest = $15, loan_duration = $16, loan_type = $17,
            loan_end_date = $18, updated_at = NOW()
        WHERE id = $19`

	cmdTag, err := r.db.Exec(ctx, query,
		l.FullName, l.Email, l.NIC,
		l.Guarantor1.Name, l.Guarantor1.IDNumber, l.Guarantor1.Address,
		l.Guarantor2.Name, l.Guarantor2.IDNumber, l.Guarantor2.Address,
		l.RouteName, l.RouteID, l.Amount, l.Installment,
		l.InstallmentRate, l.Interest, l.LoanDuration, string(l.LoanType),
		l.LoanEndDate, l.ID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan", slog.Int64("loanID", l.ID), slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) UpdateTotals(ctx context.Context, loanID int64, totalPayment, fine, duePayment float64) (err error) {
	defer func(start time.Time) { observe("loan_update_totals", start, err) }(time.Now())

	query := `
        UPDATE loans
        SET total_payment = $1, fine = $2, due_payment = $3, updated_at = NOW()
        WHERE id = $4`

	cmdTag, err := r.db.Exec(ctx, query, totalPayment, fine, duePayment, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan totals", slog.Int64("loanID", loanID), slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) Delete(ctx context.Context, loanID int64) (err error) {
	defer func(start time.Time) { observe("loan_delete", start, err) }(time.Now())

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM loans WHERE id = $1`, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Loan deleted", slog.Int64("loanID", loanID))
	return nil
}

func (r *LoanRepository) ListIDs(ctx context.Context) (ids []int64, err error) {
	defer func(start time.Time) { observe("loan_list_ids", start, err) }(time.Now())

	rows, err := r.db.Query(ctx, `SELECT id FROM loans ORDER BY id`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list loan IDs", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	ids = make([]int64, 0)
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return ids, nil
}

func scanLoan(row scanner) (*loan.Loan, error) {
	var (
		l        loan.Loan
		loanType string
	)
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.FullName, &l.Email, &l.NIC,
		&l.Guarantor1.Name, &l.Guarantor1.IDNumber, &l.Guarantor1.Address,
		&l.Guarantor2.Name, &l.Guarantor2.IDNumber, &l.Guarantor2.Address,
		&l.RouteName, &l.RouteID, &l.Amount, &l.Installment, &l.InstallmentRate, &l.Interest,
		&l.TotalPayment, &l.Fine, &l.DuePayment, &l.LoanDuration, &loanType,
		&l.CreateDate, &l.LoanEndDate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.LoanType = loan.LoanType(loanType)
	return &l, nil
}
