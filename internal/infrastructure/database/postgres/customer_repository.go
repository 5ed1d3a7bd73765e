package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"
)

const customerColumns = `id, full_name, birthday, address, id_number, created_at, updated_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if cust.ID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) (err error) {
	defer func(start time.Time) { observe("customer_insert", start, err) }(time.Now())

	query := `
        INSERT INTO customers (full_name, birthday, address, id_number, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		cust.FullName,
		cust.Birthday,
		cust.Address,
		cust.IDNumber,
	).Scan(&cust.ID, &cust.CreatedAt, &cust.UpdatedAt)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Customer insert violated a unique constraint", slog.String("idNumber", cust.IDNumber))
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Customer inserted", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) (err error) {
	defer func(start time.Time) { observe("customer_update", start, err) }(time.Now())

	query := `
        UPDATE customers
        SET full_name = $1,
            birthday = $2,
            address = $3,
            id_number = $4,
            updated_at = NOW()
        WHERE id = $5
        RETURNING updated_at`

	err = r.db.QueryRow(ctx, query,
		cust.FullName,
		cust.Birthday,
		cust.Address,
		cust.IDNumber,
		cust.ID,
	).Scan(&cust.UpdatedAt)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) || errors.Is(translated, apperrors.ErrNotFound) {
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Int64("customerID", cust.ID), slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	return r.findOne(ctx, "customer_find_by_id", `WHERE id = $1`, customerID)
}

func (r *CustomerRepository) FindByIDNumber(ctx context.Context, idNumber string) (*customer.Customer, error) {
	return r.findOne(ctx, "customer_find_by_id_number", `WHERE id_number = $1`, idNumber)
}

// FindByFullName returns the oldest customer with the name; names are not unique.
func (r *CustomerRepository) FindByFullName(ctx context.Context, fullName string) (*customer.Customer, error) {
	return r.findOne(ctx, "customer_find_by_full_name", `WHERE full_name = $1 ORDER BY id ASC LIMIT 1`, fullName)
}

func (r *CustomerRepository) findOne(ctx context.Context, name, where string, arg any) (cust *customer.Customer, err error) {
	defer func(start time.Time) { observe(name, start, err) }(time.Now())

	query := `SELECT ` + customerColumns + ` FROM customers ` + where

	cust, err = scanCustomer(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrNotFound) {
			r.logger.DebugContext(ctx, "Customer not found", slog.String("query", name))
			return nil, translated
		}
		r.logger.ErrorContext(ctx, "Failed to query customer", slog.String("query", name), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer: %w", apperrors.ErrDatabase, err)
	}
	return cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) (customers []*customer.Customer, err error) {
	defer func(start time.Time) { observe("customer_find_all", start, err) }(time.Now())

	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id ASC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers = make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	return customers, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) (err error) {
	defer func(start time.Time) { observe("customer_delete", start, err) }(time.Now())

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found", slog.Int64("customerID", customerID))
		return apperrors.ErrNotFound
	}
	return nil
}

func scanCustomer(row scanner) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.FullName,
		&cust.Birthday,
		&cust.Address,
		&cust.IDNumber,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}
