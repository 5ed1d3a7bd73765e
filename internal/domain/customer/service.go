package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-ledger/internal/event"
	"loan-ledger/internal/pkg/apperrors"
)

const (
	msgCustomerNotFound  = "Customer not found!"
	msgIDNumberNotUnique = "ID Number must be unique!"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, details Details) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, details Details) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
	FindByIDNumber(ctx context.Context, idNumber string) (*Customer, error)
	FindByFullName(ctx context.Context, fullName string) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, details Details) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	if err := details.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Validation failed for new customer", slog.Any("error", err))
		return nil, err
	}

	cust := NewCustomer(details)
	if err := s.ensureIDNumberAvailable(ctx, cust.IDNumber, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "ID number taken between check and insert", slog.String("idNumber", cust.IDNumber))
			return nil, apperrors.Duplicate(msgIDNumberNotUnique)
		}
		s.logger.ErrorContext(ctx, "Failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.InfoContext(ctx, "Customer created", slog.Int64("customerID", cust.ID))

	evt := event.CustomerCreatedEvent{
		CustomerID: cust.ID,
		FullName:   cust.FullName,
		IDNumber:   cust.IDNumber,
		Timestamp:  time.Now(),
	}
	if err := s.pub.PublishCustomerCreated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer created event", slog.Any("error", err))
	}

	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, s.lookupError(ctx, err, slog.Int64("customerID", customerID))
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	s.logger.DebugContext(ctx, "Listed customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, details Details) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to update customer")

	if err := details.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Validation failed for customer update", slog.Any("error", err))
		return nil, err
	}

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, s.lookupError(ctx, err, slog.Int64("customerID", customerID))
	}

	cust.Apply(details)
	if err := s.ensureIDNumberAvailable(ctx, cust.IDNumber, cust.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyExists):
			return nil, apperrors.Duplicate(msgIDNumberNotUnique)
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.NotFound(msgCustomerNotFound)
		}
		logCtx.ErrorContext(ctx, "Failed to save customer update", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	logCtx.InfoContext(ctx, "Customer updated")
	return cust, nil
}

// DeleteCustomer removes only the customer row; loans and payments referencing it are kept.
func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	if err := s.repo.Delete(ctx, customerID); err != nil {
		return s.lookupError(ctx, err, slog.Int64("customerID", customerID))
	}
	s.logger.InfoContext(ctx, "Customer deleted", slog.Int64("customerID", customerID))
	return nil
}

func (s *customerService) FindByIDNumber(ctx context.Context, idNumber string) (*Customer, error) {
	cust, err := s.repo.FindByIDNumber(ctx, idNumber)
	if err != nil {
		return nil, s.lookupError(ctx, err, slog.String("idNumber", idNumber))
	}
	return cust, nil
}

func (s *customerService) FindByFullName(ctx context.Context, fullName string) (*Customer, error) {
	cust, err := s.repo.FindByFullName(ctx, fullName)
	if err != nil {
		return nil, s.lookupError(ctx, err, slog.String("fullName", fullName))
	}
	return cust, nil
}

func (s *customerService) ensureIDNumberAvailable(ctx context.Context, idNumber string, ownerID int64) error {
	existing, err := s.repo.FindByIDNumber(ctx, idNumber)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to check ID number uniqueness", slog.Any("error", err))
		return fmt.Errorf("failed to check ID number: %w", err)
	case existing.ID != ownerID:
		s.logger.WarnContext(ctx, "Duplicate ID number", slog.String("idNumber", idNumber), slog.Int64("ownerID", existing.ID))
		return apperrors.Duplicate(msgIDNumberNotUnique)
	}
	return nil
}

func (s *customerService) lookupError(ctx context.Context, err error, attr slog.Attr) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "Customer not found by repository", attr)
		return apperrors.NotFound(msgCustomerNotFound)
	}
	s.logger.ErrorContext(ctx, "Customer repository lookup failed", attr, slog.Any("error", err))
	return fmt.Errorf("failed to load customer: %w", err)
}
