package customer

import (
	"context"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

const (
	emailAlreadyTaken   = "Email already taken"
	noDataChangesFound  = "no data changes found"
	customerNotFoundFmt = "Customer with id [%d] not found"
)

type CustomerService interface {
	GetAllCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	AddCustomer(ctx context.Context, req CustomerRegistrationRequest) error
	DeleteCustomerByID(ctx context.Context, id int64) error
	UpdateCustomer(ctx context.Context, id int64, req CustomerUpdateRequest) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	dao    CustomerDao
	logger *slog.Logger
}

func NewCustomerService(dao CustomerDao, logger *slog.Logger) CustomerService {
	if dao == nil {
		panic("customer dao cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		dao:    dao,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) GetAllCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling dao SelectAllCustomers")
	customers, err := s.dao.SelectAllCustomers(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Dao error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", id))

	logger.DebugContext(ctx, "Calling dao SelectCustomerByID")
	customer, err := s.dao.SelectCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer not found")
			return nil, apperrors.NewResourceNotFound(customerNotFoundFmt, id)
		}

		logger.ErrorContext(ctx, "Dao error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}

	logger.InfoContext(ctx, "Successfully retrieved customer")
	return customer, nil
}

func (s *customerService) AddCustomer(ctx context.Context, req CustomerRegistrationRequest) error {
	logger := s.logger.With(slog.String("email", req.Email))
	logger.InfoContext(ctx, "Attempting to add customer")

	taken, err := s.dao.ExistsCustomerWithEmail(ctx, req.Email)
	if err != nil {
		logger.ErrorContext(ctx, "Dao error checking email", slog.Any("error", err))
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		logger.WarnContext(ctx, "Email already taken")
		return apperrors.NewDuplicateResource(emailAlreadyTaken)
	}

	customer := NewCustomer(req.Name, req.Email, req.Age)
	if err := s.dao.InsertCustomer(ctx, customer); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logger.WarnContext(ctx, "Email taken concurrently, insert rejected by store")
			return apperrors.NewDuplicateResource(emailAlreadyTaken)
		}
		logger.ErrorContext(ctx, "Dao failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	logger.InfoContext(ctx, "Successfully added customer")
	return nil
}

func (s *customerService) DeleteCustomerByID(ctx context.Context, id int64) error {
	logger := s.logger.With(slog.Int64("customerID", id))
	logger.InfoContext(ctx, "Attempting to delete customer")

	exists, err := s.dao.ExistsCustomerWithID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Dao error checking customer existence", slog.Any("error", err))
		return fmt.Errorf("failed to check customer %d: %w", id, err)
	}
	if !exists {
		logger.WarnContext(ctx, "Customer not found for delete")
		return apperrors.NewResourceNotFound(customerNotFoundFmt, id)
	}

	if err := s.dao.DeleteCustomerByID(ctx, id); err != nil {
		logger.ErrorContext(ctx, "Dao failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}

	logger.InfoContext(ctx, "Successfully deleted customer")
	return nil
}

// UpdateCustomer applies the present fields of req that differ from the stored
// customer. A request that changes nothing fails with a RequestValidationError
// without touching storage.
func (s *customerService) UpdateCustomer(ctx context.Context, id int64, req CustomerUpdateRequest) error {
	logger := s.logger.With(slog.Int64("customerID", id))
	logger.InfoContext(ctx, "Attempting to update customer")

	current, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}

	update := CustomerUpdate{ID: current.ID}
	changed := false

	if req.Name != nil && *req.Name != current.Name {
		update.Name = req.Name
		changed = true
	}

	if req.Email != nil && *req.Email != current.Email {
		taken, err := s.dao.ExistsCustomerWithEmail(ctx, *req.Email)
		if err != nil {
			logger.ErrorContext(ctx, "Dao error checking email", slog.Any("error", err))
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			logger.WarnContext(ctx, "Email already taken", slog.String("email", *req.Email))
			return apperrors.NewDuplicateResource(emailAlreadyTaken)
		}
		update.Email = req.Email
		changed = true
	}

	if req.Age != nil && *req.Age != current.Age {
		update.Age = req.Age
		changed = true
	}

	if !changed {
		logger.WarnContext(ctx, "No data changes found")
		return apperrors.NewRequestValidation(noDataChangesFound)
	}

	if err := s.dao.UpdateCustomer(ctx, update); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyExists):
			logger.WarnContext(ctx, "Email taken concurrently, update rejected by store")
			return apperrors.NewDuplicateResource(emailAlreadyTaken)
		case errors.Is(err, apperrors.ErrNotFound):
			logger.WarnContext(ctx, "Customer disappeared before update completed")
			return apperrors.NewResourceNotFound(customerNotFoundFmt, id)
		}
		logger.ErrorContext(ctx, "Dao failed to update customer", slog.Any("error", err))
		return fmt.Errorf("failed to update customer %d: %w", id, err)
	}

	logger.InfoContext(ctx, "Successfully updated customer")
	return nil
}
