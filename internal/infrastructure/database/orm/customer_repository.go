package orm

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gorm.io/gorm"
)

type customerModel struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;uniqueIndex:customer_email_unique"`
	Age   int    `gorm:"not null"`
}

func (customerModel) TableName() string {
	return "customer"
}

func (m customerModel) toDomain() *customer.Customer {
	return &customer.Customer{ID: m.ID, Name: m.Name, Email: m.Email, Age: m.Age}
}

func fromDomain(c *customer.Customer) customerModel {
	return customerModel{ID: c.ID, Name: c.Name, Email: c.Email, Age: c.Age}
}

// CustomerRepository is the jpa backend: gorm manages statements and row mapping.
type CustomerRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ customer.CustomerDao = (*CustomerRepository)(nil)

func NewCustomerRepository(db *gorm.DB, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("gorm DB cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &CustomerRepository{db: db, logger: logger.With("component", "OrmCustomerRepository")}
}

func (r *CustomerRepository) SelectAllCustomers(ctx context.Context) ([]*customer.Customer, error) {
	var models []customerModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to find customers", slog.Any("error", err))
		return nil, r.translate(err, "failed to find customers")
	}

	customers := make([]*customer.Customer, 0, len(models))
	for _, m := range models {
		customers = append(customers, m.toDomain())
	}
	return customers, nil
}

func (r *CustomerRepository) SelectCustomerByID(ctx context.Context, id int64) (*customer.Customer, error) {
	m, err := findByID(r.db.WithContext(ctx), id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.ErrorContext(ctx, "Failed to find customer", slog.Int64("customerID", id), slog.Any("error", err))
		}
		return nil, r.translate(err, "failed to find customer")
	}
	return m.toDomain(), nil
}

func (r *CustomerRepository) InsertCustomer(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	m := fromDomain(cust)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.ErrorContext(ctx, "Failed to save customer", slog.Any("error", err))
		}
		return r.translate(err, "failed to save customer")
	}

	cust.ID = m.ID
	r.logger.InfoContext(ctx, "Customer saved", slog.Int64("customerID", m.ID))
	return nil
}

func (r *CustomerRepository) ExistsCustomerWithEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *CustomerRepository) ExistsCustomerWithID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

func (r *CustomerRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&customerModel{}).Where(cond, arg).Count(&count).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return false, r.translate(err, "failed to count customers")
	}
	return count > 0, nil
}

func (r *CustomerRepository) DeleteCustomerByID(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&customerModel{}, id).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer", slog.Int64("customerID", id), slog.Any("error", err))
		return r.translate(err, "failed to delete customer")
	}
	return nil
}

// UpdateCustomer loads the row, applies the present fields and saves the whole
// entity back in one transaction, so absent fields keep their loaded values.
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, update customer.CustomerUpdate) error {
	if !update.HasChanges() {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findByID(tx, update.ID)
		if err != nil {
			return err
		}

		cust := m.toDomain()
		update.ApplyTo(cust)
		m = fromDomain(cust)

		// An explicit select stops Save from falling back to an upsert when the row vanished.
		result := tx.Select("*").Save(&m)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.ErrorContext(ctx, "Failed to update customer", slog.Int64("customerID", update.ID), slog.Any("error", err))
		}
		return r.translate(err, "failed to update customer")
	}

	r.logger.InfoContext(ctx, "Customer updated", slog.Int64("customerID", update.ID))
	return nil
}

func findByID(db *gorm.DB, id int64) (customerModel, error) {
	var m customerModel
	err := db.Where("id = ?", id).Take(&m).Error
	return m, err
}

func (r *CustomerRepository) translate(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, "customer_email_unique")
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrDatabase, msg, err)
}
