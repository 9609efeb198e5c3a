package customer

import (
	"context"
)

// CustomerDao is the storage contract shared by the list, jdbc and jpa backends.
//
// SelectCustomerByID returns apperrors.ErrNotFound when no row matches.
// DeleteCustomerByID is a no-op for a missing row. UpdateCustomer writes only the
// present fields of the update and returns apperrors.ErrNotFound when the row is gone.
// Backends that detect a clash on the unique email return an error matching
// apperrors.ErrAlreadyExists.
type CustomerDao interface {
	SelectAllCustomers(ctx context.Context) ([]*Customer, error)

	SelectCustomerByID(ctx context.Context, id int64) (*Customer, error)

	InsertCustomer(ctx context.Context, customer *Customer) error

	ExistsCustomerWithEmail(ctx context.Context, email string) (bool, error)

	ExistsCustomerWithID(ctx context.Context, id int64) (bool, error)

	DeleteCustomerByID(ctx context.Context, id int64) error

	UpdateCustomer(ctx context.Context, update CustomerUpdate) error
}
