package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	selectAllCustomersQuery = `SELECT id, name, email, age FROM customer ORDER BY id ASC`
	selectCustomerByIDQuery = `SELECT id, name, email, age FROM customer WHERE id = $1`
	insertCustomerQuery     = `INSERT INTO customer(name, email, age) VALUES ($1, $2, $3) RETURNING id`
	countByEmailQuery       = `SELECT count(id) FROM customer WHERE email = $1`
	countByIDQuery          = `SELECT count(id) FROM customer WHERE id = $1`
	deleteCustomerQuery     = `DELETE FROM customer WHERE id = $1`
	updateNameQuery         = `UPDATE customer SET name = $1 WHERE id = $2`
	updateEmailQuery        = `UPDATE customer SET email = $1 WHERE id = $2`
	updateAgeQuery          = `UPDATE customer SET age = $1 WHERE id = $2`
)

// CustomerRepository is the jdbc backend: hand-written SQL over a pgx pool.
type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerDao = (*CustomerRepository)(nil)

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

func (r *CustomerRepository) SelectAllCustomers(ctx context.Context) ([]*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Selecting all customers")

	rows, err := r.db.Query(ctx, selectAllCustomersQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		if err := rows.Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Age); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, &cust)
	}

	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished selecting customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) SelectCustomerByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var cust customer.Customer
	err := r.db.QueryRow(ctx, selectCustomerByIDQuery, id).Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Age)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.DebugContext(ctx, "Customer not found", slog.Int64("customerID", id))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query customer by ID", slog.Int64("customerID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return &cust, nil
}

func (r *CustomerRepository) InsertCustomer(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	err := r.db.QueryRow(ctx, insertCustomerQuery, cust.Name, cust.Email, cust.Age).Scan(&cust.ID)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) ExistsCustomerWithEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, countByEmailQuery, email)
}

func (r *CustomerRepository) ExistsCustomerWithID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, countByIDQuery, id)
}

func (r *CustomerRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, arg).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to count customers: %w", apperrors.ErrDatabase, err)
	}
	return count > 0, nil
}

func (r *CustomerRepository) DeleteCustomerByID(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, deleteCustomerQuery, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer likely already gone", slog.Int64("customerID", id))
		return nil
	}

	r.logger.InfoContext(ctx, "Customer deleted", slog.Int64("customerID", id))
	return nil
}

// UpdateCustomer issues one UPDATE per present field inside a single transaction.
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, update customer.CustomerUpdate) (err error) {
	logger := r.logger.With(slog.Int64("customerID", update.ID))

	if !update.HasChanges() {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", rbErr))
			}
		}
	}()

	if update.Name != nil {
		if err = r.updateField(ctx, tx, updateNameQuery, *update.Name, update.ID); err != nil {
			return err
		}
	}
	if update.Email != nil {
		if err = r.updateField(ctx, tx, updateEmailQuery, *update.Email, update.ID); err != nil {
			return err
		}
	}
	if update.Age != nil {
		if err = r.updateField(ctx, tx, updateAgeQuery, *update.Age, update.ID); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrDatabase, err)
	}

	logger.InfoContext(ctx, "Customer updated")
	return nil
}

func (r *CustomerRepository) updateField(ctx context.Context, tx pgx.Tx, query string, value any, id int64) error {
	cmdTag, err := tx.Exec(ctx, query, value, id)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found", slog.Int64("customerID", id))
		return apperrors.ErrNotFound
	}
	return nil
}
