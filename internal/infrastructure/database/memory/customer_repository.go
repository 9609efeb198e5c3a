package memory

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// CustomerRepository is the list backend. Customers live in process memory and
// are lost on restart. Callers always receive copies.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]*customer.Customer
	nextID    int64
	logger    *slog.Logger
}

var _ customer.CustomerDao = (*CustomerRepository)(nil)

// NewCustomerRepository builds a list backend pre-populated with initial. Entries
// with a zero id are assigned the next free one.
func NewCustomerRepository(logger *slog.Logger, initial ...customer.Customer) *CustomerRepository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	r := &CustomerRepository{logger: logger.With("component", "MemoryCustomerRepository")}
	r.load(initial)
	return r
}

// Reset replaces the stored customers with initial and restarts id assignment.
func (r *CustomerRepository) Reset(initial ...customer.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(initial)
}

func (r *CustomerRepository) load(initial []customer.Customer) {
	r.customers = make(map[int64]*customer.Customer, len(initial))
	r.nextID = 0
	for _, c := range initial {
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	for _, c := range initial {
		c := c
		if c.ID == 0 {
			r.nextID++
			c.ID = r.nextID
		}
		r.customers[c.ID] = &c
	}
}

func (r *CustomerRepository) SelectAllCustomers(_ context.Context) ([]*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]*customer.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		cp := *c
		customers = append(customers, &cp)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (r *CustomerRepository) SelectCustomerByID(_ context.Context, id int64) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepository) InsertCustomer(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(cust.Email, 0) {
		r.logger.WarnContext(ctx, "Rejected insert with duplicate email")
		return fmt.Errorf("%w: email %s", apperrors.ErrAlreadyExists, cust.Email)
	}

	r.nextID++
	cust.ID = r.nextID
	cp := *cust
	r.customers[cp.ID] = &cp

	r.logger.DebugContext(ctx, "Customer inserted", slog.Int64("customerID", cp.ID))
	return nil
}

func (r *CustomerRepository) ExistsCustomerWithEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTakenLocked(email, 0), nil
}

func (r *CustomerRepository) ExistsCustomerWithID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.customers[id]
	return ok, nil
}

func (r *CustomerRepository) DeleteCustomerByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; ok {
		delete(r.customers, id)
		r.logger.DebugContext(ctx, "Customer deleted", slog.Int64("customerID", id))
	}
	return nil
}

// UpdateCustomer patches the stored customer in place, keeping its id.
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, update customer.CustomerUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[update.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if update.Email != nil && r.emailTakenLocked(*update.Email, update.ID) {
		r.logger.WarnContext(ctx, "Rejected update with duplicate email", slog.Int64("customerID", update.ID))
		return fmt.Errorf("%w: email %s", apperrors.ErrAlreadyExists, *update.Email)
	}

	update.ApplyTo(c)
	r.logger.DebugContext(ctx, "Customer updated", slog.Int64("customerID", update.ID))
	return nil
}

// emailTakenLocked reports whether a customer other than exceptID uses email.
func (r *CustomerRepository) emailTakenLocked(email string, exceptID int64) bool {
	for id, c := range r.customers {
		if id != exceptID && c.Email == email {
			return true
		}
	}
	return false
}
