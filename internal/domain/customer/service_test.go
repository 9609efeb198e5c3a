package customer_test

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTest() (*customer.MockCustomerDao, customer.CustomerService) {
	mockDao := new(customer.MockCustomerDao)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := customer.NewCustomerService(mockDao, logger)
	return mockDao, service
}

func ptr[T any](v T) *T {
	return &v
}

func TestNewCustomerService_PanicsWithoutDao(t *testing.T) {
	assert.Panics(t, func() {
		customer.NewCustomerService(nil, nil)
	})
}

func TestCustomerService_GetAllCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockDao, service := setupTest()
		expected := []*customer.Customer{
			{ID: 1, Name: "Alex", Email: "alex@mail.com", Age: 22},
			{ID: 2, Name: "Jamila", Email: "jamila@mail.com", Age: 24},
		}
		mockDao.On("SelectAllCustomers", ctx).Return(expected, nil).Once()

		customers, err := service.GetAllCustomers(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, customers)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Dao Failure", func(t *testing.T) {
		mockDao, service := setupTest()
		dbError := errors.New("query failed")
		mockDao.On("SelectAllCustomers", ctx).Return(nil, dbError).Once()

		customers, err := service.GetAllCustomers(ctx)

		assert.Nil(t, customers)
		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to list customers")
		mockDao.AssertExpectations(t)
	})
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()
	customerID := int64(42)

	t.Run("Success", func(t *testing.T) {
		mockDao, service := setupTest()
		expected := &customer.Customer{ID: customerID, Name: "Alex", Email: "alex@mail.com", Age: 22}
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(expected, nil).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.NoError(t, err)
		assert.Equal(t, expected, cust)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		var notFound *apperrors.ResourceNotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.EqualError(t, err, "Customer with id [42] not found")
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Dao Failure", func(t *testing.T) {
		mockDao, service := setupTest()
		dbError := errors.New("internal server error")
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(nil, dbError).Once()

		cust, err := service.GetCustomer(ctx, customerID)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, dbError)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), fmt.Sprintf("failed to get customer %d", customerID))
		mockDao.AssertExpectations(t)
	})
}

func TestCustomerService_AddCustomer(t *testing.T) {
	ctx := context.Background()
	req := customer.CustomerRegistrationRequest{Name: "Alice", Email: "a@x", Age: 30}

	t.Run("Success", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("ExistsCustomerWithEmail", ctx, req.Email).Return(false, nil).Once()
		mockDao.On("InsertCustomer", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.ID == 0 && c.Name == req.Name && c.Email == req.Email && c.Age == req.Age
		})).Return(nil).Once()

		err := service.AddCustomer(ctx, req)

		assert.NoError(t, err)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Email Already Taken", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("ExistsCustomerWithEmail", ctx, req.Email).Return(true, nil).Once()

		err := service.AddCustomer(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.EqualError(t, err, "Email already taken")
		mockDao.AssertNotCalled(t, "InsertCustomer", mock.Anything, mock.Anything)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Unique Constraint Lost Race", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("ExistsCustomerWithEmail", ctx, req.Email).Return(false, nil).Once()
		mockDao.On("InsertCustomer", ctx, mock.AnythingOfType("*customer.Customer")).
			Return(fmt.Errorf("%w: customer_email_unique", apperrors.ErrAlreadyExists)).Once()

		err := service.AddCustomer(ctx, req)

		var dup *apperrors.DuplicateResourceError
		assert.ErrorAs(t, err, &dup)
		assert.EqualError(t, err, "Email already taken")
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Exists Check Failure", func(t *testing.T) {
		mockDao, service := setupTest()
		dbError := errors.New("connection refused")
		mockDao.On("ExistsCustomerWithEmail", ctx, req.Email).Return(false, dbError).Once()

		err := service.AddCustomer(ctx, req)

		assert.ErrorIs(t, err, dbError)
		mockDao.AssertNotCalled(t, "InsertCustomer", mock.Anything, mock.Anything)
	})

	t.Run("Error - Insert Failure", func(t *testing.T) {
		mockDao, service := setupTest()
		dbError := errors.New("disk full")
		mockDao.On("ExistsCustomerWithEmail", ctx, req.Email).Return(false, nil).Once()
		mockDao.On("InsertCustomer", ctx, mock.AnythingOfType("*customer.Customer")).Return(dbError).Once()

		err := service.AddCustomer(ctx, req)

		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to insert customer")
		mockDao.AssertExpectations(t)
	})
}

func TestCustomerService_DeleteCustomerByID(t *testing.T) {
	ctx := context.Background()
	customerID := int64(7)

	t.Run("Success", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("ExistsCustomerWithID", ctx, customerID).Return(true, nil).Once()
		mockDao.On("DeleteCustomerByID", ctx, customerID).Return(nil).Once()

		err := service.DeleteCustomerByID(ctx, customerID)

		assert.NoError(t, err)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("ExistsCustomerWithID", ctx, customerID).Return(false, nil).Once()

		err := service.DeleteCustomerByID(ctx, customerID)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "Customer with id [7] not found")
		mockDao.AssertNotCalled(t, "DeleteCustomerByID", mock.Anything, mock.Anything)
	})

	t.Run("Error - Delete Failure", func(t *testing.T) {
		mockDao, service := setupTest()
		dbError := errors.New("lock timeout")
		mockDao.On("ExistsCustomerWithID", ctx, customerID).Return(true, nil).Once()
		mockDao.On("DeleteCustomerByID", ctx, customerID).Return(dbError).Once()

		err := service.DeleteCustomerByID(ctx, customerID)

		assert.ErrorIs(t, err, dbError)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
		mockDao.AssertExpectations(t)
	})
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()
	customerID := int64(3)
	current := func() *customer.Customer {
		return &customer.Customer{ID: customerID, Name: "Carl", Email: "c@x", Age: 20}
	}

	t.Run("Success - Name Only", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()
		mockDao.On("UpdateCustomer", ctx, customer.CustomerUpdate{ID: customerID, Name: ptr("Carlos")}).Return(nil).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{Name: ptr("Carlos")})

		assert.NoError(t, err)
		mockDao.AssertNotCalled(t, "ExistsCustomerWithEmail", mock.Anything, mock.Anything)
		mockDao.AssertExpectations(t)
	})

	t.Run("Success - Only Changed Fields Are Sent", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()
		mockDao.On("ExistsCustomerWithEmail", ctx, "carlos@x").Return(false, nil).Once()
		mockDao.On("UpdateCustomer", ctx, customer.CustomerUpdate{ID: customerID, Email: ptr("carlos@x"), Age: ptr(21)}).Return(nil).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{
			Name:  ptr("Carl"),
			Email: ptr("carlos@x"),
			Age:   ptr(21),
		})

		assert.NoError(t, err)
		mockDao.AssertExpectations(t)
	})

	t.Run("Success - Own Email Is Not A Duplicate", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()
		mockDao.On("UpdateCustomer", ctx, customer.CustomerUpdate{ID: customerID, Age: ptr(33)}).Return(nil).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{Email: ptr("c@x"), Age: ptr(33)})

		assert.NoError(t, err)
		mockDao.AssertNotCalled(t, "ExistsCustomerWithEmail", mock.Anything, mock.Anything)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{Name: ptr("Carlos")})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "Customer with id [3] not found")
		mockDao.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("Error - Duplicate Email Stops Other Changes", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()
		mockDao.On("ExistsCustomerWithEmail", ctx, "b@x").Return(true, nil).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{
			Name:  ptr("Carlos"),
			Email: ptr("b@x"),
			Age:   ptr(40),
		})

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.EqualError(t, err, "Email already taken")
		mockDao.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - All Fields Equal Current", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{
			Name:  ptr("Carl"),
			Email: ptr("c@x"),
			Age:   ptr(20),
		})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "no data changes found")
		mockDao.AssertNotCalled(t, "ExistsCustomerWithEmail", mock.Anything, mock.Anything)
		mockDao.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("Error - All Fields Absent", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{})

		var validation *apperrors.RequestValidationError
		assert.ErrorAs(t, err, &validation)
		mockDao.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("Error - Store Rejects Duplicate Email", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()
		mockDao.On("ExistsCustomerWithEmail", ctx, "d@x").Return(false, nil).Once()
		mockDao.On("UpdateCustomer", ctx, mock.Anything).Return(apperrors.ErrAlreadyExists).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{Email: ptr("d@x")})

		var dup *apperrors.DuplicateResourceError
		assert.ErrorAs(t, err, &dup)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Row Deleted Before Update", func(t *testing.T) {
		mockDao, service := setupTest()
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()
		mockDao.On("UpdateCustomer", ctx, mock.Anything).Return(apperrors.ErrNotFound).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{Age: ptr(50)})

		var notFound *apperrors.ResourceNotFoundError
		assert.ErrorAs(t, err, &notFound)
		mockDao.AssertExpectations(t)
	})

	t.Run("Error - Dao Update Failure", func(t *testing.T) {
		mockDao, service := setupTest()
		dbError := errors.New("connection lost")
		mockDao.On("SelectCustomerByID", ctx, customerID).Return(current(), nil).Once()
		mockDao.On("UpdateCustomer", ctx, mock.Anything).Return(dbError).Once()

		err := service.UpdateCustomer(ctx, customerID, customer.CustomerUpdateRequest{Age: ptr(50)})

		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to update customer 3")
		mockDao.AssertExpectations(t)
	})
}
