package dto

import (
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validRequest = "Valid request"

func ptr[T any](v T) *T { return &v }

func TestCustomerRegistrationRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		request   CustomerRegistrationRequest
		wantField string
	}{
		{validRequest, CustomerRegistrationRequest{Name: "Alice", Email: "a@x", Age: ptr(30)}, ""},
		{"Zero age", CustomerRegistrationRequest{Name: "Alice", Email: "a@x", Age: ptr(0)}, ""},
		{"Blank name", CustomerRegistrationRequest{Name: "  ", Email: "a@x", Age: ptr(30)}, "name"},
		{"Empty email", CustomerRegistrationRequest{Name: "Alice", Email: "", Age: ptr(30)}, "email"},
		{"Missing age", CustomerRegistrationRequest{Name: "Alice", Email: "a@x"}, "age"},
		{"Negative age", CustomerRegistrationRequest{Name: "Alice", Email: "a@x", Age: ptr(-1)}, "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			var validationErr *apperrors.ValidationError
			if assert.ErrorAs(t, err, &validationErr) {
				assert.Equal(t, tt.wantField, validationErr.Field)
			}
		})
	}
}

func TestCustomerUpdateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request CustomerUpdateRequest
		wantErr bool
	}{
		{validRequest, CustomerUpdateRequest{Name: ptr("Carlos")}, false},
		{"All absent", CustomerUpdateRequest{}, false},
		{"Blank name", CustomerUpdateRequest{Name: ptr(" ")}, true},
		{"Empty email", CustomerUpdateRequest{Email: ptr("")}, true},
		{"Negative age", CustomerUpdateRequest{Age: ptr(-5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToDomain(t *testing.T) {
	reg := CustomerRegistrationRequest{Name: "Alice", Email: "a@x", Age: ptr(30)}
	assert.Equal(t, customer.CustomerRegistrationRequest{Name: "Alice", Email: "a@x", Age: 30}, reg.ToDomain())

	upd := CustomerUpdateRequest{Email: ptr("c@x")}
	domainUpd := upd.ToDomain()
	assert.Nil(t, domainUpd.Name)
	assert.Equal(t, "c@x", *domainUpd.Email)
	assert.Nil(t, domainUpd.Age)
}

func TestNewCustomerResponse(t *testing.T) {
	cust := &customer.Customer{ID: 4, Name: "Carl", Email: "c@x", Age: 20}

	assert.Equal(t, CustomerResponse{ID: 4, Name: "Carl", Email: "c@x", Age: 20}, NewCustomerResponse(cust))
	assert.Equal(t, CustomerResponse{}, NewCustomerResponse(nil))

	list := NewCustomerListResponse(nil)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Len(t, NewCustomerListResponse([]*customer.Customer{cust, cust}), 2)
}
