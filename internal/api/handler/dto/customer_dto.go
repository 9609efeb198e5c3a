package dto

import (
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"strings"
)

type CustomerRegistrationRequest struct {
	Name  string `json:"name" example:"Alice"`
	Email string `json:"email" example:"alice@example.com"`
	Age   *int   `json:"age" example:"30"`
}

func (r *CustomerRegistrationRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.NewValidationError("name", "name cannot be empty")
	}
	if strings.TrimSpace(r.Email) == "" {
		return apperrors.NewValidationError("email", "email cannot be empty")
	}
	if r.Age == nil {
		return apperrors.NewValidationError("age", "age is required")
	}
	if *r.Age < 0 {
		return apperrors.NewValidationError("age", "age cannot be negative")
	}
	return nil
}

func (r *CustomerRegistrationRequest) ToDomain() customer.CustomerRegistrationRequest {
	req := customer.CustomerRegistrationRequest{Name: r.Name, Email: r.Email}
	if r.Age != nil {
		req.Age = *r.Age
	}
	return req
}

// CustomerUpdateRequest is a partial update; omitted fields stay unchanged.
type CustomerUpdateRequest struct {
	Name  *string `json:"name,omitempty" example:"Carlos"`
	Email *string `json:"email,omitempty" example:"carlos@example.com"`
	Age   *int    `json:"age,omitempty" example:"21"`
}

func (r *CustomerUpdateRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return apperrors.NewValidationError("name", "name cannot be empty")
	}
	if r.Email != nil && strings.TrimSpace(*r.Email) == "" {
		return apperrors.NewValidationError("email", "email cannot be empty")
	}
	if r.Age != nil && *r.Age < 0 {
		return apperrors.NewValidationError("age", "age cannot be negative")
	}
	return nil
}

func (r *CustomerUpdateRequest) ToDomain() customer.CustomerUpdateRequest {
	return customer.CustomerUpdateRequest{Name: r.Name, Email: r.Email, Age: r.Age}
}

type CustomerResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Alice"`
	Email string `json:"email" example:"alice@example.com"`
	Age   int    `json:"age" example:"30"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:    cust.ID,
		Name:  cust.Name,
		Email: cust.Email,
		Age:   cust.Age,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}

type PingResponse struct {
	Result string `json:"result" example:"Pong"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
