package handler

import (
	"customer-service/internal/api/handler/dto"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// logServiceError logs expected domain failures at Warn and everything else at Error.
func (h *CustomerHandler) logServiceError(r *http.Request, msg string, err error) {
	level := slog.LevelError
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrAlreadyExists) || errors.Is(err, apperrors.ErrValidation) {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, msg, slog.Any("error", err))
}

// GetCustomers handles GET /api/v1/customers
// @Summary List customers
// @Description Retrieves every registered customer.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/customers [get]
func (h *CustomerHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.GetAllCustomers(r.Context())
	if err != nil {
		h.logServiceError(r, "Service failed to list customers", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(customers))
}

// GetCustomer handles GET /api/v1/customers/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves a single customer by id.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(0)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/customers/{customerID} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	cust, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.logServiceError(r, "Service failed to get customer", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// RegisterCustomer handles POST /api/v1/customers
// @Summary Register a customer
// @Description Registers a new customer. The email must not be in use.
// @Tags Customers
// @Accept json
// @Param request body dto.CustomerRegistrationRequest true "Customer registration request"
// @Success 200 "Customer registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/customers [post]
func (h *CustomerHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Registration request validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if err := h.service.AddCustomer(r.Context(), req.ToDomain()); err != nil {
		h.logServiceError(r, "Service failed to register customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer registered")
	w.WriteHeader(http.StatusOK)
}

// DeleteCustomer handles DELETE /api/v1/customers/{customerID}
// @Summary Delete a customer
// @Tags Customers
// @Param customerID path int true "Customer ID" Minimum(0)
// @Success 200 "Customer deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/customers/{customerID} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if err := h.service.DeleteCustomerByID(r.Context(), customerID); err != nil {
		h.logServiceError(r, "Service failed to delete customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted", slog.Int64("customerID", customerID))
	w.WriteHeader(http.StatusOK)
}

// UpdateCustomer handles PUT /api/v1/customers/{customerID}
// @Summary Update a customer
// @Description Partially updates a customer. Omitted fields are left unchanged; a request that changes nothing is rejected.
// @Tags Customers
// @Accept json
// @Param customerID path int true "Customer ID" Minimum(0)
// @Param request body dto.CustomerUpdateRequest true "Fields to change"
// @Success 200 "Customer updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or no data changes found"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Email already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/customers/{customerID} [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.CustomerUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Update request validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if err := h.service.UpdateCustomer(r.Context(), customerID, req.ToDomain()); err != nil {
		h.logServiceError(r, "Service failed to update customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer updated", slog.Int64("customerID", customerID))
	w.WriteHeader(http.StatusOK)
}
