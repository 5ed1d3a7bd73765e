package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/payment"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service  customer.CustomerService
	payments payment.PaymentService
	respond  *Responder
	logger   *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, ps payment.PaymentService, rs *Responder, l *slog.Logger) *CustomerHandler {
	if s == nil || ps == nil {
		panic("customer handler requires customer and payment services")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service:  s,
		payments: ps,
		respond:  rs,
		logger:   l.With("component", "CustomerHandler"),
	}
}

// CreateCustomer handles POST /api/customers
// @Summary Create a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerEnvelope
// @Failure 400 {object} dto.ErrorResponse "Missing fields or duplicate ID number"
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	details, err := req.ToDetails()
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), details)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created", slog.Int64("customerID", created.ID))
	h.respond.JSON(w, http.StatusCreated, dto.CustomerEnvelope{Message: "Customer added successfully!", Customer: dto.NewCustomerResponse(created)})
}

// ListCustomers handles GET /api/customers
// @Summary List customers
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewCustomerResponses(customers))
}

// GetCustomer handles GET /api/customers/{id}
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /api/customers/{id} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "id", "customer")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	c, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewCustomerResponse(c))
}

// UpdateCustomer handles PUT /api/customers/{id}
// @Summary Update a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID" Minimum(1)
// @Param request body dto.CustomerRequest true "Customer details"
// @Success 200 {object} dto.CustomerEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/customers/{id} [put]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "id", "customer")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	details, err := req.ToDetails()
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	updated, err := h.service.UpdateCustomer(r.Context(), customerID, details)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.CustomerEnvelope{Message: "Customer updated successfully!", Customer: dto.NewCustomerResponse(updated)})
}

// DeleteCustomer handles DELETE /api/customers/{id}
// @Summary Delete a customer
// @Description Loans and payments of the customer are kept.
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/customers/{id} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "id", "customer")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.Message(w, http.StatusOK, "Customer deleted successfully!")
}

// PaymentHistory handles GET /api/customers/{id}/payments
// @Summary Customer payment history
// @Description The path segment is the customer's full name.
// @Tags Customers
// @Produce json
// @Param id path string true "Customer full name"
// @Success 200 {array} dto.PaymentHistoryResponse
// @Failure 404 {object} dto.ErrorResponse "Customer or payments not found"
// @Router /api/customers/{id}/payments [get]
// @Security BearerAuth
func (h *CustomerHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	fullName := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(fullName); err == nil {
		fullName = unescaped
	}

	history, err := h.payments.ListCustomerPayments(r.Context(), fullName)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewPaymentHistory(history))
}
