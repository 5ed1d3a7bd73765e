package handler

import (
	"log/slog"
	"net/http"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/payment"
)

type PaymentHandler struct {
	service payment.PaymentService
	respond *Responder
	logger  *slog.Logger
}

func NewPaymentHandler(s payment.PaymentService, rs *Responder, l *slog.Logger) *PaymentHandler {
	if s == nil {
		panic("payment service cannot be nil")
	}
	return &PaymentHandler{
		service: s,
		respond: rs,
		logger:  l.With("component", "PaymentHandler"),
	}
}

func (h *PaymentHandler) decodeInput(r *http.Request) (payment.Input, error) {
	var req dto.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		return payment.Input{}, err
	}
	return req.ToInput()
}

// CreatePayment handles POST /api/payment
// @Summary Record a payment
// @Description Assigns a 4-digit receipt number and recomputes the loan's totals.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.PaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentEnvelope
// @Failure 400 {object} dto.ErrorResponse "LoanID, idNumber, Amount and date are required"
// @Failure 404 {object} dto.ErrorResponse "Customer or loan not found"
// @Failure 409 {object} dto.ErrorResponse "Receipt number collision, retry the request"
// @Router /api/payment [post]
// @Security BearerAuth
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	created, err := h.service.CreatePayment(r.Context(), in)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Payment created", slog.Int64("paymentID", created.ID), slog.String("receiptNumber", created.ReceiptNumber))
	h.respond.JSON(w, http.StatusCreated, dto.PaymentEnvelope{Message: "Payment created successfully!", Payment: dto.NewPaymentResponse(created)})
}

// ListPayments handles GET /api/payment
// @Summary List payments
// @Tags Payments
// @Produce json
// @Success 200 {array} dto.PaymentResponse
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /api/payment [get]
// @Security BearerAuth
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewPaymentResponses(payments))
}

// GetPayment handles GET /api/payment/{id}
// @Summary Get a payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /api/payment/{id} [get]
// @Security BearerAuth
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "id", "payment")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	p, err := h.service.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewPaymentResponse(p))
}

// UpdatePayment handles PUT /api/payment/{id}
// @Summary Correct a payment
// @Description The receipt number never changes. Totals of the old and new loan are recomputed.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body dto.PaymentRequest true "Payment"
// @Success 200 {object} dto.PaymentEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/payment/{id} [put]
// @Security BearerAuth
func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "id", "payment")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	in, err := h.decodeInput(r)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	updated, err := h.service.UpdatePayment(r.Context(), paymentID, in)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.PaymentEnvelope{Message: "Payment updated successfully!", Payment: dto.NewPaymentResponse(updated)})
}

// DeletePayment handles DELETE /api/payment/{id}
// @Summary Delete a payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/payment/{id} [delete]
// @Security BearerAuth
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "id", "payment")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if err := h.service.DeletePayment(r.Context(), paymentID); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.Message(w, http.StatusOK, "Payment deleted successfully!")
}
