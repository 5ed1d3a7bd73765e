package handler

import (
	"log/slog"
	"net/http"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/loan"
)

type LoanHandler struct {
	service loan.LoanService
	respond *Responder
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, rs *Responder, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	return &LoanHandler{
		service: s,
		respond: rs,
		logger:  l.With("component", "LoanHandler"),
	}
}

// CreateLoan handles POST /api/loan/createLoan
// @Summary Create a loan
// @Description Issues a loan to an existing customer. A customer may hold one loan.
// @Description Interest and the end date are derived when omitted.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan terms"
// @Success 201 {object} dto.LoanEnvelope
// @Failure 400 {object} dto.ErrorResponse "Missing fields or the customer already has a loan"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/loan/createLoan [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	customerID, err := dto.ParseID("CustomerID", req.CustomerID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	terms, err := req.ToTerms()
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	created, err := h.service.CreateLoan(r.Context(), customerID, terms)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan created", slog.Int64("loanID", created.ID), slog.Int64("customerID", customerID))
	h.respond.JSON(w, http.StatusCreated, dto.LoanEnvelope{Message: "Loan created successfully!", Loan: dto.NewLoanResponse(created)})
}

// ListLoans handles GET /api/loan
// @Summary List loans
// @Description Fine and due payment are recomputed for today.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse
// @Router /api/loan [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context())
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewLoanResponses(loans))
}

// ListLoansByCustomer handles GET /api/loan/customer/{customerId}
// @Summary List a customer's loans
// @Tags Loans
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {array} dto.LoanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/loan/customer/{customerId} [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoansByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customerId", "customer")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	loans, err := h.service.ListLoansByCustomer(r.Context(), customerID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewLoanResponses(loans))
}

// GetLoan handles GET /api/loan/{id}
// @Summary Get a loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /api/loan/{id} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id", "loan")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// UpdateLoan handles PUT /api/loan/{id}
// @Summary Update loan terms
// @Description Payment totals are recomputed from recorded payments after the update.
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param request body dto.LoanRequest true "Loan terms"
// @Success 200 {object} dto.LoanEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/loan/{id} [put]
// @Security BearerAuth
func (h *LoanHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id", "loan")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	terms, err := req.ToTerms()
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}

	updated, err := h.service.UpdateLoan(r.Context(), loanID, terms)
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.JSON(w, http.StatusOK, dto.LoanEnvelope{Message: "Loan updated successfully!", Loan: dto.NewLoanResponse(updated)})
}

// DeleteLoan handles DELETE /api/loan/{id}
// @Summary Delete a loan
// @Description Payments recorded against the loan are kept.
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/loan/{id} [delete]
// @Security BearerAuth
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id", "loan")
	if err != nil {
		h.respond.Error(w, r, err)
		return
	}
	if err := h.service.DeleteLoan(r.Context(), loanID); err != nil {
		h.respond.Error(w, r, err)
		return
	}
	h.respond.Message(w, http.StatusOK, "Loan deleted successfully!")
}
