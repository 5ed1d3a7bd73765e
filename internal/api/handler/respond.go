package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

const msgInternalError = "Internal server error"

// Responder writes JSON bodies. Error details are only exposed in development.
type Responder struct {
	exposeDetails bool
	logger        *slog.Logger
}

func NewResponder(exposeDetails bool, logger *slog.Logger) *Responder {
	return &Responder{exposeDetails: exposeDetails, logger: logger}
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		rs.logger.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func (rs *Responder) Message(w http.ResponseWriter, status int, message string) {
	rs.JSON(w, status, dto.MessageResponse{Message: message})
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	resp := dto.ErrorResponse{Message: errorMessage(err, status)}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Field = validationErr.Field
	}

	if status >= http.StatusInternalServerError {
		rs.logger.ErrorContext(r.Context(), "Request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		if rs.exposeDetails {
			resp.Error = err.Error()
		}
	}
	rs.JSON(w, status, resp)
}

func errorMessage(err error, status int) string {
	var validationErr *apperrors.ValidationError
	var appErr *apperrors.AppError
	switch {
	case status >= http.StatusInternalServerError:
		return msgInternalError
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &appErr):
		return appErr.Message
	default:
		return err.Error()
	}
}

func pathID(r *http.Request, param, label string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(param, fmt.Sprintf("Invalid %s ID!", label))
	}
	return id, nil
}
