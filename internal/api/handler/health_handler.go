package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"loan-ledger/internal/api/handler/dto"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	respond *Responder
	logger  *slog.Logger
}

func NewHealthHandler(db Pinger, rs *Responder, l *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, respond: rs, logger: l.With("component", "HealthHandler")}
}

// Liveness handles GET /api/health
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, dto.HealthResponse{Message: "Server is healthy and running!"})
}

// Readiness handles GET /health
// @Summary Readiness probe
// @Description Reports unavailable when the database cannot be reached.
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.WarnContext(r.Context(), "Database ping failed", slog.Any("error", err))
			h.respond.JSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
			return
		}
	}
	h.respond.JSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}
