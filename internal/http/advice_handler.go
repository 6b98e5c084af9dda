package http

import (
	"context"
	"errors"
	"net/http"

	"log/slog"

	"motogarage/internal/advice"
	"motogarage/internal/garage"
	"motogarage/internal/maintenance"
)

// adviser is the slice of the advice service the handler needs.
type adviser interface {
	Advise(ctx context.Context, moto garage.Motorcycle, openTasks []maintenance.Task) (string, error)
}

// AdviceHandler serves maintenance advice for a motorcycle.
type AdviceHandler struct {
	adviser adviser
	garage  *garage.Service
	tasks   *maintenance.Service
	logger  *slog.Logger
}

// NewAdviceHandler creates a handler.
func NewAdviceHandler(adviser adviser, garageService *garage.Service, taskService *maintenance.Service, logger *slog.Logger) *AdviceHandler {
	return &AdviceHandler{
		adviser: adviser,
		garage:  garageService,
		tasks:   taskService,
		logger:  logger,
	}
}

// Advise handles GET /api/motorcycles/{id}/advice. It gathers the motorcycle
// and its open tasks, then asks the advice backend what to prioritize.
func (h *AdviceHandler) Advise(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	motoID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	moto, err := h.garage.Get(r.Context(), principal.User.StableID, motoID)
	if err != nil {
		handleGarageError(w, err, h.logger)
		return
	}

	openTasks, err := h.tasks.ListOpenForMotorcycle(r.Context(), principal.User.StableID, motoID)
	if err != nil {
		handleTaskError(w, err, h.logger)
		return
	}

	text, err := h.adviser.Advise(r.Context(), moto, openTasks)
	if err != nil {
		if errors.Is(err, advice.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "advice service is not configured")
			return
		}
		h.logger.Error("advice request failed", "error", err, "motorcycle_id", motoID)
		writeError(w, http.StatusBadGateway, "failed to fetch advice")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"motorcycleId": motoID,
		"advice":       text,
	})
}
