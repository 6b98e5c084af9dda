package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"motogarage/internal/garage"
)

// MotoHandler exposes motorcycle CRUD endpoints.
type MotoHandler struct {
	service *garage.Service
	logger  *slog.Logger
}

// NewMotoHandler creates a handler.
func NewMotoHandler(service *garage.Service, logger *slog.Logger) *MotoHandler {
	return &MotoHandler{service: service, logger: logger}
}

// List returns the caller's motorcycles.
func (h *MotoHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}

	motos, err := h.service.List(r.Context(), principal.User.StableID)
	if err != nil {
		h.logger.Error("list motorcycles", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list motorcycles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"motorcycles": motos})
}

// Create registers a new motorcycle.
func (h *MotoHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}

	var payload struct {
		Name       string `json:"name"`
		Maker      string `json:"maker"`
		Model      string `json:"model"`
		Year       *int   `json:"year"`
		OdometerKm *int   `json:"odometerKm"`
		Note       string `json:"note"`
	}

	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	moto, err := h.service.Create(r.Context(), principal.User.StableID, garage.CreateInput{
		Name:       payload.Name,
		Maker:      payload.Maker,
		Model:      payload.Model,
		Year:       payload.Year,
		OdometerKm: payload.OdometerKm,
		Note:       payload.Note,
	})
	if err != nil {
		if errors.Is(err, garage.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create motorcycle", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create motorcycle")
		return
	}

	writeJSON(w, http.StatusCreated, moto)
}

// Get returns a single motorcycle.
func (h *MotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	moto, err := h.service.Get(r.Context(), principal.User.StableID, id)
	if err != nil {
		handleGarageError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, moto)
}

// Update modifies a motorcycle.
func (h *MotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	raw := map[string]json.RawMessage{}
	if err := decodeJSONBody(w, r, &raw); err != nil {
		writeJSONError(w, err)
		return
	}

	var payload struct {
		Name       *string `json:"name"`
		Maker      *string `json:"maker"`
		Model      *string `json:"model"`
		Year       *int    `json:"year"`
		OdometerKm *int    `json:"odometerKm"`
		Note       *string `json:"note"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := garage.UpdateInput{}
	if _, ok := raw["name"]; ok {
		input.Name = payload.Name
	}
	if _, ok := raw["maker"]; ok {
		input.Maker = payload.Maker
	}
	if _, ok := raw["model"]; ok {
		input.Model = payload.Model
	}
	if _, ok := raw["year"]; ok {
		value := payload.Year
		input.Year = &value
	}
	if _, ok := raw["odometerKm"]; ok {
		value := payload.OdometerKm
		input.OdometerKm = &value
	}
	if _, ok := raw["note"]; ok {
		input.Note = payload.Note
	}

	moto, err := h.service.Update(r.Context(), principal.User.StableID, id, input)
	if err != nil {
		handleGarageError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, moto)
}

// Delete removes a motorcycle.
func (h *MotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal.User.StableID, id); err != nil {
		handleGarageError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	value := chi.URLParam(r, key)
	id, err := uuid.Parse(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func handleGarageError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if errors.Is(err, garage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "motorcycle not found")
		return
	}
	if errors.Is(err, garage.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Error("garage service error", "error", err)
	writeError(w, http.StatusInternalServerError, "unexpected error")
}
