package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"motogarage/internal/garage"
	"motogarage/internal/maintenance"
)

// TaskHandler exposes maintenance task endpoints.
type TaskHandler struct {
	service *maintenance.Service
	logger  *slog.Logger
}

// NewTaskHandler creates a handler.
func NewTaskHandler(service *maintenance.Service, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// Create registers a task on one of the caller's motorcycles.
// Handles POST /api/motorcycles/{id}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	motoID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var payload struct {
		Title         string     `json:"title"`
		Detail        string     `json:"detail"`
		DueDate       *time.Time `json:"dueDate"`
		DueOdometerKm *int       `json:"dueOdometerKm"`
	}
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), principal.User.StableID, motoID, maintenance.CreateInput{
		Title:         payload.Title,
		Detail:        payload.Detail,
		DueDate:       payload.DueDate,
		DueOdometerKm: payload.DueOdometerKm,
	})
	if err != nil {
		handleTaskError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// ListForMotorcycle handles GET /api/motorcycles/{id}/tasks.
func (h *TaskHandler) ListForMotorcycle(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	motoID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	tasks, err := h.service.ListForMotorcycle(r.Context(), principal.User.StableID, motoID)
	if err != nil {
		handleTaskError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), principal.User.StableID, id)
	if err != nil {
		handleTaskError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}. Absent fields are left untouched;
// dueDate and dueOdometerKm can be cleared by sending an explicit null.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
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
		Title         *string    `json:"title"`
		Detail        *string    `json:"detail"`
		DueDate       *time.Time `json:"dueDate"`
		DueOdometerKm *int       `json:"dueOdometerKm"`
	}
	if err := decodeInto(raw, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := maintenance.UpdateInput{}
	if _, ok := raw["title"]; ok {
		input.Title = payload.Title
	}
	if _, ok := raw["detail"]; ok {
		input.Detail = payload.Detail
	}
	if _, ok := raw["dueDate"]; ok {
		value := payload.DueDate
		input.DueDate = &value
	}
	if _, ok := raw["dueOdometerKm"]; ok {
		value := payload.DueOdometerKm
		input.DueOdometerKm = &value
	}

	task, err := h.service.Update(r.Context(), principal.User.StableID, id, input)
	if err != nil {
		handleTaskError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Complete handles POST /api/tasks/{id}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		unauthorized(w)
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.Complete(r.Context(), principal.User.StableID, id)
	if err != nil {
		handleTaskError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		handleTaskError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleTaskError(w http.ResponseWriter, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, maintenance.ErrNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, garage.ErrNotFound):
		writeError(w, http.StatusNotFound, "motorcycle not found")
	case errors.Is(err, maintenance.ErrValidation), errors.Is(err, garage.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("maintenance service error", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
