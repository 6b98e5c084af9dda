package maintenance

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"motogarage/internal/garage"
)

const maxTitleLength = 200

// MotorcycleDirectory is the slice of the garage service tasks need: proving
// that a motorcycle exists and belongs to the caller.
type MotorcycleDirectory interface {
	Get(ctx context.Context, ownerID, id uuid.UUID) (garage.Motorcycle, error)
}

// Service orchestrates validation and persistence for maintenance tasks.
type Service struct {
	repo  Repository
	motos MotorcycleDirectory
}

// NewService wires a Service with the provided repository and garage lookup.
func NewService(repo Repository, motos MotorcycleDirectory) *Service {
	return &Service{repo: repo, motos: motos}
}

// Create validates and persists a new task on one of the caller's motorcycles.
func (s *Service) Create(ctx context.Context, ownerID, motorcycleID uuid.UUID, input CreateInput) (Task, error) {
	if _, err := s.motos.Get(ctx, ownerID, motorcycleID); err != nil {
		return Task{}, err
	}

	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return Task{}, err
	}
	if err := validateDueOdometer(input.DueOdometerKm); err != nil {
		return Task{}, err
	}

	now := time.Now().UTC()
	task := Task{
		ID:            uuid.New(),
		MotorcycleID:  motorcycleID,
		OwnerID:       ownerID,
		Title:         title,
		Detail:        strings.TrimSpace(input.Detail),
		Status:        StatusOpen,
		DueDate:       input.DueDate,
		DueOdometerKm: input.DueOdometerKm,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return s.repo.Create(ctx, task)
}

// Get returns a single task owned by the caller.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (Task, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// ListForMotorcycle returns the tasks on one of the caller's motorcycles,
// open tasks first, then by creation date descending.
func (s *Service) ListForMotorcycle(ctx context.Context, ownerID, motorcycleID uuid.UUID) ([]Task, error) {
	if _, err := s.motos.Get(ctx, ownerID, motorcycleID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListForMotorcycle(ctx, ownerID, motorcycleID)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tasks, func(a, b Task) int {
		if a.Status != b.Status {
			if a.Status == StatusOpen {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return tasks, nil
}

// ListOpenForMotorcycle returns only the open tasks, for the advice prompt.
func (s *Service) ListOpenForMotorcycle(ctx context.Context, ownerID, motorcycleID uuid.UUID) ([]Task, error) {
	tasks, err := s.ListForMotorcycle(ctx, ownerID, motorcycleID)
	if err != nil {
		return nil, err
	}

	open := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == StatusOpen {
			open = append(open, task)
		}
	}
	return open, nil
}

// Update applies a partial update to a task owned by the caller.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateInput) (Task, error) {
	task, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return Task{}, err
		}
		task.Title = title
	}
	if input.Detail != nil {
		task.Detail = strings.TrimSpace(*input.Detail)
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.DueOdometerKm != nil {
		if err := validateDueOdometer(*input.DueOdometerKm); err != nil {
			return Task{}, err
		}
		task.DueOdometerKm = *input.DueOdometerKm
	}

	task.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, task)
}

// Complete marks a task done. Completing an already-done task is a no-op that
// returns the current state.
func (s *Service) Complete(ctx context.Context, ownerID, id uuid.UUID) (Task, error) {
	task, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Task{}, err
	}
	if task.Status == StatusDone {
		return task, nil
	}

	now := time.Now().UTC()
	task.Status = StatusDone
	task.CompletedAt = &now
	task.UpdatedAt = now
	return s.repo.Update(ctx, task)
}

// Delete removes a task owned by the caller.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func validateTitle(title string) error {
	if title == "" {
		return &ValidationError{Message: "title is required"}
	}
	if len(title) > maxTitleLength {
		return &ValidationError{Message: fmt.Sprintf("title exceeds %d characters", maxTitleLength)}
	}
	return nil
}

func validateDueOdometer(km *int) error {
	if km != nil && *km < 0 {
		return &ValidationError{Message: "due odometer must not be negative"}
	}
	return nil
}
