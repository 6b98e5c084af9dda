package garage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxNameLength = 120
	minYear       = 1900
)

// Service orchestrates validation and persistence for motorcycles.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new motorcycle for the owner.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (Motorcycle, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return Motorcycle{}, err
	}
	if err := validateYear(input.Year); err != nil {
		return Motorcycle{}, err
	}
	if err := validateOdometer(input.OdometerKm); err != nil {
		return Motorcycle{}, err
	}

	now := time.Now().UTC()
	moto := Motorcycle{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       name,
		Maker:      strings.TrimSpace(input.Maker),
		Model:      strings.TrimSpace(input.Model),
		Year:       input.Year,
		OdometerKm: input.OdometerKm,
		Note:       strings.TrimSpace(input.Note),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return s.repo.Create(ctx, moto)
}

// Get returns a single motorcycle owned by the caller.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (Motorcycle, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// List returns the owner's motorcycles ordered by creation date descending.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Motorcycle, error) {
	motos, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(motos, func(a, b Motorcycle) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return motos, nil
}

// Update applies a partial update to a motorcycle owned by the caller.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateInput) (Motorcycle, error) {
	moto, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Motorcycle{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateName(name); err != nil {
			return Motorcycle{}, err
		}
		moto.Name = name
	}
	if input.Maker != nil {
		moto.Maker = strings.TrimSpace(*input.Maker)
	}
	if input.Model != nil {
		moto.Model = strings.TrimSpace(*input.Model)
	}
	if input.Year != nil {
		if err := validateYear(*input.Year); err != nil {
			return Motorcycle{}, err
		}
		moto.Year = *input.Year
	}
	if input.OdometerKm != nil {
		if err := validateOdometer(*input.OdometerKm); err != nil {
			return Motorcycle{}, err
		}
		moto.OdometerKm = *input.OdometerKm
	}
	if input.Note != nil {
		moto.Note = strings.TrimSpace(*input.Note)
	}

	moto.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, moto)
}

// Delete removes a motorcycle owned by the caller.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func validateName(name string) error {
	if name == "" {
		return &ValidationError{Message: "name is required"}
	}
	if len(name) > maxNameLength {
		return &ValidationError{Message: fmt.Sprintf("name exceeds %d characters", maxNameLength)}
	}
	return nil
}

func validateYear(year *int) error {
	if year == nil {
		return nil
	}
	maxYear := time.Now().UTC().Year() + 1
	if *year < minYear || *year > maxYear {
		return &ValidationError{Message: fmt.Sprintf("year must be between %d and %d", minYear, maxYear)}
	}
	return nil
}

func validateOdometer(km *int) error {
	if km != nil && *km < 0 {
		return &ValidationError{Message: "odometer must not be negative"}
	}
	return nil
}
