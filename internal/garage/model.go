package garage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a motorcycle cannot be located for the caller.
var ErrNotFound = errors.New("motorcycle not found")

// ErrValidation is returned when input validation fails.
var ErrValidation = errors.New("validation error")

// ValidationError wraps a validation message so callers can distinguish
// client errors from internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Motorcycle represents a tracked bike belonging to one principal.
type Motorcycle struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OwnerID    uuid.UUID `db:"owner_id" json:"-"`
	Name       string    `db:"name" json:"name"`
	Maker      string    `db:"maker" json:"maker"`
	Model      string    `db:"model" json:"model"`
	Year       *int      `db:"year" json:"year"`
	OdometerKm *int      `db:"odometer_km" json:"odometerKm"`
	Note       string    `db:"note" json:"note"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// CreateInput carries the fields accepted when registering a motorcycle.
type CreateInput struct {
	Name       string
	Maker      string
	Model      string
	Year       *int
	OdometerKm *int
	Note       string
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name       *string
	Maker      *string
	Model      *string
	Year       **int
	OdometerKm **int
	Note       *string
}

// Repository defines the persistence surface for motorcycles. All reads are
// owner-scoped; a motorcycle belonging to another owner behaves as absent.
type Repository interface {
	Create(ctx context.Context, moto Motorcycle) (Motorcycle, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (Motorcycle, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]Motorcycle, error)
	Update(ctx context.Context, moto Motorcycle) (Motorcycle, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
