package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a task cannot be located for the caller.
var ErrNotFound = errors.New("maintenance task not found")

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

// Status tracks a task's lifecycle.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// Task represents one maintenance item on a motorcycle.
type Task struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	MotorcycleID  uuid.UUID  `db:"motorcycle_id" json:"motorcycleId"`
	OwnerID       uuid.UUID  `db:"owner_id" json:"-"`
	Title         string     `db:"title" json:"title"`
	Detail        string     `db:"detail" json:"detail"`
	Status        Status     `db:"status" json:"status"`
	DueDate       *time.Time `db:"due_date" json:"dueDate"`
	DueOdometerKm *int       `db:"due_odometer_km" json:"dueOdometerKm"`
	CompletedAt   *time.Time `db:"completed_at" json:"completedAt"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// CreateInput carries the fields accepted when registering a task.
type CreateInput struct {
	Title         string
	Detail        string
	DueDate       *time.Time
	DueOdometerKm *int
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Title         *string
	Detail        *string
	DueDate       **time.Time
	DueOdometerKm **int
}

// Repository defines the persistence surface for tasks. All reads are
// owner-scoped; a task belonging to another owner behaves as absent.
type Repository interface {
	Create(ctx context.Context, task Task) (Task, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (Task, error)
	ListForMotorcycle(ctx context.Context, ownerID, motorcycleID uuid.UUID) ([]Task, error)
	Update(ctx context.Context, task Task) (Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
