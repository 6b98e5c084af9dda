package maintenance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, motorcycle_id, owner_id, title, detail, status, due_date, due_odometer_km, completed_at, created_at, updated_at`

// Create inserts a new task.
func (r *PostgresRepository) Create(ctx context.Context, task Task) (Task, error) {
	const query = `
		INSERT INTO maintenance_tasks (id, motorcycle_id, owner_id, title, detail, status, due_date, due_odometer_km, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.MotorcycleID,
		task.OwnerID,
		task.Title,
		task.Detail,
		task.Status,
		task.DueDate,
		task.DueOdometerKm,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}

	return task, nil
}

// Get returns a task by id, scoped to the owner.
func (r *PostgresRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM maintenance_tasks
		WHERE id = $1 AND owner_id = $2
	`

	var task Task
	if err := r.db.GetContext(ctx, &task, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

// ListForMotorcycle returns all tasks on one motorcycle, scoped to the owner.
func (r *PostgresRepository) ListForMotorcycle(ctx context.Context, ownerID, motorcycleID uuid.UUID) ([]Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM maintenance_tasks
		WHERE owner_id = $1 AND motorcycle_id = $2
		ORDER BY created_at DESC
	`

	tasks := []Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, ownerID, motorcycleID); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update replaces an existing task, scoped to the owner.
func (r *PostgresRepository) Update(ctx context.Context, task Task) (Task, error) {
	const query = `
		UPDATE maintenance_tasks
		SET title = $3, detail = $4, status = $5, due_date = $6, due_odometer_km = $7, completed_at = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Detail,
		task.Status,
		task.DueDate,
		task.DueOdometerKm,
		task.CompletedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Task{}, err
	}
	if affected == 0 {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// Delete removes a task by id, scoped to the owner.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `DELETE FROM maintenance_tasks WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
