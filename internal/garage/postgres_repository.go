package garage

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

const motorcycleColumns = `id, owner_id, name, maker, model, year, odometer_km, note, created_at, updated_at`

// Create inserts a new motorcycle.
func (r *PostgresRepository) Create(ctx context.Context, moto Motorcycle) (Motorcycle, error) {
	const query = `
		INSERT INTO motorcycles (id, owner_id, name, maker, model, year, odometer_km, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		moto.ID,
		moto.OwnerID,
		moto.Name,
		moto.Maker,
		moto.Model,
		moto.Year,
		moto.OdometerKm,
		moto.Note,
		moto.CreatedAt,
		moto.UpdatedAt,
	)
	if err != nil {
		return Motorcycle{}, err
	}

	return moto, nil
}

// Get returns a motorcycle by id, scoped to the owner.
func (r *PostgresRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (Motorcycle, error) {
	const query = `
		SELECT ` + motorcycleColumns + `
		FROM motorcycles
		WHERE id = $1 AND owner_id = $2
	`

	var moto Motorcycle
	if err := r.db.GetContext(ctx, &moto, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Motorcycle{}, ErrNotFound
		}
		return Motorcycle{}, err
	}
	return moto, nil
}

// List returns all motorcycles belonging to the owner.
func (r *PostgresRepository) List(ctx context.Context, ownerID uuid.UUID) ([]Motorcycle, error) {
	const query = `
		SELECT ` + motorcycleColumns + `
		FROM motorcycles
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	motos := []Motorcycle{}
	if err := r.db.SelectContext(ctx, &motos, query, ownerID); err != nil {
		return nil, err
	}
	return motos, nil
}

// Update replaces an existing motorcycle, scoped to the owner.
func (r *PostgresRepository) Update(ctx context.Context, moto Motorcycle) (Motorcycle, error) {
	const query = `
		UPDATE motorcycles
		SET name = $3, maker = $4, model = $5, year = $6, odometer_km = $7, note = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		moto.ID,
		moto.OwnerID,
		moto.Name,
		moto.Maker,
		moto.Model,
		moto.Year,
		moto.OdometerKm,
		moto.Note,
		moto.UpdatedAt,
	)
	if err != nil {
		return Motorcycle{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Motorcycle{}, err
	}
	if affected == 0 {
		return Motorcycle{}, ErrNotFound
	}
	return moto, nil
}

// Delete removes a motorcycle by id, scoped to the owner.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `DELETE FROM motorcycles WHERE id = $1 AND owner_id = $2`

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
