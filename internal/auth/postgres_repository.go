package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pqUniqueViolation pq.ErrorCode = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByExternalID looks up a principal by provider-scoped external subject id.
func (r *PostgresRepository) FindByExternalID(ctx context.Context, provider, providerID string) (*Principal, error) {
	const query = `
		SELECT id, stable_id, oauth_provider, oauth_provider_id, nickname, email, roles, is_deleted, created_at, updated_at
		FROM users
		WHERE oauth_provider = $1 AND oauth_provider_id = $2
	`

	var row principalRow
	if err := r.db.GetContext(ctx, &row, query, provider, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row.toPrincipal(), nil
}

// FindByStableID looks up a principal by its stable identifier.
func (r *PostgresRepository) FindByStableID(ctx context.Context, stableID uuid.UUID) (*Principal, error) {
	const query = `
		SELECT id, stable_id, oauth_provider, oauth_provider_id, nickname, email, roles, is_deleted, created_at, updated_at
		FROM users
		WHERE stable_id = $1
	`

	var row principalRow
	if err := r.db.GetContext(ctx, &row, query, stableID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row.toPrincipal(), nil
}

// Create inserts a new principal. A collision on the provider-scoped unique
// constraint maps to ErrDuplicateExternalID for the directory's race handling.
func (r *PostgresRepository) Create(ctx context.Context, principal Principal) (Principal, error) {
	const query = `
		INSERT INTO users (id, stable_id, oauth_provider, oauth_provider_id, nickname, email, roles, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	email := sql.NullString{String: principal.Email, Valid: principal.Email != ""}

	_, err := r.db.ExecContext(ctx, query,
		principal.ID,
		principal.StableID,
		principal.Provider,
		principal.ProviderID,
		principal.Nickname,
		email,
		principal.Roles,
		principal.IsDeleted,
		principal.CreatedAt,
		principal.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Principal{}, ErrDuplicateExternalID
		}
		return Principal{}, err
	}

	return principal, nil
}

// Reactivate clears the soft-delete flag on an existing principal.
func (r *PostgresRepository) Reactivate(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `
		UPDATE users
		SET is_deleted = FALSE, updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
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

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// principalRow is a database row representation of Principal.
type principalRow struct {
	ID         uuid.UUID      `db:"id"`
	StableID   uuid.UUID      `db:"stable_id"`
	Provider   string         `db:"oauth_provider"`
	ProviderID string         `db:"oauth_provider_id"`
	Nickname   string         `db:"nickname"`
	Email      sql.NullString `db:"email"`
	Roles      string         `db:"roles"`
	IsDeleted  bool           `db:"is_deleted"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r *principalRow) toPrincipal() *Principal {
	return &Principal{
		ID:         r.ID,
		StableID:   r.StableID,
		Provider:   r.Provider,
		ProviderID: r.ProviderID,
		Nickname:   r.Nickname,
		Email:      r.Email.String,
		Roles:      r.Roles,
		IsDeleted:  r.IsDeleted,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
