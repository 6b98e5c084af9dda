package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Directory maps external identities onto local principals: create on first
// sight, reactivate when soft-deleted, otherwise return the existing record
// untouched. Re-login for a known identity is idempotent.
type Directory struct {
	repo Repository
}

// NewDirectory wires a Directory with the provided repository.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// FindOrCreate resolves the external subject id to a principal, creating one
// with a fresh stable identifier when the identity has never been seen.
//
// Two first-logins for the same identity may race on the uniqueness constraint;
// the loser's insert fails with ErrDuplicateExternalID and the lookup is retried
// once instead of surfacing a conflict.
func (d *Directory) FindOrCreate(ctx context.Context, subjectID, nickname, email string) (*Principal, error) {
	existing, err := d.repo.FindByExternalID(ctx, ProviderGoogle, subjectID)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}
	if existing != nil {
		return d.reviveIfDeleted(ctx, existing)
	}

	now := time.Now().UTC()
	fresh := Principal{
		ID:         uuid.New(),
		StableID:   uuid.New(),
		Provider:   ProviderGoogle,
		ProviderID: subjectID,
		Nickname:   nickname,
		Email:      email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := d.repo.Create(ctx, fresh)
	if err == nil {
		return &created, nil
	}
	if !errors.Is(err, ErrDuplicateExternalID) {
		return nil, fmt.Errorf("create principal: %w", err)
	}

	// Lost the first-login race: the row exists now, take the lookup path.
	winner, err := d.repo.FindByExternalID(ctx, ProviderGoogle, subjectID)
	if err != nil {
		return nil, fmt.Errorf("find principal after race: %w", err)
	}
	if winner == nil {
		return nil, fmt.Errorf("find principal after race: %w", ErrNotFound)
	}
	return d.reviveIfDeleted(ctx, winner)
}

// reviveIfDeleted clears the soft-delete flag when set, preserving the stable
// identifier and creation history.
func (d *Directory) reviveIfDeleted(ctx context.Context, p *Principal) (*Principal, error) {
	if !p.IsDeleted {
		return p, nil
	}

	now := time.Now().UTC()
	if err := d.repo.Reactivate(ctx, p.ID, now); err != nil {
		return nil, fmt.Errorf("reactivate principal: %w", err)
	}
	p.IsDeleted = false
	p.UpdatedAt = now
	return p, nil
}

// FindByStableID materializes the principal a validated session token refers to.
// Missing and soft-deleted principals both report ErrNotFound.
func (d *Directory) FindByStableID(ctx context.Context, stableID uuid.UUID) (*Principal, error) {
	p, err := d.repo.FindByStableID(ctx, stableID)
	if err != nil {
		return nil, fmt.Errorf("find principal by stable id: %w", err)
	}
	if p == nil || p.IsDeleted {
		return nil, ErrNotFound
	}
	return p, nil
}
