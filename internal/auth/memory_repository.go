package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores principals in an in-process map, ideal for local
// development or tests. It enforces the same external-identity uniqueness the
// Postgres schema does.
type InMemoryRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]Principal
	byExternal map[string]uuid.UUID
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:       make(map[uuid.UUID]Principal),
		byExternal: make(map[string]uuid.UUID),
	}
}

func externalKey(provider, providerID string) string {
	return provider + "\x00" + providerID
}

// FindByExternalID returns the principal registered for the provider-scoped
// subject id, or nil when unseen.
func (r *InMemoryRepository) FindByExternalID(_ context.Context, provider, providerID string) (*Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternal[externalKey(provider, providerID)]
	if !ok {
		return nil, nil
	}
	p := r.byID[id]
	return &p, nil
}

// FindByStableID returns the principal with the given stable identifier, or nil.
func (r *InMemoryRepository) FindByStableID(_ context.Context, stableID uuid.UUID) (*Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.StableID == stableID {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// Create inserts a principal, refusing duplicate external identities.
func (r *InMemoryRepository) Create(_ context.Context, principal Principal) (Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := externalKey(principal.Provider, principal.ProviderID)
	if _, exists := r.byExternal[key]; exists {
		return Principal{}, ErrDuplicateExternalID
	}

	r.byID[principal.ID] = principal
	r.byExternal[key] = principal.ID
	return principal, nil
}

// Reactivate clears the soft-delete flag on an existing principal.
func (r *InMemoryRepository) Reactivate(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.IsDeleted = false
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}

// MarkDeleted sets the soft-delete flag; used by seeding and tests.
func (r *InMemoryRepository) MarkDeleted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.IsDeleted = true
	p.UpdatedAt = time.Now().UTC()
	r.byID[id] = p
	return nil
}
