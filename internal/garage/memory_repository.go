package garage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository stores motorcycles in an in-process map, ideal for local
// development or tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Motorcycle
}

// NewInMemoryRepository constructs a repository seeded with optional initial motorcycles.
func NewInMemoryRepository(initial []Motorcycle) *InMemoryRepository {
	data := make(map[uuid.UUID]Motorcycle, len(initial))
	for _, moto := range initial {
		data[moto.ID] = moto
	}
	return &InMemoryRepository{data: data}
}

// Create stores a new motorcycle.
func (r *InMemoryRepository) Create(_ context.Context, moto Motorcycle) (Motorcycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[moto.ID] = moto
	return moto, nil
}

// Get returns a motorcycle by id, scoped to the owner.
func (r *InMemoryRepository) Get(_ context.Context, ownerID, id uuid.UUID) (Motorcycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	moto, ok := r.data[id]
	if !ok || moto.OwnerID != ownerID {
		return Motorcycle{}, ErrNotFound
	}
	return moto, nil
}

// List returns all motorcycles belonging to the owner.
func (r *InMemoryRepository) List(_ context.Context, ownerID uuid.UUID) ([]Motorcycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	motos := make([]Motorcycle, 0)
	for _, moto := range r.data {
		if moto.OwnerID == ownerID {
			motos = append(motos, moto)
		}
	}
	return motos, nil
}

// Update replaces an existing motorcycle, scoped to the owner.
func (r *InMemoryRepository) Update(_ context.Context, moto Motorcycle) (Motorcycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[moto.ID]
	if !ok || existing.OwnerID != moto.OwnerID {
		return Motorcycle{}, ErrNotFound
	}
	r.data[moto.ID] = moto
	return moto, nil
}

// Delete removes a motorcycle by id, scoped to the owner.
func (r *InMemoryRepository) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[id]
	if !ok || existing.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}
