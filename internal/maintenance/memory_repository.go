package maintenance

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository stores tasks in an in-process map, ideal for local
// development or tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Task
}

// NewInMemoryRepository constructs a repository seeded with optional initial tasks.
func NewInMemoryRepository(initial []Task) *InMemoryRepository {
	data := make(map[uuid.UUID]Task, len(initial))
	for _, task := range initial {
		data[task.ID] = task
	}
	return &InMemoryRepository{data: data}
}

// Create stores a new task.
func (r *InMemoryRepository) Create(_ context.Context, task Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[task.ID] = task
	return task, nil
}

// Get returns a task by id, scoped to the owner.
func (r *InMemoryRepository) Get(_ context.Context, ownerID, id uuid.UUID) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.data[id]
	if !ok || task.OwnerID != ownerID {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// ListForMotorcycle returns all tasks on one motorcycle, scoped to the owner.
func (r *InMemoryRepository) ListForMotorcycle(_ context.Context, ownerID, motorcycleID uuid.UUID) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]Task, 0)
	for _, task := range r.data {
		if task.OwnerID == ownerID && task.MotorcycleID == motorcycleID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Update replaces an existing task, scoped to the owner.
func (r *InMemoryRepository) Update(_ context.Context, task Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return Task{}, ErrNotFound
	}
	r.data[task.ID] = task
	return task, nil
}

// Delete removes a task by id, scoped to the owner.
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
