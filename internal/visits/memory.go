package visits

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Repository. It backs the service when no
// database is configured and is the fixture for service tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	visits map[string]*Visit // keyed by visit ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{visits: make(map[string]*Visit)}
}

func (r *MemoryRepository) Create(_ context.Context, v *Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *v
	r.visits[v.ID] = &stored
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, userID, visitID string) (*Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.visits[visitID]
	if !ok || v.UserID != userID {
		return nil, ErrNotFound
	}
	out := *v
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context, userID string) ([]*Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Visit, 0)
	for _, v := range r.visits {
		if v.UserID != userID {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, v *Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.visits[v.ID]
	if !ok || existing.UserID != v.UserID {
		return ErrNotFound
	}
	stored := *v
	r.visits[v.ID] = &stored
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, visitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visits[visitID]
	if !ok || v.UserID != userID {
		return ErrNotFound
	}
	delete(r.visits, visitID)
	return nil
}
