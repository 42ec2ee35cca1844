package category

import (
	"context"
	"sort"
	"sync"

	"shophub/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Category
	nextID int64
}

func NewMemory() Repository {
	return &memoryRepo{byID: make(map[int64]domain.Category), nextID: 1}
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Slug == c.Slug {
			return nil, domain.ErrConflict
		}
	}

	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = c
	return &c, nil
}
