package product

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shophub/internal/domain"
)

// memoryRepo keeps products in a mutex-guarded map with incrementing ids.
// Unlike the single-threaded runtime this design came from, Go handlers run
// in parallel, so every access takes the lock.
type memoryRepo struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Product
	nextID int64
}

func NewMemory() Repository {
	return &memoryRepo{byID: make(map[int64]domain.Product), nextID: 1}
}

func (r *memoryRepo) List(_ context.Context, q Query) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.byID))
	for _, p := range r.all() {
		if q.Search != "" && !matchesSearch(p, q.Search) {
			continue
		}
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			continue
		}
		if q.FeaturedOnly && !p.IsFeatured {
			continue
		}
		result = append(result, p)
	}
	return truncate(result, q.Limit), nil
}

func (r *memoryRepo) NewArrivals(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := r.all()
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return truncate(result, limit), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Slug == p.Slug {
			return nil, domain.ErrConflict
		}
	}

	p.ID = r.nextID
	r.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.byID[p.ID] = p
	return &p, nil
}

// all returns products in id order, which is insertion order. Callers hold
// at least the read lock.
func (r *memoryRepo) all() []domain.Product {
	out := make([]domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matchesSearch(p domain.Product, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func truncate(products []domain.Product, limit int) []domain.Product {
	if limit > 0 && len(products) > limit {
		return products[:limit]
	}
	return products
}
