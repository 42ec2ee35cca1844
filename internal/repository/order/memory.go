package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"shophub/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Order
	nextID int64
}

func NewMemory() Repository {
	return &memoryRepo{byID: make(map[int64]domain.Order), nextID: 1}
}

func (r *memoryRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.PaymentIntentID != "" {
		for _, existing := range r.byID {
			if existing.PaymentIntentID == o.PaymentIntentID {
				return nil, domain.ErrConflict
			}
		}
	}

	o.ID = r.nextID
	r.nextID++
	o.CreatedAt = time.Now().UTC()
	o.Items = cloneItems(o.Items)
	r.byID[o.ID] = o

	stored := o
	stored.Items = cloneItems(o.Items)
	return &stored, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Items = cloneItems(o.Items)
	return &o, nil
}

func (r *memoryRepo) GetByPaymentIntent(_ context.Context, paymentIntentID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if paymentIntentID == "" {
		return nil, domain.ErrNotFound
	}
	for _, o := range r.byID {
		if o.PaymentIntentID == paymentIntentID {
			o.Items = cloneItems(o.Items)
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Order
	for _, o := range r.byID {
		if o.UserID != userID {
			continue
		}
		o.Items = cloneItems(o.Items)
		result = append(result, o)
	}
	// Newest first; ids break ties since createdAt resolution can collide.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	r.byID[id] = o
	o.Items = cloneItems(o.Items)
	return &o, nil
}

// cloneItems keeps stored snapshots isolated from caller-held slices.
func cloneItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
