package order

import (
	"context"

	"shophub/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetByPaymentIntent backs idempotent order finalization: at most one
	// order may reference a given payment intent.
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	SetStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}
