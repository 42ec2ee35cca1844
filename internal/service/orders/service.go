// Package orders owns the order lifecycle: creation from a cart snapshot,
// per-user history, guarded status transitions and idempotent finalization
// after payment.
package orders

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"shophub/internal/domain"
	orderrepo "shophub/internal/repository/order"
)

type Service struct {
	repo   orderrepo.Repository
	logger *log.Logger
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

type CreateInput struct {
	UserID          int64                  `json:"-"`
	Items           []domain.CartItem      `json:"items"`
	TotalCents      int64                  `json:"totalCents"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentIntentID string                 `json:"paymentIntentId"`
}

func (in CreateInput) validate() []domain.FieldError {
	var errs []domain.FieldError
	if len(in.Items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "order must contain at least one item"})
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			errs = append(errs, domain.FieldError{Field: "items", Message: "item quantities must be at least 1"})
			break
		}
	}
	if in.TotalCents <= 0 {
		errs = append(errs, domain.FieldError{Field: "totalCents", Message: "total must be positive"})
	}
	errs = append(errs, validateAddress(in.ShippingAddress)...)
	return errs
}

func validateAddress(a domain.ShippingAddress) []domain.FieldError {
	var errs []domain.FieldError
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, domain.FieldError{Field: "shippingAddress." + field, Message: field + " is required"})
		}
	}
	check("fullName", a.FullName)
	check("address", a.Address)
	check("city", a.City)
	check("state", a.State)
	check("postalCode", a.PostalCode)
	check("country", a.Country)
	return errs
}

// Create persists a new order. The item list and address are frozen copies;
// the caller's slices stay untouched. New orders always start pending.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}
	order, err := s.repo.Create(ctx, domain.Order{
		UserID:          in.UserID,
		Items:           in.Items,
		TotalCents:      in.TotalCents,
		Status:          domain.OrderPending,
		ShippingAddress: in.ShippingAddress,
		PaymentIntentID: in.PaymentIntentID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("orders: created id=%d user_id=%d total_cents=%d", order.ID, order.UserID, order.TotalCents)
	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	result, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []domain.Order{}
	}
	return result, nil
}

// SetStatus applies a fulfillment status change, enforcing the transition
// table. Unknown statuses and illegal transitions are typed errors so the
// API layer can map them precisely.
func (s *Service) SetStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.KnownStatus(status) {
		return nil, domain.ValidationError{Fields: []domain.FieldError{
			{Field: "status", Message: "unknown status " + string(status)},
		}}
	}
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, InvalidTransitionError{From: current.Status, To: status}
	}
	updated, err := s.repo.SetStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("orders: status id=%d %s -> %s", orderID, current.Status, status)
	return updated, nil
}

// FinalizeOrder creates the order for a completed payment, idempotently: a
// second call with the same payment intent id returns the already-persisted
// order instead of creating a duplicate. This is what makes "mark paid +
// persist order" safely retryable after a partial failure.
func (s *Service) FinalizeOrder(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if in.PaymentIntentID != "" {
		existing, err := s.repo.GetByPaymentIntent(ctx, in.PaymentIntentID)
		if err == nil {
			s.logger.Printf("orders: finalize replay intent=%s order_id=%d", in.PaymentIntentID, existing.ID)
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	order, err := s.Create(ctx, in)
	if err != nil {
		// Two racing finalizations can both miss the lookup; the unique
		// constraint on the intent id turns the loser into a replay.
		if errors.Is(err, domain.ErrConflict) && in.PaymentIntentID != "" {
			return s.repo.GetByPaymentIntent(ctx, in.PaymentIntentID)
		}
		return nil, err
	}
	return order, nil
}
