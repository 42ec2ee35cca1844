// Package checkout drives the three-step purchase flow: shipping details and
// totals, then external payment collection, then a terminal confirmation.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"shophub/internal/cart"
	"shophub/internal/domain"
	"shophub/internal/payment"
	"shophub/internal/service/orders"
)

type State string

const (
	StateShipping     State = "shipping"
	StatePayment      State = "payment"
	StateConfirmation State = "confirmation"
)

var (
	// ErrEmptyCart rejects checkout over an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnknownMethod rejects a shipping method id not in the table.
	ErrUnknownMethod = errors.New("unknown shipping method")
	// ErrShippingUnavailable rejects the free method below the subtotal
	// threshold. The option is never silently repriced or upgraded.
	ErrShippingUnavailable = errors.New("shipping method not available for this subtotal")
)

// InvalidStateError reports an operation called outside its step.
type InvalidStateError struct {
	Op    string
	State State
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed in %s state", e.Op, e.State)
}

// orderFinalizer is the slice of the order service checkout needs.
type orderFinalizer interface {
	FinalizeOrder(ctx context.Context, in orders.CreateInput) (*domain.Order, error)
}

// Totals breaks the computed charge down for display.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Sequencer is a single checkout session. It is a linear state machine:
// shipping → payment → confirmation, with a manual back edge from payment to
// shipping. One sequencer serves one shopper in one flow; it is not shared.
type Sequencer struct {
	cart     *cart.Cart
	provider payment.Provider
	orders   orderFinalizer
	userID   int64

	state   State
	address domain.ShippingAddress
	method  Method
	totals  Totals
	intent  *payment.Intent
}

func New(c *cart.Cart, provider payment.Provider, finalizer orderFinalizer, userID int64) *Sequencer {
	return &Sequencer{
		cart:     c,
		provider: provider,
		orders:   finalizer,
		userID:   userID,
		state:    StateShipping,
	}
}

func (s *Sequencer) State() State { return s.state }

// Address returns the shipping address entered so far, for re-showing the
// form after a manual back navigation.
func (s *Sequencer) Address() domain.ShippingAddress { return s.address }

// Totals returns the charge computed at shipping submit.
func (s *Sequencer) Totals() Totals { return s.totals }

// Intent returns the opaque payment handle, nil before shipping submits.
func (s *Sequencer) Intent() *payment.Intent { return s.intent }

// SubmitShipping validates the address and method, computes totals and
// requests a payment intent. Only a successful intent creation advances the
// flow; any failure leaves the sequencer in the shipping state for a retry.
func (s *Sequencer) SubmitShipping(ctx context.Context, address domain.ShippingAddress, methodID string) (*payment.Intent, error) {
	if s.state != StateShipping {
		return nil, InvalidStateError{Op: "submit shipping", State: s.state}
	}
	if errs := validateAddress(address); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}

	if s.cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	subtotal := s.cart.Subtotal()

	method, ok := methodByID(methodID)
	if !ok {
		return nil, ErrUnknownMethod
	}
	if subtotal < method.MinSubtotalCents {
		return nil, ErrShippingUnavailable
	}

	totals := Totals{
		SubtotalCents: subtotal,
		ShippingCents: method.PriceCents,
		TaxCents:      TaxCents(subtotal),
	}
	totals.TotalCents = totals.SubtotalCents + totals.ShippingCents + totals.TaxCents

	intent, err := s.provider.CreateIntent(ctx, payment.CreateIntentInput{
		AmountCents: totals.TotalCents,
		Currency:    "usd",
		Metadata:    map[string]string{"userId": fmt.Sprintf("%d", s.userID)},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	s.address = address
	s.method = method
	s.totals = totals
	s.intent = intent
	s.state = StatePayment
	return intent, nil
}

// Back returns from payment to shipping without side effects; the entered
// address stays available. The stale intent is dropped so a re-submit with a
// changed method cannot charge the old amount.
func (s *Sequencer) Back() error {
	if s.state != StatePayment {
		return InvalidStateError{Op: "back", State: s.state}
	}
	s.state = StateShipping
	s.intent = nil
	return nil
}

// CompletePayment is invoked after the external widget reports success. It
// persists the order (idempotently, keyed by the payment intent) and clears
// the cart, then moves to confirmation. If persistence fails the state and
// cart are untouched and the call can be retried: the intent key guarantees
// a retry after a half-complete attempt cannot double-create.
func (s *Sequencer) CompletePayment(ctx context.Context) (*domain.Order, error) {
	if s.state != StatePayment {
		return nil, InvalidStateError{Op: "complete payment", State: s.state}
	}

	order, err := s.orders.FinalizeOrder(ctx, orders.CreateInput{
		UserID:          s.userID,
		Items:           s.cart.Items(),
		TotalCents:      s.totals.TotalCents,
		ShippingAddress: s.address,
		PaymentIntentID: s.intent.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("finalize order: %w", err)
	}

	s.cart.Clear(ctx)
	s.state = StateConfirmation
	return order, nil
}
