package checkout

import (
	"context"
	"errors"
	"testing"

	"shophub/internal/cart"
	"shophub/internal/domain"
	"shophub/internal/payment"
	"shophub/internal/service/orders"
)

type stubFinalizer struct {
	order *domain.Order
	err   error
	calls []orders.CreateInput
}

func (s *stubFinalizer) FinalizeOrder(_ context.Context, in orders.CreateInput) (*domain.Order, error) {
	s.calls = append(s.calls, in)
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

type failingProvider struct{ err error }

func (p failingProvider) CreateIntent(_ context.Context, _ payment.CreateIntentInput) (*payment.Intent, error) {
	return nil, p.err
}

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:   "Jane Shopper",
		Address:    "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
	}
}

func cartWithSubtotal(t *testing.T, cents int64) *cart.Cart {
	t.Helper()
	ctx := context.Background()
	c := cart.New(ctx, cart.DefaultKey, cart.NewMemoryStore())
	c.AddItem(ctx, domain.CartItem{ProductID: 1, Name: "item", PriceCents: cents, Quantity: 1})
	return c
}

func TestSubmitShippingComputesTotals(t *testing.T) {
	ctx := context.Background()
	seq := New(cartWithSubtotal(t, 12000), payment.NewLocalProvider(nil), &stubFinalizer{}, 1)

	intent, err := seq.SubmitShipping(ctx, validAddress(), "standard")
	if err != nil {
		t.Fatalf("submit shipping: %v", err)
	}

	totals := seq.Totals()
	if totals.SubtotalCents != 12000 {
		t.Fatalf("expected subtotal 12000, got %d", totals.SubtotalCents)
	}
	if totals.ShippingCents != 999 {
		t.Fatalf("expected shipping 999, got %d", totals.ShippingCents)
	}
	if totals.TaxCents != 1080 {
		t.Fatalf("expected tax 1080, got %d", totals.TaxCents)
	}
	if totals.TotalCents != 14079 {
		t.Fatalf("expected total 14079, got %d", totals.TotalCents)
	}
	if intent.AmountCents != 14079 {
		t.Fatalf("expected intent amount 14079, got %d", intent.AmountCents)
	}
	if seq.State() != StatePayment {
		t.Fatalf("expected payment state, got %s", seq.State())
	}
}

func TestFreeShippingAtThreshold(t *testing.T) {
	ctx := context.Background()
	seq := New(cartWithSubtotal(t, FreeShippingThresholdCents), payment.NewLocalProvider(nil), &stubFinalizer{}, 1)

	if _, err := seq.SubmitShipping(ctx, validAddress(), "free"); err != nil {
		t.Fatalf("submit shipping: %v", err)
	}
	if seq.Totals().ShippingCents != 0 {
		t.Fatalf("expected free shipping, got %d", seq.Totals().ShippingCents)
	}
}

func TestFreeShippingBelowThresholdRejected(t *testing.T) {
	ctx := context.Background()
	seq := New(cartWithSubtotal(t, FreeShippingThresholdCents-1), payment.NewLocalProvider(nil), &stubFinalizer{}, 1)

	_, err := seq.SubmitShipping(ctx, validAddress(), "free")
	if !errors.Is(err, ErrShippingUnavailable) {
		t.Fatalf("expected ErrShippingUnavailable, got %v", err)
	}
	if seq.State() != StateShipping {
		t.Fatalf("expected to stay in shipping state, got %s", seq.State())
	}
}

func TestSubmitShippingUnknownMethod(t *testing.T) {
	ctx := context.Background()
	seq := New(cartWithSubtotal(t, 5000), payment.NewLocalProvider(nil), &stubFinalizer{}, 1)

	if _, err := seq.SubmitShipping(ctx, validAddress(), "overnight"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestSubmitShippingEmptyCart(t *testing.T) {
	ctx := context.Background()
	empty := cart.New(ctx, cart.DefaultKey, cart.NewMemoryStore())
	seq := New(empty, payment.NewLocalProvider(nil), &stubFinalizer{}, 1)

	if _, err := seq.SubmitShipping(ctx, validAddress(), "standard"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestSubmitShippingValidatesAddress(t *testing.T) {
	ctx := context.Background()
	seq := New(cartWithSubtotal(t, 5000), payment.NewLocalProvider(nil), &stubFinalizer{}, 1)

	addr := validAddress()
	addr.City = ""
	addr.Country = "  "

	_, err := seq.SubmitShipping(ctx, addr, "standard")
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(verr.Fields))
	}
	if verr.Fields[0].Field != "city" || verr.Fields[1].Field != "country" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
}

func TestSubmitShippingProviderFailureStaysInShipping(t *testing.T) {
	ctx := context.Background()
	provider := failingProvider{err: errors.New("provider down")}
	seq := New(cartWithSubtotal(t, 5000), provider, &stubFinalizer{}, 1)

	if _, err := seq.SubmitShipping(ctx, validAddress(), "standard"); err == nil {
		t.Fatalf("expected provider error")
	}
	if seq.State() != StateShipping {
		t.Fatalf("expected shipping state after failure, got %s", seq.State())
	}
	if seq.Intent() != nil {
		t.Fatalf("expected no intent after failure")
	}
}

func TestCompletePayment(t *testing.T) {
	ctx := context.Background()
	c := cartWithSubtotal(t, 12000)
	finalizer := &stubFinalizer{order: &domain.Order{ID: 42, Status: domain.OrderPending}}
	seq := New(c, payment.NewLocalProvider(nil), finalizer, 7)

	intent, err := seq.SubmitShipping(ctx, validAddress(), "standard")
	if err != nil {
		t.Fatalf("submit shipping: %v", err)
	}

	order, err := seq.CompletePayment(ctx)
	if err != nil {
		t.Fatalf("complete payment: %v", err)
	}
	if order.ID != 42 {
		t.Fatalf("expected order 42, got %d", order.ID)
	}
	if seq.State() != StateConfirmation {
		t.Fatalf("expected confirmation state, got %s", seq.State())
	}
	if c.Len() != 0 {
		t.Fatalf("expected cart cleared after completion")
	}

	if len(finalizer.calls) != 1 {
		t.Fatalf("expected 1 finalize call, got %d", len(finalizer.calls))
	}
	in := finalizer.calls[0]
	if in.UserID != 7 {
		t.Fatalf("expected user 7, got %d", in.UserID)
	}
	if in.PaymentIntentID != intent.ID {
		t.Fatalf("expected intent id %s, got %s", intent.ID, in.PaymentIntentID)
	}
	if in.TotalCents != 14079 {
		t.Fatalf("expected total 14079, got %d", in.TotalCents)
	}
}

func TestCompletePaymentFailureKeepsStateAndCart(t *testing.T) {
	ctx := context.Background()
	c := cartWithSubtotal(t, 12000)
	finalizer := &stubFinalizer{err: errors.New("store down")}
	seq := New(c, payment.NewLocalProvider(nil), finalizer, 1)

	if _, err := seq.SubmitShipping(ctx, validAddress(), "standard"); err != nil {
		t.Fatalf("submit shipping: %v", err)
	}
	if _, err := seq.CompletePayment(ctx); err == nil {
		t.Fatalf("expected finalize error")
	}
	if seq.State() != StatePayment {
		t.Fatalf("expected payment state after failure, got %s", seq.State())
	}
	if c.Len() != 1 {
		t.Fatalf("expected cart untouched after failure")
	}
}

func TestBackReturnsToShipping(t *testing.T) {
	ctx := context.Background()
	seq := New(cartWithSubtotal(t, 12000), payment.NewLocalProvider(nil), &stubFinalizer{}, 1)

	addr := validAddress()
	if _, err := seq.SubmitShipping(ctx, addr, "standard"); err != nil {
		t.Fatalf("submit shipping: %v", err)
	}
	if err := seq.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if seq.State() != StateShipping {
		t.Fatalf("expected shipping state, got %s", seq.State())
	}
	if seq.Intent() != nil {
		t.Fatalf("expected stale intent dropped")
	}
	if seq.Address() != addr {
		t.Fatalf("expected entered address preserved")
	}
}

func TestOperationsOutsideTheirState(t *testing.T) {
	ctx := context.Background()
	seq := New(cartWithSubtotal(t, 12000), payment.NewLocalProvider(nil), &stubFinalizer{order: &domain.Order{ID: 1}}, 1)

	var stateErr InvalidStateError
	if err := seq.Back(); !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError for back in shipping, got %v", err)
	}
	if _, err := seq.CompletePayment(ctx); !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError for complete in shipping, got %v", err)
	}

	if _, err := seq.SubmitShipping(ctx, validAddress(), "standard"); err != nil {
		t.Fatalf("submit shipping: %v", err)
	}
	if _, err := seq.SubmitShipping(ctx, validAddress(), "standard"); !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError for re-submit in payment, got %v", err)
	}

	if _, err := seq.CompletePayment(ctx); err != nil {
		t.Fatalf("complete payment: %v", err)
	}
	if _, err := seq.CompletePayment(ctx); !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError for complete in confirmation, got %v", err)
	}
}

func TestTaxRoundsHalfUp(t *testing.T) {
	cases := []struct {
		subtotal int64
		want     int64
	}{
		{0, 0},
		{100, 9},
		{105, 9},   // 9.45 rounds down
		{106, 10},  // 9.54 rounds up
		{12000, 1080},
	}
	for _, tc := range cases {
		if got := TaxCents(tc.subtotal); got != tc.want {
			t.Errorf("TaxCents(%d) = %d, want %d", tc.subtotal, got, tc.want)
		}
	}
}
