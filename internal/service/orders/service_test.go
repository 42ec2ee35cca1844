package orders

import (
	"context"
	"errors"
	"testing"

	"shophub/internal/domain"
	orderrepo "shophub/internal/repository/order"
)

func validInput(userID int64, intentID string) CreateInput {
	return CreateInput{
		UserID: userID,
		Items: []domain.CartItem{
			{ProductID: 1, Name: "Headphones", PriceCents: 12000, Quantity: 1},
		},
		TotalCents: 14079,
		ShippingAddress: domain.ShippingAddress{
			FullName:   "Jane Shopper",
			Address:    "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "US",
		},
		PaymentIntentID: intentID,
	}
}

func TestCreate(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)

	order, err := svc.Create(context.Background(), validInput(7, "pi_1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt set")
	}
	if order.UserID != 7 {
		t.Fatalf("expected user 7, got %d", order.UserID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)

	in := validInput(1, "")
	in.Items = nil
	in.TotalCents = 0
	in.ShippingAddress.City = ""

	_, err := svc.Create(context.Background(), in)
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	fields := make(map[string]bool)
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	for _, want := range []string{"items", "totalCents", "shippingAddress.city"} {
		if !fields[want] {
			t.Errorf("missing field error %q in %+v", want, verr.Fields)
		}
	}
}

func TestListByUserNewestFirst(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput(1, "pi_a"))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, validInput(1, "pi_b"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := svc.Create(ctx, validInput(2, "pi_c")); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	result, err := svc.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(result))
	}
	if result[0].ID != second.ID || result[1].ID != first.ID {
		t.Fatalf("expected newest first, got %d then %d", result[0].ID, result[1].ID)
	}
}

func TestListByUserEmpty(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)

	result, err := svc.ListByUser(context.Background(), 99)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result == nil || len(result) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", result)
	}
}

func TestSetStatusTransitions(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)
	ctx := context.Background()

	order, err := svc.Create(ctx, validInput(1, "pi_1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, status := range []domain.OrderStatus{domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered} {
		updated, err := svc.SetStatus(ctx, order.ID, status)
		if err != nil {
			t.Fatalf("set status %s: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected status %s, got %s", status, updated.Status)
		}
	}

	// Delivered is terminal.
	_, err = svc.SetStatus(ctx, order.ID, domain.OrderCancelled)
	var terr InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if terr.From != domain.OrderDelivered || terr.To != domain.OrderCancelled {
		t.Fatalf("unexpected transition error: %+v", terr)
	}
}

func TestSetStatusSkippingStepsRejected(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)
	ctx := context.Background()

	order, err := svc.Create(ctx, validInput(1, "pi_1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var terr InvalidTransitionError
	if _, err := svc.SetStatus(ctx, order.ID, domain.OrderDelivered); !errors.As(err, &terr) {
		t.Fatalf("expected InvalidTransitionError for pending -> delivered, got %v", err)
	}
}

func TestSetStatusUnknownStatus(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)

	_, err := svc.SetStatus(context.Background(), 1, domain.OrderStatus("misplaced"))
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSetStatusUnknownOrder(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)

	if _, err := svc.SetStatus(context.Background(), 404, domain.OrderProcessing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFinalizeOrderIdempotent(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)
	ctx := context.Background()

	first, err := svc.FinalizeOrder(ctx, validInput(1, "pi_same"))
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	second, err := svc.FinalizeOrder(ctx, validInput(1, "pi_same"))
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected replay of order %d, got %d", first.ID, second.ID)
	}

	result, err := svc.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(result))
	}
}

func TestFinalizeOrderDistinctIntents(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil)
	ctx := context.Background()

	a, err := svc.FinalizeOrder(ctx, validInput(1, "pi_a"))
	if err != nil {
		t.Fatalf("finalize a: %v", err)
	}
	b, err := svc.FinalizeOrder(ctx, validInput(1, "pi_b"))
	if err != nil {
		t.Fatalf("finalize b: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct orders for distinct intents")
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.OrderPending, domain.OrderProcessing, true},
		{domain.OrderPending, domain.OrderCancelled, true},
		{domain.OrderPending, domain.OrderShipped, false},
		{domain.OrderProcessing, domain.OrderShipped, true},
		{domain.OrderProcessing, domain.OrderCancelled, true},
		{domain.OrderShipped, domain.OrderDelivered, true},
		{domain.OrderShipped, domain.OrderCancelled, false},
		{domain.OrderDelivered, domain.OrderPending, false},
		{domain.OrderCancelled, domain.OrderProcessing, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
