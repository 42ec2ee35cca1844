// Package payment abstracts the external payment collaborator. The rest of
// the system only sees opaque intent handles; nothing here interprets them.
package payment

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAmount rejects non-positive charge amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Intent is the opaque handle returned by the provider. ClientSecret is what
// the payment widget needs to collect the payment.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amountCents"`
	Currency     string `json:"currency"`
}

type CreateIntentInput struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

type Provider interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error)
}
