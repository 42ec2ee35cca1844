package payment

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// LocalProvider issues payment intents without talking to a real processor.
// Handles follow the pi_… convention so a real provider can be swapped in
// without changing callers.
type LocalProvider struct {
	mu      sync.Mutex
	logger  *log.Logger
	intents map[string]Intent
}

func NewLocalProvider(logger *log.Logger) *LocalProvider {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LocalProvider{logger: logger, intents: make(map[string]Intent)}
}

func (p *LocalProvider) CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error) {
	if in.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "usd"
	}

	id := "pi_" + uuid.NewString()
	intent := Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString(),
		AmountCents:  in.AmountCents,
		Currency:     currency,
	}

	p.mu.Lock()
	p.intents[id] = intent
	p.mu.Unlock()

	p.logger.Printf("payment: created intent id=%s amount_cents=%d currency=%s", id, in.AmountCents, currency)
	return &intent, nil
}

// GetIntent returns a previously created intent, for inspection in tests and
// manual runs.
func (p *LocalProvider) GetIntent(id string) (Intent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.intents[id]
	return intent, ok
}
