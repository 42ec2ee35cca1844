// Package cart holds the shopper's working selection: an ordered list of
// lines keyed by product id, persisted as a snapshot blob after every
// mutation and restored on construction.
package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"shophub/internal/domain"
)

// DefaultKey is the well-known snapshot key a single-shopper cart persists
// under, kept from the storefront this design derives from.
const DefaultKey = "shophub-cart"

// ErrQuantityInvalid is returned for negative quantities. Zero is a valid
// input and removes the line; the remove-on-zero policy lives here, in the
// container, not in callers.
var ErrQuantityInvalid = errors.New("quantity must not be negative")

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// Event describes a cart mutation, for UI messaging. Added vs Updated only
// affects messaging, never correctness.
type Event struct {
	Kind EventKind
	Item domain.CartItem
}

type Option func(*Cart)

// WithNotify registers a hook invoked after each mutating operation.
func WithNotify(fn func(Event)) Option {
	return func(c *Cart) { c.notify = fn }
}

// WithLogger sets the logger used for snapshot failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Cart) { c.logger = logger }
}

// Cart is the cart state container. All operations are total over in-memory
// state; snapshot persistence failures are logged and never surfaced, and a
// missing or unparsable snapshot on restore degrades to an empty cart.
type Cart struct {
	mu     sync.Mutex
	key    string
	items  []domain.CartItem
	store  SnapshotStore
	logger *log.Logger
	notify func(Event)
}

// New builds a Cart bound to key and restores any previously persisted
// snapshot.
func New(ctx context.Context, key string, store SnapshotStore, opts ...Option) *Cart {
	c := &Cart{
		key:    key,
		store:  store,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.restore(ctx)
	return c
}

func (c *Cart) restore(ctx context.Context) {
	data, err := c.store.Load(ctx, c.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.logger.Printf("cart: load snapshot key=%s error=%v", c.key, err)
		}
		return
	}
	items, err := decodeSnapshot(data)
	if err != nil {
		c.logger.Printf("cart: discarding snapshot key=%s error=%v", c.key, err)
		return
	}
	// Drop lines a buggy or stale snapshot could carry.
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		c.items = append(c.items, item)
	}
}

// AddItem merges item into the cart: an existing line for the same product id
// gets its quantity increased, otherwise a new line is appended.
func (c *Cart) AddItem(ctx context.Context, item domain.CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c.mu.Lock()
	kind := EventAdded
	merged := item
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			merged = c.items[i]
			kind = EventUpdated
			break
		}
	}
	if kind == EventAdded {
		c.items = append(c.items, item)
	}
	c.persist(ctx)
	c.mu.Unlock()

	c.emit(Event{Kind: kind, Item: merged})
}

// RemoveItem drops the line for productID. Removing an absent id is a no-op,
// not an error.
func (c *Cart) RemoveItem(ctx context.Context, productID int64) {
	c.mu.Lock()
	var removed *domain.CartItem
	for i := range c.items {
		if c.items[i].ProductID == productID {
			item := c.items[i]
			removed = &item
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	if removed != nil {
		c.persist(ctx)
	}
	c.mu.Unlock()

	if removed != nil {
		c.emit(Event{Kind: EventRemoved, Item: *removed})
	}
}

// SetQuantity replaces the quantity of the line for productID. Zero removes
// the line, negative values are rejected. Unknown product ids are a no-op.
func (c *Cart) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 0 {
		return ErrQuantityInvalid
	}
	if quantity == 0 {
		c.RemoveItem(ctx, productID)
		return nil
	}

	c.mu.Lock()
	var updated *domain.CartItem
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			item := c.items[i]
			updated = &item
			break
		}
	}
	if updated != nil {
		c.persist(ctx)
	}
	c.mu.Unlock()

	if updated != nil {
		c.emit(Event{Kind: EventUpdated, Item: *updated})
	}
	return nil
}

// Clear empties the cart and persists the empty snapshot.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	c.persist(ctx)
	c.mu.Unlock()

	c.emit(Event{Kind: EventCleared})
}

// Items returns a copy of the current lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines (distinct products), not total quantity.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subtotal is Σ(price × quantity) over all lines, in cents. Shipping and tax
// belong to checkout, not here.
func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, item := range c.items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// persist writes the current snapshot. Callers hold the lock. Failures are
// logged, never raised: losing a snapshot must not break shopping.
func (c *Cart) persist(ctx context.Context) {
	items := c.items
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := encodeSnapshot(items)
	if err != nil {
		c.logger.Printf("cart: encode snapshot key=%s error=%v", c.key, err)
		return
	}
	if err := c.store.Save(ctx, c.key, data); err != nil {
		c.logger.Printf("cart: save snapshot key=%s error=%v", c.key, err)
	}
}

func (c *Cart) emit(e Event) {
	if c.notify != nil {
		c.notify(e)
	}
}
