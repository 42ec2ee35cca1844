package orders

import (
	"fmt"

	"shophub/internal/domain"
)

// validNext is the fulfillment transition table. Terminal states accept
// nothing; cancellation is only possible before shipment.
var validNext = map[domain.OrderStatus]map[domain.OrderStatus]bool{
	domain.OrderPending:    {domain.OrderProcessing: true, domain.OrderCancelled: true},
	domain.OrderProcessing: {domain.OrderShipped: true, domain.OrderCancelled: true},
	domain.OrderShipped:    {domain.OrderDelivered: true},
	domain.OrderDelivered:  {},
	domain.OrderCancelled:  {},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to domain.OrderStatus) bool {
	return validNext[from][to]
}

// InvalidTransitionError rejects an illegal status change.
type InvalidTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}
