package services

import (
	"hunger_express/internal/models"
)

// transitions is the single authoritative order-status graph. Every mutation
// path (accept, reject, deliver, cancel, advance) consults it, so the narrow
// endpoints and the generic status endpoint can never disagree.
//
// DELIVERED is reachable straight from ACCEPTED to support the short flow
// where an agent marks a pickup delivered without an explicit dispatch step.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPlaced:         {models.OrderAccepted, models.OrderPreparing, models.OrderCancelled},
	models.OrderAccepted:       {models.OrderPreparing, models.OrderOutForDelivery, models.OrderDelivered},
	models.OrderPreparing:      {models.OrderOutForDelivery, models.OrderCancelled},
	models.OrderOutForDelivery: {models.OrderDelivered},
	models.OrderDelivered:      {},
	models.OrderCancelled:      {},
}

// CanTransition reports whether moving an order from one status to another
// is legal.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status models.OrderStatus) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether the value is a known order status.
func ValidStatus(status models.OrderStatus) bool {
	_, ok := transitions[status]
	return ok
}
