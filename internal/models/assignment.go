package models

import (
	"time"
)

// AgentOrderAssignment is an append-only audit row linking a delivery agent
// to an order. A fresh row is inserted on every accept, so accept/reject/
// re-accept history is preserved; the current assignment for an order is the
// most recent row by AssignedAt. It mirrors a subset of the order status and
// is written only by the lifecycle mutations that also move Order.Status.
type AgentOrderAssignment struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	AgentID     uint       `json:"agent_id" gorm:"not null;index"`
	OrderID     uint       `json:"order_id" gorm:"not null;index"`
	Status      string     `json:"status" gorm:"type:varchar(32);not null"` // ACCEPTED, OUT_FOR_DELIVERY, DELIVERED
	AssignedAt  time.Time  `json:"assigned_at" gorm:"not null"`
	PickedUpAt  *time.Time `json:"picked_up_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
