package models

import (
	"time"
)

// Order is the single source of truth for an order's lifecycle. Monetary
// fields and the shipping snapshot are fixed at creation; only the status,
// the status timestamps and the assigned agent change afterwards. Orders are
// never deleted, cancellation is a status.
type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       *uint       `json:"user_id" gorm:"index"` // nil for guest orders
	RestaurantID *uint       `json:"restaurant_id"`
	AssignedTo   *uint       `json:"assigned_to" gorm:"index"` // agent user id
	Status       OrderStatus `json:"status" gorm:"type:varchar(32);not null;default:'PLACED'"`

	Subtotal    float64 `json:"subtotal" gorm:"not null"`
	Discount    float64 `json:"discount" gorm:"not null;default:0"`
	CouponCode  string  `json:"coupon_code" gorm:"size:40"`
	DeliveryFee float64 `json:"delivery_fee" gorm:"not null;default:0"`
	Tax         float64 `json:"tax" gorm:"not null;default:0"`
	Total       float64 `json:"total" gorm:"not null"`

	// Shipping address snapshot, captured at creation
	ShipName    string `json:"ship_name" gorm:"size:120"`
	ShipPhone   string `json:"ship_phone" gorm:"size:32"`
	ShipLine1   string `json:"ship_line1" gorm:"size:200"`
	ShipLine2   string `json:"ship_line2" gorm:"size:200"`
	ShipCity    string `json:"ship_city" gorm:"size:80"`
	ShipState   string `json:"ship_state" gorm:"size:80"`
	ShipPostal  string `json:"ship_postal" gorm:"size:20"`
	ShipCountry string `json:"ship_country" gorm:"size:80"`

	// Status timestamps, each set at most once
	PlacedAt     *time.Time `json:"placed_at"`
	PreparingAt  *time.Time `json:"preparing_at"`
	DispatchedAt *time.Time `json:"dispatched_at"`
	DeliveredAt  *time.Time `json:"delivered_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`

	Items []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPlaced         OrderStatus = "PLACED"
	OrderAccepted       OrderStatus = "ACCEPTED"
	OrderPreparing      OrderStatus = "PREPARING"
	OrderOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderDelivered      OrderStatus = "DELIVERED"
	OrderCancelled      OrderStatus = "CANCELLED"
)
