package models

import (
	"time"
)

// OrderItem is an immutable snapshot of a menu item at order time. Name and
// price are copied, not referenced, so later menu edits do not affect
// historical orders.
type OrderItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"not null;index"`
	MenuItemID *uint     `json:"menu_item_id"`
	Name       string    `json:"name" gorm:"not null"`
	Price      float64   `json:"price" gorm:"not null"`
	Qty        int       `json:"qty" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
