package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a named discount rule applied at order creation. Codes are
// stored uppercase and matched case-insensitively. PercentOff and AmountOff
// combine additively when both are set; the resulting discount is capped at
// the order subtotal.
type Coupon struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Code       string         `json:"code" gorm:"size:40;unique;not null"`
	Active     bool           `json:"active" gorm:"default:true"`
	ExpiresAt  *time.Time     `json:"expires_at"`
	MinAmount  *float64       `json:"min_amount"`
	PercentOff *float64       `json:"percent_off"`
	AmountOff  *float64       `json:"amount_off"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
