package models

import (
	"time"
)

// Payment is created in CREATED state before any local order exists, keyed
// by the provider-issued order id. It is linked to an order at checkout and
// updated independently by webhook events and refund calls.
type Payment struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	OrderID           *uint     `json:"order_id" gorm:"index"`
	Provider          string    `json:"provider" gorm:"type:varchar(32);not null"` // RAZORPAY
	ProviderOrderID   string    `json:"provider_order_id" gorm:"size:80;index"`
	ProviderPaymentID string    `json:"provider_payment_id" gorm:"size:80"`
	Status            string    `json:"status" gorm:"type:varchar(32);not null"`
	Amount            float64   `json:"amount" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type PaymentStatus string

const (
	PaymentCreated         PaymentStatus = "CREATED"
	PaymentAuthorized      PaymentStatus = "AUTHORIZED"
	PaymentCaptured        PaymentStatus = "CAPTURED"
	PaymentFailed          PaymentStatus = "FAILED"
	PaymentRefundRequested PaymentStatus = "REFUND_REQUESTED"
	PaymentRefunded        PaymentStatus = "REFUNDED"
)
