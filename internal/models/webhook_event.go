package models

import (
	"time"
)

// PaymentWebhookEvent records every accepted provider webhook. The unique
// event id makes replayed deliveries a no-op; it is nullable because some
// deliveries carry no id, and those must all still be recorded.
type PaymentWebhookEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EventID       *string   `json:"event_id" gorm:"size:100;uniqueIndex"`
	EventType     string    `json:"event_type" gorm:"size:64"`
	Signature     string    `json:"signature" gorm:"size:200;index"`
	PayloadSHA256 string    `json:"payload_sha256" gorm:"size:64"`
	ReceivedAt    time.Time `json:"received_at" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}
