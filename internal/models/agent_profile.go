package models

import (
	"time"
)

// AgentProfile holds delivery-agent availability and last reported location.
type AgentProfile struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	UserID             uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	IsAvailable        bool       `json:"is_available" gorm:"default:false"`
	CurrentLatitude    *float64   `json:"current_latitude"`
	CurrentLongitude   *float64   `json:"current_longitude"`
	LastLocationUpdate *time.Time `json:"last_location_update"`
	VehicleType        string     `json:"vehicle_type" gorm:"size:40"`
	VehicleNumber      string     `json:"vehicle_number" gorm:"size:40"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
