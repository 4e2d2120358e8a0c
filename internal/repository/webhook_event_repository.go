package repository

import (
	"errors"
	"hunger_express/internal/models"

	"gorm.io/gorm"
)

type WebhookEventRepository interface {
	Create(event *models.PaymentWebhookEvent) error
	ExistsByEventID(eventID string) (bool, error)
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Create(event *models.PaymentWebhookEvent) error {
	return r.db.Create(event).Error
}

func (r *webhookEventRepository) ExistsByEventID(eventID string) (bool, error) {
	var event models.PaymentWebhookEvent
	err := r.db.Where("event_id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
