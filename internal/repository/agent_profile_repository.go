package repository

import (
	"errors"
	"hunger_express/internal/models"

	"gorm.io/gorm"
)

type AgentProfileRepository interface {
	Create(profile *models.AgentProfile) error
	GetByUserID(userID uint) (*models.AgentProfile, error)
	GetAvailable() ([]models.AgentProfile, error)
	Update(profile *models.AgentProfile) error
}

type agentProfileRepository struct {
	db *gorm.DB
}

func NewAgentProfileRepository(db *gorm.DB) AgentProfileRepository {
	return &agentProfileRepository{db: db}
}

func (r *agentProfileRepository) Create(profile *models.AgentProfile) error {
	return r.db.Create(profile).Error
}

func (r *agentProfileRepository) GetByUserID(userID uint) (*models.AgentProfile, error) {
	var profile models.AgentProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *agentProfileRepository) GetAvailable() ([]models.AgentProfile, error) {
	var profiles []models.AgentProfile
	err := r.db.Where("is_available = ?", true).Find(&profiles).Error
	return profiles, err
}

func (r *agentProfileRepository) Update(profile *models.AgentProfile) error {
	return r.db.Save(profile).Error
}
