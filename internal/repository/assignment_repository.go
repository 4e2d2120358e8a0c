package repository

import (
	"errors"
	"hunger_express/internal/models"

	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(assignment *models.AgentOrderAssignment) error
	GetLatestByOrderID(orderID uint) (*models.AgentOrderAssignment, error)
	GetByAgentID(agentID uint) ([]models.AgentOrderAssignment, error)
	Update(assignment *models.AgentOrderAssignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *models.AgentOrderAssignment) error {
	return r.db.Create(assignment).Error
}

// GetLatestByOrderID returns the current assignment for an order, or nil
// when the order was never accepted.
func (r *assignmentRepository) GetLatestByOrderID(orderID uint) (*models.AgentOrderAssignment, error) {
	var assignment models.AgentOrderAssignment
	err := r.db.Where("order_id = ?", orderID).Order("assigned_at DESC").First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) GetByAgentID(agentID uint) ([]models.AgentOrderAssignment, error) {
	var assignments []models.AgentOrderAssignment
	err := r.db.Where("agent_id = ?", agentID).Order("assigned_at DESC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) Update(assignment *models.AgentOrderAssignment) error {
	return r.db.Save(assignment).Error
}
