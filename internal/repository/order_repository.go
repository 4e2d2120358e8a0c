package repository

import (
	"hunger_express/internal/models"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByUserID(userID uint) ([]models.Order, error)
	GetByAssignedTo(agentID uint) ([]models.Order, error)
	GetAvailable() ([]models.Order, error)
	GetAll() ([]models.Order, error)
	Update(order *models.Order) error
	AcceptPlaced(orderID, agentID uint, acceptedAt time.Time) (bool, error)
	ClearAssignmentIfPlaced(orderID uint) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	// Items are created in the same transaction via the association
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByUserID(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByAssignedTo(agentID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("assigned_to = ?", agentID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAvailable() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("status = ? AND assigned_to IS NULL", models.OrderPlaced).
		Order("placed_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// AcceptPlaced assigns the order to an agent with a conditional update so
// only one of two racing accepts can win. Returns false when the guard did
// not match (already accepted, cancelled, or assigned).
func (r *orderRepository) AcceptPlaced(orderID, agentID uint, acceptedAt time.Time) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND assigned_to IS NULL", orderID, models.OrderPlaced).
		Updates(map[string]interface{}{
			"assigned_to":  agentID,
			"status":       models.OrderAccepted,
			"preparing_at": acceptedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClearAssignmentIfPlaced returns a rejected order to the available pool.
// The status guard keeps rejects of already-moving orders from clobbering
// their assignment.
func (r *orderRepository) ClearAssignmentIfPlaced(orderID uint) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderPlaced).
		Update("assigned_to", nil)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
