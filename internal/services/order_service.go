package services

import (
	"errors"
	"fmt"
	"hunger_express/internal/models"
	"hunger_express/internal/repository"
	"log"
	"time"

	"gorm.io/gorm"
)

// Publisher notifies connected clients that order state changed. Broadcast
// failures are never surfaced to callers.
type Publisher interface {
	Publish(event string)
}

type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Postal  string `json:"postal"`
	Country string `json:"country"`
}

type OrderItemInput struct {
	MenuItemID *uint   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Qty        int     `json:"qty"`
}

type CreateOrderInput struct {
	UserID          *uint
	RestaurantID    *uint
	Items           []OrderItemInput
	CouponCode      string
	Address         *Address
	ProviderOrderID string
}

type OrderService interface {
	Create(input CreateOrderInput) (*models.Order, error)
	GetByID(id uint) (*models.Order, error)
	ListByUser(userID uint) ([]models.Order, error)
	ListAll() ([]models.Order, error)
	ListAvailable() ([]models.Order, error)
	ListAssigned(agentID uint) ([]models.Order, error)
	ListAgentAssignments(agentID uint) ([]models.AgentOrderAssignment, error)
	Accept(orderID, agentID uint) (*models.Order, error)
	Reject(orderID, agentID uint) (*models.Order, error)
	Deliver(orderID, agentID uint) (*models.Order, error)
	Cancel(orderID uint) (*models.Order, error)
	AdvanceStatus(orderID uint, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	assignmentRepo repository.AssignmentRepository
	paymentRepo    repository.PaymentRepository
	coupons        CouponResolver
	publisher      Publisher
	deliveryFee    float64
	taxRatePercent float64
	now            func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	assignmentRepo repository.AssignmentRepository,
	paymentRepo repository.PaymentRepository,
	coupons CouponResolver,
	publisher Publisher,
	deliveryFee, taxRatePercent float64,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		assignmentRepo: assignmentRepo,
		paymentRepo:    paymentRepo,
		coupons:        coupons,
		publisher:      publisher,
		deliveryFee:    deliveryFee,
		taxRatePercent: taxRatePercent,
		now:            time.Now,
	}
}

// Create computes the order money once, persists order and item snapshots in
// a single transaction and links any pending payment stub. The monetary
// fields never change after this point.
func (s *orderService) Create(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}

	subtotal := 0.0
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQty, item.Name)
		}
		subtotal += item.Price * float64(item.Qty)
	}
	subtotal = round2(subtotal)

	discount, appliedCode, err := s.coupons.Resolve(input.CouponCode, subtotal)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve coupon: %w", err)
	}

	tax := round2((subtotal - discount) * (s.taxRatePercent / 100))
	total := round2(subtotal - discount + s.deliveryFee + tax)

	now := s.now()
	order := &models.Order{
		UserID:       input.UserID,
		RestaurantID: input.RestaurantID,
		Status:       models.OrderPlaced,
		Subtotal:     subtotal,
		Discount:     discount,
		CouponCode:   appliedCode,
		DeliveryFee:  s.deliveryFee,
		Tax:          tax,
		Total:        total,
		PlacedAt:     &now,
	}
	if input.Address != nil {
		order.ShipName = input.Address.Name
		order.ShipPhone = input.Address.Phone
		order.ShipLine1 = input.Address.Line1
		order.ShipLine2 = input.Address.Line2
		order.ShipCity = input.Address.City
		order.ShipState = input.Address.State
		order.ShipPostal = input.Address.Postal
		order.ShipCountry = input.Address.Country
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Qty:        item.Qty,
		})
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Link the pending payment stub created at provider-checkout time. A
	// missing stub is not an error.
	if input.ProviderOrderID != "" {
		payment, err := s.paymentRepo.GetByProviderOrderID(input.ProviderOrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up payment: %w", err)
		}
		if payment != nil {
			payment.OrderID = &order.ID
			payment.Status = string(models.PaymentAuthorized)
			if err := s.paymentRepo.Update(payment); err != nil {
				return nil, fmt.Errorf("failed to link payment: %w", err)
			}
		}
	}

	s.publisher.Publish("changed")
	return order, nil
}

func (s *orderService) GetByID(id uint) (*models.Order, error) {
	return s.getOrder(id)
}

func (s *orderService) ListByUser(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

func (s *orderService) ListAll() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

func (s *orderService) ListAvailable() ([]models.Order, error) {
	return s.orderRepo.GetAvailable()
}

func (s *orderService) ListAssigned(agentID uint) ([]models.Order, error) {
	return s.orderRepo.GetByAssignedTo(agentID)
}

func (s *orderService) ListAgentAssignments(agentID uint) ([]models.AgentOrderAssignment, error) {
	return s.assignmentRepo.GetByAgentID(agentID)
}

// Accept assigns a PLACED, unassigned order to the agent. The conditional
// update in the repository decides the winner when two agents race; the
// loser gets ErrConflict and the winner's assignment is untouched.
func (s *orderService) Accept(orderID, agentID uint) (*models.Order, error) {
	now := s.now()
	ok, err := s.orderRepo.AcceptPlaced(orderID, agentID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to accept order: %w", err)
	}
	if !ok {
		if _, err := s.getOrder(orderID); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}

	assignment := &models.AgentOrderAssignment{
		AgentID:    agentID,
		OrderID:    orderID,
		Status:     string(models.OrderAccepted),
		AssignedAt: now,
	}
	if err := s.assignmentRepo.Create(assignment); err != nil {
		return nil, fmt.Errorf("failed to record assignment: %w", err)
	}

	s.publisher.Publish("changed")
	return s.getOrder(orderID)
}

// Reject returns a PLACED order to the available pool. No assignment row is
// written; only accepts leave an audit trail.
func (s *orderService) Reject(orderID, agentID uint) (*models.Order, error) {
	ok, err := s.orderRepo.ClearAssignmentIfPlaced(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reject order: %w", err)
	}
	if !ok {
		if _, err := s.getOrder(orderID); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}

	log.Printf("Order %d rejected by agent %d", orderID, agentID)
	s.publisher.Publish("changed")
	return s.getOrder(orderID)
}

// Deliver marks the order delivered. Only the currently assigned agent may
// call it.
func (s *orderService) Deliver(orderID, agentID uint) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.AssignedTo == nil || *order.AssignedTo != agentID {
		return nil, ErrForbidden
	}
	if !CanTransition(order.Status, models.OrderDelivered) {
		return nil, ErrConflict
	}

	now := s.now()
	order.Status = models.OrderDelivered
	if order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := s.projectAssignment(orderID, models.OrderDelivered, now); err != nil {
		return nil, err
	}

	s.publisher.Publish("changed")
	return order, nil
}

// Cancel is allowed from PLACED or PREPARING only. Any payment linked to the
// order is flagged for refund.
func (s *orderService) Cancel(orderID uint) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, models.OrderCancelled) {
		return nil, ErrConflict
	}

	now := s.now()
	order.Status = models.OrderCancelled
	if order.CancelledAt == nil {
		order.CancelledAt = &now
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := s.requestRefund(orderID); err != nil {
		return nil, err
	}

	s.publisher.Publish("changed")
	return order, nil
}

// AdvanceStatus moves the order along the transition table and keeps the
// assignment projection in lockstep for dispatch and delivery.
func (s *orderService) AdvanceStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, status) {
		return nil, ErrConflict
	}

	now := s.now()
	order.Status = status
	switch status {
	case models.OrderAccepted, models.OrderPreparing:
		if order.PreparingAt == nil {
			order.PreparingAt = &now
		}
	case models.OrderOutForDelivery:
		if order.DispatchedAt == nil {
			order.DispatchedAt = &now
		}
	case models.OrderDelivered:
		if order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
	case models.OrderCancelled:
		if order.CancelledAt == nil {
			order.CancelledAt = &now
		}
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	switch status {
	case models.OrderOutForDelivery, models.OrderDelivered:
		if order.AssignedTo != nil {
			if err := s.projectAssignment(orderID, status, now); err != nil {
				return nil, err
			}
		}
	case models.OrderCancelled:
		if err := s.requestRefund(orderID); err != nil {
			return nil, err
		}
	}

	s.publisher.Publish("changed")
	return order, nil
}

func (s *orderService) getOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// projectAssignment updates the current assignment row to mirror the order
// status. Orders without an assignment history are left alone.
func (s *orderService) projectAssignment(orderID uint, status models.OrderStatus, now time.Time) error {
	assignment, err := s.assignmentRepo.GetLatestByOrderID(orderID)
	if err != nil {
		return fmt.Errorf("failed to load assignment: %w", err)
	}
	if assignment == nil {
		return nil
	}

	assignment.Status = string(status)
	switch status {
	case models.OrderOutForDelivery:
		if assignment.PickedUpAt == nil {
			assignment.PickedUpAt = &now
		}
	case models.OrderDelivered:
		if assignment.DeliveredAt == nil {
			assignment.DeliveredAt = &now
		}
	}
	if err := s.assignmentRepo.Update(assignment); err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return nil
}

func (s *orderService) requestRefund(orderID uint) error {
	payment, err := s.paymentRepo.GetLatestByOrderID(orderID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return nil
	}

	payment.Status = string(models.PaymentRefundRequested)
	if err := s.paymentRepo.Update(payment); err != nil {
		return fmt.Errorf("failed to flag refund: %w", err)
	}
	return nil
}
