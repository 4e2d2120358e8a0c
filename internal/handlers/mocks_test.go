package handlers

import (
	"time"

	"hunger_express/internal/models"
	"hunger_express/internal/redis"
	"hunger_express/internal/services"

	"gorm.io/gorm"
)

// --- Stubs for the service and storage interfaces ---

type stubOrderService struct {
	createFn        func(input services.CreateOrderInput) (*models.Order, error)
	getByIDFn       func(id uint) (*models.Order, error)
	listByUserFn    func(userID uint) ([]models.Order, error)
	listAllFn       func() ([]models.Order, error)
	listAvailableFn func() ([]models.Order, error)
	listAssignedFn  func(agentID uint) ([]models.Order, error)
	assignmentsFn   func(agentID uint) ([]models.AgentOrderAssignment, error)
	acceptFn        func(orderID, agentID uint) (*models.Order, error)
	rejectFn        func(orderID, agentID uint) (*models.Order, error)
	deliverFn       func(orderID, agentID uint) (*models.Order, error)
	cancelFn        func(orderID uint) (*models.Order, error)
	advanceFn       func(orderID uint, status models.OrderStatus) (*models.Order, error)
}

func (s *stubOrderService) Create(input services.CreateOrderInput) (*models.Order, error) {
	return s.createFn(input)
}

func (s *stubOrderService) GetByID(id uint) (*models.Order, error) {
	return s.getByIDFn(id)
}

func (s *stubOrderService) ListByUser(userID uint) ([]models.Order, error) {
	return s.listByUserFn(userID)
}

func (s *stubOrderService) ListAll() ([]models.Order, error) {
	return s.listAllFn()
}

func (s *stubOrderService) ListAvailable() ([]models.Order, error) {
	return s.listAvailableFn()
}

func (s *stubOrderService) ListAssigned(agentID uint) ([]models.Order, error) {
	return s.listAssignedFn(agentID)
}

func (s *stubOrderService) ListAgentAssignments(agentID uint) ([]models.AgentOrderAssignment, error) {
	return s.assignmentsFn(agentID)
}

func (s *stubOrderService) Accept(orderID, agentID uint) (*models.Order, error) {
	return s.acceptFn(orderID, agentID)
}

func (s *stubOrderService) Reject(orderID, agentID uint) (*models.Order, error) {
	return s.rejectFn(orderID, agentID)
}

func (s *stubOrderService) Deliver(orderID, agentID uint) (*models.Order, error) {
	return s.deliverFn(orderID, agentID)
}

func (s *stubOrderService) Cancel(orderID uint) (*models.Order, error) {
	return s.cancelFn(orderID)
}

func (s *stubOrderService) AdvanceStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	return s.advanceFn(orderID, status)
}

type stubPaymentService struct {
	createOrderFn func(amountPaise int64, receipt string) (*services.ProviderOrder, error)
	webhookFn     func(payload []byte, signature string) error
	refundFn      func(orderID uint) (*services.RefundResult, error)
}

func (s *stubPaymentService) CreateProviderOrder(amountPaise int64, receipt string) (*services.ProviderOrder, error) {
	return s.createOrderFn(amountPaise, receipt)
}

func (s *stubPaymentService) HandleWebhook(payload []byte, signature string) error {
	return s.webhookFn(payload, signature)
}

func (s *stubPaymentService) Refund(orderID uint) (*services.RefundResult, error) {
	return s.refundFn(orderID)
}

// memCart is an in-memory CartStore.
type memCart struct {
	carts map[string][]redis.CartItem
}

func newMemCart() *memCart {
	return &memCart{carts: make(map[string][]redis.CartItem)}
}

func (m *memCart) GetCart(cartKey string) ([]redis.CartItem, error) {
	items, ok := m.carts[cartKey]
	if !ok {
		return []redis.CartItem{}, nil
	}
	return items, nil
}

func (m *memCart) SetCart(cartKey string, items []redis.CartItem, ttl time.Duration) error {
	m.carts[cartKey] = items
	return nil
}

func (m *memCart) ClearCart(cartKey string) error {
	delete(m.carts, cartKey)
	return nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetAll() ([]models.User, error) {
	var users []models.User
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	f.users[user.ID] = user
	return nil
}
