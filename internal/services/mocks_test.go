package services

import (
	"strings"
	"time"

	"hunger_express/internal/models"

	"gorm.io/gorm"
)

// --- In-memory fakes for the repository interfaces ---

type fakeOrderRepo struct {
	orders map[uint]*models.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*models.Order), nextID: 1}
}

func (f *fakeOrderRepo) Create(order *models.Order) error {
	order.ID = f.nextID
	f.nextID++
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetByUserID(userID uint) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		if order.UserID != nil && *order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetByAssignedTo(agentID uint) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		if order.AssignedTo != nil && *order.AssignedTo == agentID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetAvailable() ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		if order.Status == models.OrderPlaced && order.AssignedTo == nil {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetAll() ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		orders = append(orders, *order)
	}
	return orders, nil
}

func (f *fakeOrderRepo) Update(order *models.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) AcceptPlaced(orderID, agentID uint, acceptedAt time.Time) (bool, error) {
	order, ok := f.orders[orderID]
	if !ok || order.Status != models.OrderPlaced || order.AssignedTo != nil {
		return false, nil
	}
	agent := agentID
	at := acceptedAt
	order.AssignedTo = &agent
	order.Status = models.OrderAccepted
	order.PreparingAt = &at
	return true, nil
}

func (f *fakeOrderRepo) ClearAssignmentIfPlaced(orderID uint) (bool, error) {
	order, ok := f.orders[orderID]
	if !ok || order.Status != models.OrderPlaced {
		return false, nil
	}
	order.AssignedTo = nil
	return true, nil
}

type fakeAssignmentRepo struct {
	assignments []*models.AgentOrderAssignment
	nextID      uint
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{nextID: 1}
}

func (f *fakeAssignmentRepo) Create(assignment *models.AgentOrderAssignment) error {
	assignment.ID = f.nextID
	f.nextID++
	stored := *assignment
	f.assignments = append(f.assignments, &stored)
	return nil
}

func (f *fakeAssignmentRepo) GetLatestByOrderID(orderID uint) (*models.AgentOrderAssignment, error) {
	var latest *models.AgentOrderAssignment
	for _, assignment := range f.assignments {
		if assignment.OrderID != orderID {
			continue
		}
		if latest == nil || assignment.AssignedAt.After(latest.AssignedAt) {
			latest = assignment
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeAssignmentRepo) GetByAgentID(agentID uint) ([]models.AgentOrderAssignment, error) {
	var assignments []models.AgentOrderAssignment
	for _, assignment := range f.assignments {
		if assignment.AgentID == agentID {
			assignments = append(assignments, *assignment)
		}
	}
	return assignments, nil
}

func (f *fakeAssignmentRepo) Update(assignment *models.AgentOrderAssignment) error {
	for i, stored := range f.assignments {
		if stored.ID == assignment.ID {
			copied := *assignment
			f.assignments[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePaymentRepo struct {
	payments []*models.Payment
	nextID   uint
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1}
}

func (f *fakePaymentRepo) Create(payment *models.Payment) error {
	payment.ID = f.nextID
	f.nextID++
	payment.CreatedAt = time.Now()
	stored := *payment
	f.payments = append(f.payments, &stored)
	return nil
}

func (f *fakePaymentRepo) GetByProviderOrderID(providerOrderID string) (*models.Payment, error) {
	for _, payment := range f.payments {
		if payment.ProviderOrderID == providerOrderID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetLatestByOrderID(orderID uint) (*models.Payment, error) {
	var latest *models.Payment
	for _, payment := range f.payments {
		if payment.OrderID == nil || *payment.OrderID != orderID {
			continue
		}
		if latest == nil || payment.CreatedAt.After(latest.CreatedAt) {
			latest = payment
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakePaymentRepo) Update(payment *models.Payment) error {
	for i, stored := range f.payments {
		if stored.ID == payment.ID {
			copied := *payment
			f.payments[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeCouponRepo struct {
	coupons map[string]*models.Coupon
}

func newFakeCouponRepo(coupons ...*models.Coupon) *fakeCouponRepo {
	repo := &fakeCouponRepo{coupons: make(map[string]*models.Coupon)}
	for _, coupon := range coupons {
		repo.coupons[strings.ToUpper(coupon.Code)] = coupon
	}
	return repo
}

func (f *fakeCouponRepo) Create(coupon *models.Coupon) error {
	f.coupons[strings.ToUpper(coupon.Code)] = coupon
	return nil
}

// Matches the gorm implementation: case-insensitive, inactive comes back nil.
func (f *fakeCouponRepo) GetActiveByCode(code string) (*models.Coupon, error) {
	coupon, ok := f.coupons[strings.ToUpper(code)]
	if !ok || !coupon.Active {
		return nil, nil
	}
	return coupon, nil
}

type fakeEventRepo struct {
	events []*models.PaymentWebhookEvent
}

// Enforces the unique index on event_id the way the database does: duplicate
// non-null ids are rejected, rows without an id are always accepted.
func (f *fakeEventRepo) Create(event *models.PaymentWebhookEvent) error {
	if event.EventID != nil {
		for _, stored := range f.events {
			if stored.EventID != nil && *stored.EventID == *event.EventID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	stored := *event
	f.events = append(f.events, &stored)
	return nil
}

func (f *fakeEventRepo) ExistsByEventID(eventID string) (bool, error) {
	for _, event := range f.events {
		if event.EventID != nil && *event.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

type fakeProfileRepo struct {
	profiles map[uint]*models.AgentProfile
}

func newFakeProfileRepo(profiles ...*models.AgentProfile) *fakeProfileRepo {
	repo := &fakeProfileRepo{profiles: make(map[uint]*models.AgentProfile)}
	for _, profile := range profiles {
		repo.profiles[profile.UserID] = profile
	}
	return repo
}

func (f *fakeProfileRepo) Create(profile *models.AgentProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) GetByUserID(userID uint) (*models.AgentProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) GetAvailable() ([]models.AgentProfile, error) {
	var profiles []models.AgentProfile
	for _, profile := range f.profiles {
		if profile.IsAvailable {
			profiles = append(profiles, *profile)
		}
	}
	return profiles, nil
}

func (f *fakeProfileRepo) Update(profile *models.AgentProfile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *profile
	f.profiles[profile.UserID] = &copied
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

type fakeProvider struct {
	orderID       string
	refundID      string
	createErr     error
	refundErr     error
	refundCalls   int
	lastPaymentID string
	lastAmount    int64
}

func (f *fakeProvider) CreateOrder(amountPaise int64, receipt string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.lastAmount = amountPaise
	return f.orderID, nil
}

func (f *fakeProvider) Refund(providerPaymentID string, amountPaise int64) (string, error) {
	f.refundCalls++
	f.lastPaymentID = providerPaymentID
	f.lastAmount = amountPaise
	if f.refundErr != nil {
		return "", f.refundErr
	}
	return f.refundID, nil
}

type recordPublisher struct {
	events []string
}

func (p *recordPublisher) Publish(event string) {
	p.events = append(p.events, event)
}
