package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hunger_express/internal/events"
	"hunger_express/internal/models"
	"hunger_express/internal/redis"
	"hunger_express/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asIdentity injects an authenticated caller the way the Identity middleware
// would.
func asIdentity(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func orderWithStatus(id uint, status models.OrderStatus) *models.Order {
	return &models.Order{ID: id, Status: status, CreatedAt: time.Now()}
}

func TestCreateOrder_UsesBodyItems(t *testing.T) {
	var captured services.CreateOrderInput
	svc := &stubOrderService{
		createFn: func(input services.CreateOrderInput) (*models.Order, error) {
			captured = input
			return orderWithStatus(1, models.OrderPlaced), nil
		},
	}
	handler := NewOrderHandler(svc, newMemCart(), events.NewHub())

	router := gin.New()
	router.POST("/api/orders", asIdentity(42, string(models.RoleCustomer)), handler.Create)

	body, _ := json.Marshal(gin.H{
		"couponCode": "SAVE10",
		"items":      []gin.H{{"name": "Paneer Tikka", "price": 250, "qty": 2}},
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured.UserID)
	assert.Equal(t, uint(42), *captured.UserID)
	assert.Equal(t, "SAVE10", captured.CouponCode)
	require.Len(t, captured.Items, 1)
	assert.Equal(t, "Paneer Tikka", captured.Items[0].Name)
	assert.Equal(t, 2, captured.Items[0].Qty)
}

func TestCreateOrder_FallsBackToGuestCart(t *testing.T) {
	var captured services.CreateOrderInput
	svc := &stubOrderService{
		createFn: func(input services.CreateOrderInput) (*models.Order, error) {
			captured = input
			return orderWithStatus(1, models.OrderPlaced), nil
		},
	}
	cart := newMemCart()
	cart.carts["guest:g-1"] = []redis.CartItem{{Name: "Masala Dosa", Price: 120, Qty: 1}}
	handler := NewOrderHandler(svc, cart, events.NewHub())

	router := gin.New()
	router.POST("/api/orders", handler.Create)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("X-Guest-ID", "g-1")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, captured.UserID)
	require.Len(t, captured.Items, 1)
	assert.Equal(t, "Masala Dosa", captured.Items[0].Name)

	// Cart is consumed by checkout
	assert.NotContains(t, cart.carts, "guest:g-1")
}

func TestCreateOrder_EmptyCartRejected(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(input services.CreateOrderInput) (*models.Order, error) {
			return nil, services.ErrNoItems
		},
	}
	handler := NewOrderHandler(svc, newMemCart(), events.NewHub())

	router := gin.New()
	router.POST("/api/orders", handler.Create)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_RequiresAuth(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{}, newMemCart(), events.NewHub())

	router := gin.New()
	router.GET("/api/orders", handler.List)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListOrders_ViewAllHidesPlaced(t *testing.T) {
	svc := &stubOrderService{
		listAllFn: func() ([]models.Order, error) {
			return []models.Order{
				*orderWithStatus(1, models.OrderPlaced),
				*orderWithStatus(2, models.OrderAccepted),
				*orderWithStatus(3, models.OrderDelivered),
			}, nil
		},
	}
	handler := NewOrderHandler(svc, newMemCart(), events.NewHub())

	router := gin.New()
	router.GET("/api/orders", asIdentity(1, string(models.RoleOwner)), handler.List)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders?view=all", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []orderSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, uint(2), summaries[0].ID)
	assert.Equal(t, uint(3), summaries[1].ID)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := &stubOrderService{
		getByIDFn: func(id uint) (*models.Order, error) { return nil, services.ErrNotFound },
	}
	handler := NewOrderHandler(svc, newMemCart(), events.NewHub())

	router := gin.New()
	router.GET("/api/orders/:id", handler.Get)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/99", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptOrder_ConflictWhenAlreadyTaken(t *testing.T) {
	svc := &stubOrderService{
		acceptFn: func(orderID, agentID uint) (*models.Order, error) {
			return nil, services.ErrConflict
		},
	}
	handler := NewOrderHandler(svc, newMemCart(), events.NewHub())

	router := gin.New()
	router.PATCH("/api/orders/:id/accept", asIdentity(7, string(models.RoleAgent)), handler.Accept)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/5/accept", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeliverOrder_ForbiddenForOtherAgent(t *testing.T) {
	svc := &stubOrderService{
		deliverFn: func(orderID, agentID uint) (*models.Order, error) {
			return nil, services.ErrForbidden
		},
	}
	handler := NewOrderHandler(svc, newMemCart(), events.NewHub())

	router := gin.New()
	router.PATCH("/api/orders/:id/deliver", asIdentity(8, string(models.RoleAgent)), handler.Deliver)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/5/deliver", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := &stubOrderService{
		advanceFn: func(orderID uint, status models.OrderStatus) (*models.Order, error) {
			return nil, services.ErrInvalidStatus
		},
	}
	handler := NewOrderHandler(svc, newMemCart(), events.NewHub())

	router := gin.New()
	router.PATCH("/api/orders/:id/status", handler.UpdateStatus)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/5/status?status=SHIPPED", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_InvalidID(t *testing.T) {
	handler := NewOrderHandler(&stubOrderService{}, newMemCart(), events.NewHub())

	router := gin.New()
	router.PATCH("/api/orders/:id/status", handler.UpdateStatus)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/abc/status?status=PREPARING", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// sseRecorder adds the CloseNotifier gin's Stream helper expects.
type sseRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *sseRecorder) CloseNotify() <-chan bool { return r.closed }

func TestStream_DeliversPublishedEvents(t *testing.T) {
	hub := events.NewHub()
	handler := NewOrderHandler(&stubOrderService{}, newMemCart(), hub)

	router := gin.New()
	router.GET("/api/orders/stream", handler.Stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &sseRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	req := httptest.NewRequest(http.MethodGet, "/api/orders/stream", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish("orders:update")
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not terminate after client disconnect")
	}

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "connected"))
	assert.True(t, strings.Contains(body, "orders:update"))
	assert.Equal(t, 0, hub.Count())
}
