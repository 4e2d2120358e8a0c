package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"hunger_express/internal/events"
	"hunger_express/internal/models"
	"hunger_express/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
	cart         CartStore
	hub          *events.Hub
}

func NewOrderHandler(orderService services.OrderService, cart CartStore, hub *events.Hub) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cart:         cart,
		hub:          hub,
	}
}

type createOrderRequest struct {
	ProviderOrderID string                    `json:"providerOrderId"`
	CouponCode      string                    `json:"couponCode"`
	Address         *services.Address         `json:"address"`
	Items           []services.OrderItemInput `json:"items"`
}

// Create places an order from the request items, falling back to the
// caller's stored cart when the body carries none. Guest orders are allowed;
// an authenticated caller always gets the order linked to their account.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var userID *uint
	if uid, ok := currentUserID(c); ok {
		userID = &uid
	}

	key := cartKey(c)
	items := req.Items
	if len(items) == 0 {
		cartItems, err := h.cart.GetCart(key)
		if err != nil {
			respondError(c, err)
			return
		}
		for _, item := range cartItems {
			items = append(items, services.OrderItemInput{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				Price:      item.Price,
				Qty:        item.Qty,
			})
		}
	}

	order, err := h.orderService.Create(services.CreateOrderInput{
		UserID:          userID,
		Items:           items,
		CouponCode:      req.CouponCode,
		Address:         req.Address,
		ProviderOrderID: req.ProviderOrderID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.cart.ClearCart(key); err != nil {
		log.Printf("Failed to clear cart %s: %v", key, err)
	}

	c.JSON(http.StatusOK, toOrderSummary(order))
}

// List returns the caller's orders, or all non-PLACED orders for the kanban
// board when view=all is requested.
func (h *OrderHandler) List(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if c.Query("view") == "all" {
		orders, err := h.orderService.ListAll()
		if err != nil {
			respondError(c, err)
			return
		}
		summaries := make([]orderSummary, 0, len(orders))
		for i := range orders {
			if orders[i].Status == models.OrderPlaced {
				continue
			}
			summaries = append(summaries, toOrderSummary(&orders[i]))
		}
		c.JSON(http.StatusOK, summaries)
		return
	}

	orders, err := h.orderService.ListByUser(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummaries(orders))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.orderService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummary(order))
}

// Available lists unassigned PLACED orders, oldest first, for agents
// choosing work.
func (h *OrderHandler) Available(c *gin.Context) {
	orders, err := h.orderService.ListAvailable()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummaries(orders))
}

func (h *OrderHandler) MyAssigned(c *gin.Context) {
	uid, _ := currentUserID(c)
	orders, err := h.orderService.ListAssigned(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummaries(orders))
}

func (h *OrderHandler) MyAssignments(c *gin.Context) {
	uid, _ := currentUserID(c)
	assignments, err := h.orderService.ListAgentAssignments(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *OrderHandler) Accept(c *gin.Context) {
	h.agentMutation(c, h.orderService.Accept)
}

func (h *OrderHandler) Reject(c *gin.Context) {
	h.agentMutation(c, h.orderService.Reject)
}

func (h *OrderHandler) Deliver(c *gin.Context) {
	h.agentMutation(c, h.orderService.Deliver)
}

func (h *OrderHandler) agentMutation(c *gin.Context, mutate func(orderID, agentID uint) (*models.Order, error)) {
	uid, _ := currentUserID(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := mutate(id, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummary(order))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.orderService.Cancel(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummary(order))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	status := models.OrderStatus(c.Query("status"))
	order, err := h.orderService.AdvanceStatus(id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummary(order))
}

// Stream is the SSE endpoint. Events carry no order data; clients re-fetch
// on every orders:update.
func (h *OrderHandler) Stream(c *gin.Context) {
	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("connected", "init")
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("orders:update", msg)
			return true
		}
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return uint(id), err
}
