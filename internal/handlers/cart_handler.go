package handlers

import (
	"fmt"
	"net/http"
	"time"

	"hunger_express/internal/redis"

	"github.com/gin-gonic/gin"
)

// CartStore is the pending-cart storage, keyed per user or guest session.
type CartStore interface {
	GetCart(cartKey string) ([]redis.CartItem, error)
	SetCart(cartKey string, items []redis.CartItem, ttl time.Duration) error
	ClearCart(cartKey string) error
}

type CartHandler struct {
	cart    CartStore
	cartTTL time.Duration
}

func NewCartHandler(cart CartStore, cartTTL time.Duration) *CartHandler {
	return &CartHandler{cart: cart, cartTTL: cartTTL}
}

// cartKey scopes the pending cart to the authenticated user, or to the
// caller-supplied guest id for anonymous sessions.
func cartKey(c *gin.Context) string {
	if uid, ok := currentUserID(c); ok {
		return fmt.Sprintf("user:%d", uid)
	}
	if guestID := c.GetHeader("X-Guest-ID"); guestID != "" {
		return "guest:" + guestID
	}
	return "guest"
}

func (h *CartHandler) Get(c *gin.Context) {
	items, err := h.cart.GetCart(cartKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CartHandler) Put(c *gin.Context) {
	var req struct {
		Items []redis.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.cart.SetCart(cartKey(c), req.Items, h.cartTTL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": req.Items})
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.ClearCart(cartKey(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
