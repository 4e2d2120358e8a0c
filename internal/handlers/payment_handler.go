package handlers

import (
	"errors"
	"net/http"

	"hunger_express/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrder opens a checkout order with the provider and persists the
// payment stub. Amount is in paise.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req struct {
		Amount  int64  `json:"amount"`
		Receipt string `json:"receipt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	order, err := h.paymentService.CreateProviderOrder(req.Amount, req.Receipt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Webhook verifies and reconciles a provider event. The signature covers the
// raw body, so the payload is passed through unparsed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err = h.paymentService.HandleWebhook(payload, c.GetHeader("X-Razorpay-Signature"))
	if err != nil {
		if errors.Is(err, services.ErrBadSignature) {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	orderID, err := parseID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	result, err := h.paymentService.Refund(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Deferred {
		c.JSON(http.StatusAccepted, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
