package handlers

import (
	"errors"
	"log"
	"net/http"

	"hunger_express/internal/models"
	"hunger_express/internal/services"

	"github.com/gin-gonic/gin"
)

type orderItemSummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type orderSummary struct {
	ID        uint               `json:"id"`
	Status    string             `json:"status"`
	Total     float64            `json:"total"`
	CreatedAt int64              `json:"createdAt"`
	Items     []orderItemSummary `json:"items"`
}

func toOrderSummary(order *models.Order) orderSummary {
	items := make([]orderItemSummary, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemSummary{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Qty:   item.Qty,
		})
	}
	return orderSummary{
		ID:        order.ID,
		Status:    string(order.Status),
		Total:     order.Total,
		CreatedAt: order.CreatedAt.UnixMilli(),
		Items:     items,
	}
}

func toOrderSummaries(orders []models.Order) []orderSummary {
	summaries := make([]orderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, toOrderSummary(&orders[i]))
	}
	return summaries
}

// respondError maps business-rule failures onto HTTP status codes. Anything
// unrecognized is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoItems),
		errors.Is(err, services.ErrInvalidQty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrBadSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
