package handlers

import (
	"net/http"
	"strconv"

	"hunger_express/internal/services"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	trackingService services.TrackingService
}

func NewTrackingHandler(trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

func (h *TrackingHandler) UpdateLocation(c *gin.Context) {
	uid, _ := currentUserID(c)

	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Latitude == nil || req.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	location, err := h.trackingService.UpdateLocation(uid, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// GetAgentLocation lets a customer track the agent delivering their order.
// Off-shift agents are reported as not found.
func (h *TrackingHandler) GetAgentLocation(c *gin.Context) {
	agentID, err := parseID(c.Param("agentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent id"})
		return
	}

	location, err := h.trackingService.GetAgentLocation(agentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *TrackingHandler) ActiveAgents(c *gin.Context) {
	locations, err := h.trackingService.ListActiveAgents()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *TrackingHandler) NearbyAgents(c *gin.Context) {
	latitude, err1 := strconv.ParseFloat(c.Query("latitude"), 64)
	longitude, err2 := strconv.ParseFloat(c.Query("longitude"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	radiusKm := 5.0
	if raw := c.Query("radius_km"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			radiusKm = parsed
		}
	}

	agents, err := h.trackingService.ListNearbyAgents(latitude, longitude, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agents)
}
