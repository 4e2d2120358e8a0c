package main

import (
	"log"
	"time"

	"hunger_express/internal/config"
	"hunger_express/internal/database"
	"hunger_express/internal/events"
	"hunger_express/internal/handlers"
	"hunger_express/internal/redis"
	"hunger_express/internal/repository"
	"hunger_express/internal/services"
	"hunger_express/pkg/razorpay"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize payment provider client
	providerClient := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	profileRepo := repository.NewAgentProfileRepository(db)

	// Live update hub
	hub := events.NewHub()

	// Initialize services
	couponService := services.NewCouponService(couponRepo)
	orderService := services.NewOrderService(orderRepo, assignmentRepo, paymentRepo, couponService, hub, cfg.DeliveryFee, cfg.TaxRatePercent)
	paymentService := services.NewPaymentService(paymentRepo, webhookEventRepo, providerClient, cfg.RazorpayKeyID, cfg.RazorpayWebhookSecret)
	trackingService := services.NewTrackingService(profileRepo, userRepo)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService, redisClient, hub)
	cartHandler := handlers.NewCartHandler(redisClient, time.Duration(cfg.CartTTL)*time.Second)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	trackingHandler := handlers.NewTrackingHandler(trackingService)

	// Setup routes
	router := gin.Default()
	router.Use(handlers.Identity(cfg.JWTSecret, userRepo))

	api := router.Group("/api")
	{
		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/stream", orderHandler.Stream)
			orders.GET("/agent/available", handlers.RequireRole("AGENT"), orderHandler.Available)
			orders.GET("/agent/my", handlers.RequireRole("AGENT"), orderHandler.MyAssigned)
			orders.GET("/agent/assignments", handlers.RequireRole("AGENT"), orderHandler.MyAssignments)
			orders.GET("/:id", orderHandler.Get)
			orders.PATCH("/:id/accept", handlers.RequireRole("AGENT"), orderHandler.Accept)
			orders.PATCH("/:id/reject", handlers.RequireRole("AGENT"), orderHandler.Reject)
			orders.PATCH("/:id/deliver", handlers.RequireRole("AGENT"), orderHandler.Deliver)
			orders.PATCH("/:id/cancel", handlers.RequireAuth(), orderHandler.Cancel)
			orders.PATCH("/:id/status", handlers.RequireRole("OWNER", "ADMIN"), orderHandler.UpdateStatus)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", cartHandler.Get)
			cart.POST("", cartHandler.Put)
			cart.DELETE("", cartHandler.Clear)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/order", paymentHandler.CreateOrder)
			payments.POST("/webhook", paymentHandler.Webhook)
			payments.POST("/refund/:orderId", handlers.RequireRole("OWNER", "ADMIN"), paymentHandler.Refund)
		}

		tracking := api.Group("/tracking")
		{
			tracking.PUT("/location", handlers.RequireRole("AGENT"), trackingHandler.UpdateLocation)
			tracking.GET("/agent/:agentId", handlers.RequireAuth(), trackingHandler.GetAgentLocation)
			tracking.GET("/agents/active", handlers.RequireRole("ADMIN"), trackingHandler.ActiveAgents)
			tracking.GET("/agents/nearby", handlers.RequireRole("OWNER", "ADMIN"), trackingHandler.NearbyAgents)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
