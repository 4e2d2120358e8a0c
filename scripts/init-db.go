package main

import (
	"fmt"
	"log"
	"time"

	"hunger_express/internal/config"
	"hunger_express/internal/database"
	"hunger_express/internal/models"
	"hunger_express/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.User{},
		&models.AgentProfile{},
		&models.Order{},
		&models.OrderItem{},
		&models.AgentOrderAssignment{},
		&models.Payment{},
		&models.PaymentWebhookEvent{},
		&models.Coupon{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// Create tables with proper schema
	fmt.Println("Creating tables...")
	err = db.AutoMigrate(
		&models.User{},
		&models.AgentProfile{},
		&models.Order{},
		&models.OrderItem{},
		&models.AgentOrderAssignment{},
		&models.Payment{},
		&models.PaymentWebhookEvent{},
		&models.Coupon{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewAgentProfileRepository(db)
	couponRepo := repository.NewCouponRepository(db)

	fmt.Println("Seeding users...")
	seedUser(userRepo, "Admin", "admin@hungerexpress.in", "admin123", string(models.RoleAdmin))
	seedUser(userRepo, "Restaurant Owner", "owner@hungerexpress.in", "owner123", string(models.RoleOwner))
	customer := seedUser(userRepo, "Demo Customer", "customer@hungerexpress.in", "customer123", string(models.RoleCustomer))
	agent1 := seedUser(userRepo, "Agent One", "agent1@hungerexpress.in", "agent123", string(models.RoleAgent))
	agent2 := seedUser(userRepo, "Agent Two", "agent2@hungerexpress.in", "agent123", string(models.RoleAgent))
	_ = customer

	fmt.Println("Seeding agent profiles...")
	if agent1 != nil {
		profileRepo.Create(&models.AgentProfile{
			UserID:        agent1.ID,
			IsAvailable:   true,
			VehicleType:   "BIKE",
			VehicleNumber: "KA-01-AB-1234",
		})
	}
	if agent2 != nil {
		profileRepo.Create(&models.AgentProfile{
			UserID:        agent2.ID,
			IsAvailable:   false,
			VehicleType:   "SCOOTER",
			VehicleNumber: "KA-02-CD-5678",
		})
	}

	fmt.Println("Seeding coupons...")
	tenPercent := 10.0
	minHundred := 100.0
	flatFifty := 50.0
	minTwoHundred := 200.0
	welcomePercent := 20.0
	welcomeExpiry := time.Now().AddDate(0, 1, 0)

	couponRepo.Create(&models.Coupon{Code: "SAVE10", Active: true, PercentOff: &tenPercent, MinAmount: &minHundred})
	couponRepo.Create(&models.Coupon{Code: "FLAT50", Active: true, AmountOff: &flatFifty, MinAmount: &minTwoHundred})
	couponRepo.Create(&models.Coupon{Code: "WELCOME", Active: true, PercentOff: &welcomePercent, ExpiresAt: &welcomeExpiry})

	fmt.Println("Database initialization completed successfully!")
}

func seedUser(userRepo repository.UserRepository, name, email, password, role string) *models.User {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: Failed to hash password for %s: %v", email, err)
		return nil
	}

	user := &models.User{
		FullName:     name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     true,
	}
	if err := userRepo.Create(user); err != nil {
		log.Printf("Warning: Failed to create user %s: %v", email, err)
		return nil
	}

	fmt.Printf("Seeded %s user: %s\n", role, email)
	return user
}
