package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"janmat/backend/internal/api/handler"
	"janmat/backend/internal/cache"
	"janmat/backend/internal/complaint"
	"janmat/backend/internal/models"
	"janmat/backend/internal/notify"
	"janmat/backend/internal/pushhub"
	"janmat/backend/internal/sla"
	"janmat/backend/internal/storage"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "user"),
		envOr("DB_PASSWORD", "password"),
		envOr("DB_NAME", "janmatdb"),
		envOr("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis. The cache wrapper degrades to its in-process fallback if
	// the server is unreachable, so a failed ping is not fatal here.
	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// 3. Migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.TimelineEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database connection established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Janmat Backend...")

	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Dependencies
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db)
	resilient := cache.New(rdb)
	otp := cache.NewOTPService(resilient)

	producer := notify.NewProducer(envOr("RABBITMQ_URL", "amqp://localhost"))
	defer producer.Close()

	// 2. Push hub and lifecycle service
	hub := pushhub.NewHub()
	complaints := complaint.NewService(s, producer, hub)

	// 3. Background goroutines
	go hub.Run()

	scheduler := sla.NewScheduler(s, producer)
	cronRunner, err := scheduler.Start()
	if err != nil {
		log.Fatalf("Failed to start SLA scheduler: %v", err)
	}
	defer cronRunner.Stop()

	// 4. Gin routing
	jwtSecret := []byte(envOr("JWT_SECRET", "secret"))
	r := gin.Default()
	h := handler.NewHandler(hub, complaints, otp, jwtSecret)

	r.POST("/auth/token", h.IssueToken)
	r.POST("/auth/otp/request", h.RequestOTP)
	r.POST("/auth/otp/verify", h.VerifyOTP)
	r.GET("/ws", h.ServeWebSocket)

	authorized := r.Group("/complaints", h.Authenticate)
	{
		authorized.POST("", h.CreateComplaint)
		authorized.GET("", h.ListMyComplaints)
		authorized.GET("/assigned", h.ListAssignedComplaints)
		authorized.GET("/:id", h.GetComplaint)
		authorized.PATCH("/:id/status", h.UpdateComplaintStatus)
		authorized.PUT("/:id", h.UpdateComplaint)
		authorized.DELETE("/:id", h.DeleteComplaint)
	}

	server := &http.Server{
		Addr:           ":" + envOr("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
