package main

import (
	"log"
	"net/http"
	"time"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/config"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/database"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/handlers"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/redis"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/repository"
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/services"

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
	defer redisClient.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	cakeRepo := repository.NewCakeRepository(db)

	// Initialize services
	authService := services.NewAuthService(redisClient, cfg.StorePasswordHash, time.Duration(cfg.SessionTTL)*time.Second)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(orderRepo, cakeRepo, authService, redisClient, time.Duration(cfg.CatalogCacheTTL)*time.Second)

	// Setup routes
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Backend running"})
	})

	api := router.Group("/api")
	{
		api.POST("/login", apiHandler.Login)
		api.GET("/cake", apiHandler.ListCakes)
		api.POST("/reservar", apiHandler.CreateOrder)

		// Staff endpoints behind the passphrase gate
		staff := api.Group("")
		staff.Use(apiHandler.RequireSession)
		{
			staff.POST("/logout", apiHandler.Logout)
			staff.GET("/list", apiHandler.ListOrders)
			staff.PUT("/reservar/:id", apiHandler.UpdateStatus)
			staff.PUT("/orders/:id", apiHandler.ReplaceOrder)
			staff.GET("/sales", apiHandler.SalesReport)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
