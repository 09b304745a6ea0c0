package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/controllers"
	"github.com/AliCapone21/driverleads/middleware"
	"github.com/AliCapone21/driverleads/models"
	"github.com/AliCapone21/driverleads/services"
)

func main() {
	// Basic logging
	log.Println("Starting Driver Leads API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Driver{},
		&models.DriverPrivate{},
		&models.Unlock{},
		&models.Profile{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize the document store and payment gateway clients once;
	// handlers reach them through the service singletons
	if _, err := services.InitS3Service(); err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	if _, err := services.InitPaymentService(); err != nil {
		log.Fatalf("Failed to initialize payment service: %v", err)
	}

	router := setupRouter(cfg)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all routes and middleware attached
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.SiteURL},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Public marketplace listing
		v1.GET("/drivers", controllers.ListDrivers)
		v1.GET("/drivers/:id", controllers.GetDriver)

		// Stripe calls this; it is signature-verified, not session-authenticated
		v1.POST("/stripe/webhook", controllers.HandleStripeWebhook)
	}

	// Routes requiring a valid JWT
	authed := v1.Group("")
	authed.Use(middleware.EnsureValidToken(cfg))
	{
		authed.POST("/checkout", controllers.CreateCheckout)
		authed.POST("/drivers/private-data", controllers.GetPrivateData)
		authed.POST("/drivers/document-link", controllers.GetDocumentLink)
		authed.PATCH("/drivers/me/status", controllers.UpdateMyStatus)
	}

	// Admin routes additionally require the admin role
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/drivers", controllers.CreateDriver)
		admin.DELETE("/drivers/:id", controllers.DeleteDriver)
		admin.POST("/cdl-upload", controllers.UploadCDL)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Driver Leads API is running",
	})
}
