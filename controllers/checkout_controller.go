package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/middleware"
	"github.com/AliCapone21/driverleads/models"
	"github.com/AliCapone21/driverleads/services"
)

// CheckoutRequest represents the request body for initiating a checkout
type CheckoutRequest struct {
	DriverID uint `json:"driver_id" binding:"required"`
}

// CreateCheckout handles POST /api/v1/checkout - starts a Stripe Checkout
// session to unlock one driver profile.
//
// The "already unlocked" pre-check only exists to spare the recruiter a
// pointless payment page; the unique index on unlocks is what actually
// prevents a duplicate grant.
func CreateCheckout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A driver_id is required for checkout",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	// The driver must exist before we take anyone's money for it
	var driver models.Driver
	if err := db.First(&driver, req.DriverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DRIVER_NOT_FOUND",
					"message": "Driver profile not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to look up driver",
			},
		})
		return
	}

	// Refuse to open a second payment session for an entitlement the
	// recruiter already holds
	var existing int64
	if err := db.Model(&models.Unlock{}).
		Where("user_id = ? AND driver_id = ?", userID, req.DriverID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check unlock status",
			},
		})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_UNLOCKED",
				"message": "You have already unlocked this driver",
			},
		})
		return
	}

	url, err := services.GetPaymentService().CreateUnlockCheckoutSession(
		userID,
		middleware.GetUserEmail(c),
		driver.ID,
	)
	if err != nil {
		log.Printf("Checkout session creation failed for user %s, driver %d: %v", userID, driver.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CHECKOUT_ERROR",
				"message": "Failed to start checkout. Please try again.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"url": url,
		},
	})
}
