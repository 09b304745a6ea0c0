package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/middleware"
	"github.com/AliCapone21/driverleads/models"
)

// PrivateDataRequest represents the request body for gated private reads
type PrivateDataRequest struct {
	DriverID uint `json:"driver_id" binding:"required"`
}

// UpdateStatusRequest represents the request body for a driver updating
// their own availability
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active passive"`
}

// ListDrivers handles GET /api/v1/drivers - the public marketplace listing.
// Only public profile fields are returned; contact details stay behind the
// unlock gate.
func ListDrivers(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Driver{})
	if driverType := c.Query("driver_type"); driverType != "" {
		query = query.Where("driver_type = ?", driverType)
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var drivers []models.Driver
	if err := query.Order("created_at DESC").Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load drivers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    drivers,
	})
}

// GetDriver handles GET /api/v1/drivers/:id - one public profile
func GetDriver(c *gin.Context) {
	db := config.GetDB()

	var driver models.Driver
	if err := db.First(&driver, "id = ?", c.Param("id")).Error; err != nil {
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
				"message": "Failed to load driver",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    driver,
	})
}

// requireUnlock checks that the caller holds an Unlock for the driver.
// It writes the error response itself and reports whether the caller may
// proceed. Every privileged read goes through this check on every request;
// nothing about it is cached.
func requireUnlock(c *gin.Context, db *gorm.DB, userID string, driverID uint) bool {
	var unlock models.Unlock
	err := db.Where("user_id = ? AND driver_id = ?", userID, driverID).First(&unlock).Error
	if err == nil {
		return true
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_UNLOCKED",
				"message": "Access denied. Please purchase this profile first.",
			},
		})
		return false
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to verify unlock status",
		},
	})
	return false
}

// GetPrivateData handles POST /api/v1/drivers/private-data - returns the
// contact bundle for a driver the caller has unlocked.
func GetPrivateData(c *gin.Context) {
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

	var req PrivateDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A driver_id is required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if !requireUnlock(c, db, userID, req.DriverID) {
		return
	}

	var private models.DriverPrivate
	if err := db.Where("driver_id = ?", req.DriverID).First(&private).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRIVATE_NOT_FOUND",
					"message": "No contact details on file for this driver",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load contact details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"phone":      private.Phone,
			"email":      private.Email,
			"cdl_number": private.CDLNumber,
		},
	})
}

// UpdateMyStatus handles PATCH /api/v1/drivers/me/status - the owning
// driver flips their availability between active and passive.
func UpdateMyStatus(c *gin.Context) {
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

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Status must be \"active\" or \"passive\"",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var driver models.Driver
	if err := db.Where("user_id = ?", userID).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DRIVER_NOT_FOUND",
					"message": "No driver profile is linked to your account",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load your driver profile",
			},
		})
		return
	}

	if err := db.Model(&driver).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    driver,
	})
}
