package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/middleware"
	"github.com/AliCapone21/driverleads/models"
	"github.com/AliCapone21/driverleads/services"
)

// DocumentLinkTTL is how long an issued CDL download link stays valid:
// long enough for the browser to start the transfer, short enough that a
// leaked link is low-risk. The document itself never gets a durable URL.
const DocumentLinkTTL = 60 * time.Second

// GetDocumentLink handles POST /api/v1/drivers/document-link - issues a
// short-lived download URL for an unlocked driver's CDL document.
func GetDocumentLink(c *gin.Context) {
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

	if private.CDLFilePath == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "No document on file for this driver",
			},
		})
		return
	}

	url, err := services.GetS3Service().GetPresignedURL(private.CDLFilePath, DocumentLinkTTL)
	if err != nil {
		log.Printf("Failed to sign document URL for driver %d: %v", req.DriverID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to generate secure download link",
			},
		})
		return
	}

	log.Printf("Issued document link: user %s -> driver %d", userID, req.DriverID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"url": url,
		},
	})
}
