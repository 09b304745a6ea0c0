package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/middleware"
	"github.com/AliCapone21/driverleads/models"
	"github.com/AliCapone21/driverleads/services"
	"github.com/AliCapone21/driverleads/utils"
)

// CreateDriverRequest represents the request body for admin driver creation.
// Public profile fields and the private contact bundle arrive together and
// are written in one transaction.
type CreateDriverRequest struct {
	FirstName       string   `json:"first_name" binding:"required"`
	LastInitial     string   `json:"last_initial" binding:"required"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	LivingCity      string   `json:"living_city"`
	LivingState     string   `json:"living_state"`
	DOB             string   `json:"dob"` // YYYY-MM-DD
	DriverType      string   `json:"driver_type"`
	ExperienceYears int      `json:"experience_years"`
	Endorsements    []string `json:"endorsements"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	CDLNumber       string   `json:"cdl_number"`
}

// CreateDriver handles POST /api/v1/admin/drivers - creates the public
// Driver record and its DriverPrivate bundle atomically. If the private
// insert fails the public row must not survive, so both writes share one
// transaction.
func CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Missing required identity fields",
				"details": err.Error(),
			},
		})
		return
	}

	var dob *time.Time
	if req.DOB != "" {
		parsed, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "dob must be formatted YYYY-MM-DD",
				},
			})
			return
		}
		dob = &parsed
	}

	driverType := models.DriverTypeCompany
	if req.DriverType == models.DriverTypeOwnerOperator {
		driverType = models.DriverTypeOwnerOperator
	}

	driver := models.Driver{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastInitial:     strings.ToUpper(strings.TrimSpace(req.LastInitial)),
		City:            strings.TrimSpace(req.City),
		State:           strings.ToUpper(strings.TrimSpace(req.State)),
		LivingCity:      strings.TrimSpace(req.LivingCity),
		LivingState:     strings.ToUpper(strings.TrimSpace(req.LivingState)),
		DOB:             dob,
		DriverType:      driverType,
		ExperienceYears: req.ExperienceYears,
		Endorsements:    req.Endorsements,
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&driver).Error; err != nil {
			return err
		}

		private := models.DriverPrivate{
			DriverID:  driver.ID,
			Phone:     strings.TrimSpace(req.Phone),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			CDLNumber: strings.TrimSpace(req.CDLNumber),
		}
		return tx.Create(&private).Error
	})
	if err != nil {
		log.Printf("Admin driver creation failed: %v", err)
		// This is an internal tool; the raw dependency error helps the
		// admin more than a sanitized one would
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Printf("Admin %s created driver %d", userID, driver.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id": driver.ID,
		},
	})
}

// DeleteDriver handles DELETE /api/v1/admin/drivers/:id - removes a driver
// together with its private bundle and any unlocks, in one transaction.
func DeleteDriver(c *gin.Context) {
	driverID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Driver id must be numeric",
			},
		})
		return
	}

	db := config.GetDB()

	var driver models.Driver
	if err := db.First(&driver, driverID).Error; err != nil {
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
				"message": err.Error(),
			},
		})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("driver_id = ?", driverID).Delete(&models.Unlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("driver_id = ?", driverID).Delete(&models.DriverPrivate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&driver).Error
	})
	if err != nil {
		log.Printf("Admin driver deletion failed for %d: %v", driverID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Printf("Admin %s deleted driver %d", userID, driverID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"ok": true,
		},
	})
}

// UploadCDL handles POST /api/v1/admin/cdl-upload - stores a driver's CDL
// document in the private bucket and records its path. If the path cannot
// be recorded, the uploaded object is removed again so the bucket holds no
// orphans.
func UploadCDL(c *gin.Context) {
	driverIDStr := c.PostForm("driver_id")
	driverID, err := strconv.ParseUint(driverIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A numeric driver_id form field is required",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A file form field is required",
			},
		})
		return
	}

	if err := utils.ValidateCDLFile(fileHeader); err != nil {
		uploadErr, ok := err.(*utils.FileUploadError)
		code := "VALIDATION_ERROR"
		if ok {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var private models.DriverPrivate
	if err := db.Where("driver_id = ?", driverID).First(&private).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRIVATE_NOT_FOUND",
					"message": "No private record exists for this driver yet",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	s3Service := services.GetS3Service()
	s3Key, err := s3Service.UploadCDL(fileHeader, uint(driverID))
	if err != nil {
		log.Printf("CDL upload failed for driver %d: %v", driverID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if err := db.Model(&private).Update("cdl_file_path", s3Key).Error; err != nil {
		log.Printf("Failed to record CDL path for driver %d, removing uploaded object: %v", driverID, err)
		if cleanupErr := s3Service.DeleteFile(s3Key); cleanupErr != nil {
			log.Printf("warning: failed to clean up orphaned CDL object %s: %v", s3Key, cleanupErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Printf("Admin %s uploaded CDL for driver %d: %s", userID, driverID, s3Key)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"path": s3Key,
		},
	})
}
