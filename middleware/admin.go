package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/models"
)

// IsAdmin reports whether the given user holds the admin role in the
// profiles table. A missing profile row simply means "not an admin".
func IsAdmin(db *gorm.DB, userID string) (bool, error) {
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Role == models.RoleAdmin, nil
}

// RequireAdmin guards the admin API. It must run after EnsureValidToken
// so the caller identity is already in the context.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Could not extract user information",
				},
			})
			c.Abort()
			return
		}

		admin, err := IsAdmin(config.GetDB(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to verify admin role",
				},
			})
			c.Abort()
			return
		}

		if !admin {
			log.Printf("Blocked admin API access by user %s", userID)
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admins only",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
