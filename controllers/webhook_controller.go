package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm/clause"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/models"
	"github.com/AliCapone21/driverleads/services"
)

// HandleStripeWebhook handles POST /api/v1/stripe/webhook - Stripe's
// asynchronous payment notifications. Stripe delivers at least once, so the
// unlock write must be an idempotent upsert, and a failed write must come
// back as a 5xx so Stripe redelivers instead of dropping a paid entitlement.
func HandleStripeWebhook(c *gin.Context) {
	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
		return
	}

	// The signature covers the exact raw bytes; read them untouched
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := services.GetPaymentService().ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Type == "checkout.session.completed" {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			// Not retryable: redelivering the same malformed event
			// cannot succeed either
			log.Printf("Webhook data integrity warning: failed to parse checkout session: %v", err)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		userID := session.Metadata["user_id"]
		driverRef := session.Metadata["driver_id"]
		if userID == "" || driverRef == "" {
			log.Printf("Webhook data integrity warning: session %s missing unlock metadata", session.ID)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		driverID, err := strconv.ParseUint(driverRef, 10, 64)
		if err != nil {
			log.Printf("Webhook data integrity warning: session %s has malformed driver_id %q", session.ID, driverRef)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		paymentIntent := "stripe_session_completed"
		if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
			paymentIntent = session.PaymentIntent.ID
		}

		unlock := models.Unlock{
			UserID:              userID,
			DriverID:            uint(driverID),
			StripePaymentIntent: paymentIntent,
		}

		// Conflict target (user_id, driver_id): a redelivered event hits
		// the existing row and changes nothing
		db := config.GetDB()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "driver_id"}},
			DoNothing: true,
		}).Create(&unlock).Error; err != nil {
			log.Printf("Failed to record unlock for user %s, driver %d: %v", userID, driverID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database write failed"})
			return
		}

		log.Printf("Recorded unlock: user %s -> driver %d", userID, driverID)
	}

	// Unknown event types are acknowledged so Stripe stops resending them
	c.JSON(http.StatusOK, gin.H{"received": true})
}
