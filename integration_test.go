package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/controllers"
	"github.com/AliCapone21/driverleads/models"
	"github.com/AliCapone21/driverleads/services"
)

// setupIntegrationRouter mirrors the production route layout but swaps the
// Auth0 middleware for one that injects a fixed caller identity.
func setupIntegrationRouter(userID, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mockAuth := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", email)
		c.Next()
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/drivers", controllers.ListDrivers)
		v1.GET("/drivers/:id", controllers.GetDriver)
		v1.POST("/stripe/webhook", controllers.HandleStripeWebhook)
	}

	authed := v1.Group("")
	authed.Use(mockAuth)
	{
		authed.POST("/checkout", controllers.CreateCheckout)
		authed.POST("/drivers/private-data", controllers.GetPrivateData)
		authed.POST("/drivers/document-link", controllers.GetDocumentLink)
	}

	return router
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Driver{},
		&models.DriverPrivate{},
		&models.Unlock{},
		&models.Profile{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	config.SetDB(db)
	return db
}

// TestUnlockFlowIntegration walks the full recruiter journey: checkout,
// payment confirmation via webhook, then private-data and document access.
func TestUnlockFlowIntegration(t *testing.T) {
	db := setupIntegrationDB(t)

	mockPayment := services.NewMockPaymentService()
	mockPayment.SetAsMockForTesting()
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()

	// Two listed drivers, one with a CDL document on file
	d1 := models.Driver{FirstName: "Mike", LastInitial: "T", State: "TX", DriverType: models.DriverTypeCompany}
	d2 := models.Driver{FirstName: "Ann", LastInitial: "B", State: "OH", DriverType: models.DriverTypeOwnerOperator}
	assert.NoError(t, db.Create(&d1).Error)
	assert.NoError(t, db.Create(&d2).Error)
	assert.NoError(t, db.Create(&models.DriverPrivate{
		DriverID:    d1.ID,
		Phone:       "555-0101",
		Email:       "mike.t@example.com",
		CDLNumber:   "TX-CDL-1",
		CDLFilePath: "cdl/1/cdl_1700000000.pdf",
	}).Error)

	router := setupIntegrationRouter("auth0|rec1", "rec1@example.com")

	post := func(path string, body gin.H, headers map[string]string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Before paying, the private data is off limits
	w := post("/api/v1/drivers/private-data", gin.H{"driver_id": d1.ID}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Start checkout
	w = post("/api/v1/checkout", gin.H{"driver_id": d1.ID}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	sessions := mockPayment.CreatedSessions()
	assert.Len(t, sessions, 1)

	// Stripe confirms the payment
	webhookBody := fmt.Sprintf(
		`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1","metadata":{"user_id":%q,"driver_id":"%d"}}}}`,
		"auth0|rec1", d1.ID,
	)
	req, _ := http.NewRequest("POST", "/api/v1/stripe/webhook", bytes.NewReader([]byte(webhookBody)))
	req.Header.Set("Stripe-Signature", mockPayment.ValidSignature)
	wh := httptest.NewRecorder()
	router.ServeHTTP(wh, req)
	assert.Equal(t, http.StatusOK, wh.Code)

	// The contact bundle is now readable
	w = post("/api/v1/drivers/private-data", gin.H{"driver_id": d1.ID}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "555-0101", data["phone"])

	// The CDL document link is issued
	w = post("/api/v1/drivers/document-link", gin.H{"driver_id": d1.ID}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The unlock is scoped to that exact driver
	w = post("/api/v1/drivers/private-data", gin.H{"driver_id": d2.ID}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A second checkout for the same driver is refused without a new session
	w = post("/api/v1/checkout", gin.H{"driver_id": d1.ID}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, mockPayment.CreatedSessions(), 1, "no second session for an unlocked driver")
}

// TestWebhookRedeliveryIntegration replays the same event through the full
// router and checks the unlock stays singular.
func TestWebhookRedeliveryIntegration(t *testing.T) {
	db := setupIntegrationDB(t)

	mockPayment := services.NewMockPaymentService()
	mockPayment.SetAsMockForTesting()

	router := setupIntegrationRouter("auth0|rec1", "rec1@example.com")

	webhookBody := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1","metadata":{"user_id":"auth0|rec1","driver_id":"5"}}}}`
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("POST", "/api/v1/stripe/webhook", bytes.NewReader([]byte(webhookBody)))
		req.Header.Set("Stripe-Signature", mockPayment.ValidSignature)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	db.Model(&models.Unlock{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
