package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AliCapone21/driverleads/config"
	"github.com/AliCapone21/driverleads/models"
	"github.com/AliCapone21/driverleads/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing.
// It sets the same context keys as the real EnsureValidToken middleware.
func mockAuthMiddleware(userID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", email)
		c.Next()
	}
}

func createTestDriver(t *testing.T, db *gorm.DB) models.Driver {
	driver := models.Driver{
		FirstName:       "Mike",
		LastInitial:     "T",
		City:            "Dallas",
		State:           "TX",
		DriverType:      models.DriverTypeCompany,
		ExperienceYears: 8,
		Endorsements:    []string{"Hazmat", "Tanker"},
		Status:          models.DriverStatusActive,
	}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("Failed to create test driver: %v", err)
	}
	return driver
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Response should be valid JSON: %v", err)
	}
	return response
}

func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateCheckout(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mockPayment := services.NewMockPaymentService()
	mockPayment.SetAsMockForTesting()

	driver := createTestDriver(t, db)

	router := setupTestRouter()
	router.POST("/checkout", mockAuthMiddleware("auth0|rec1", "rec1@example.com"), CreateCheckout)

	w := postJSON(router, "/checkout", gin.H{"driver_id": driver.ID})

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.Equal(t, true, response["success"])

	data := response["data"].(map[string]interface{})
	assert.Contains(t, data["url"], "checkout.stripe.com")

	sessions := mockPayment.CreatedSessions()
	assert.Len(t, sessions, 1)
	assert.Equal(t, "auth0|rec1", sessions[0].UserID)
	assert.Equal(t, "rec1@example.com", sessions[0].UserEmail)
	assert.Equal(t, driver.ID, sessions[0].DriverID)
}

func TestCreateCheckoutAlreadyUnlocked(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mockPayment := services.NewMockPaymentService()
	mockPayment.SetAsMockForTesting()

	driver := createTestDriver(t, db)
	unlock := models.Unlock{UserID: "auth0|rec1", DriverID: driver.ID, StripePaymentIntent: "pi_prev"}
	assert.NoError(t, db.Create(&unlock).Error)

	router := setupTestRouter()
	router.POST("/checkout", mockAuthMiddleware("auth0|rec1", "rec1@example.com"), CreateCheckout)

	w := postJSON(router, "/checkout", gin.H{"driver_id": driver.ID})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ALREADY_UNLOCKED", errorCode(parseResponse(t, w)))

	// The duplicate-purchase guard must not open a new payment session
	assert.Empty(t, mockPayment.CreatedSessions(), "no checkout session may be created for an existing unlock")
}

func TestCreateCheckoutOtherUserUnlockDoesNotBlock(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mockPayment := services.NewMockPaymentService()
	mockPayment.SetAsMockForTesting()

	driver := createTestDriver(t, db)
	// A different recruiter's unlock is irrelevant to this caller
	unlock := models.Unlock{UserID: "auth0|someone-else", DriverID: driver.ID}
	assert.NoError(t, db.Create(&unlock).Error)

	router := setupTestRouter()
	router.POST("/checkout", mockAuthMiddleware("auth0|rec1", "rec1@example.com"), CreateCheckout)

	w := postJSON(router, "/checkout", gin.H{"driver_id": driver.ID})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, mockPayment.CreatedSessions(), 1)
}

func TestCreateCheckoutValidation(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mockPayment := services.NewMockPaymentService()
	mockPayment.SetAsMockForTesting()

	driver := createTestDriver(t, db)

	tests := []struct {
		name           string
		authenticated  bool
		body           gin.H
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "unauthenticated request",
			authenticated:  false,
			body:           gin.H{"driver_id": driver.ID},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "missing driver id",
			authenticated:  true,
			body:           gin.H{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "unknown driver",
			authenticated:  true,
			body:           gin.H{"driver_id": 99999},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "DRIVER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			if tt.authenticated {
				router.POST("/checkout", mockAuthMiddleware("auth0|rec1", "rec1@example.com"), CreateCheckout)
			} else {
				router.POST("/checkout", CreateCheckout)
			}

			w := postJSON(router, "/checkout", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, errorCode(parseResponse(t, w)))
			assert.Empty(t, mockPayment.CreatedSessions())
		})
	}
}

func TestCreateCheckoutGatewayFailure(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mockPayment := services.NewMockPaymentService()
	mockPayment.SessionErr = assert.AnError
	mockPayment.SetAsMockForTesting()

	driver := createTestDriver(t, db)

	router := setupTestRouter()
	router.POST("/checkout", mockAuthMiddleware("auth0|rec1", "rec1@example.com"), CreateCheckout)

	w := postJSON(router, "/checkout", gin.H{"driver_id": driver.ID})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "CHECKOUT_ERROR", errorCode(parseResponse(t, w)))
}
