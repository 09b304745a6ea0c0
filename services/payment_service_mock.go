package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stripe/stripe-go/v76"
)

// MockCheckoutSession records one call to CreateUnlockCheckoutSession.
type MockCheckoutSession struct {
	UserID    string
	UserEmail string
	DriverID  uint
}

// MockPaymentService is a mock implementation of PaymentInterface for testing
type MockPaymentService struct {
	// ValidSignature is the only Stripe-Signature header value the mock accepts
	ValidSignature string
	// SessionErr, when set, makes CreateUnlockCheckoutSession fail
	SessionErr error

	createdSessions []MockCheckoutSession
	mu              sync.Mutex
}

// NewMockPaymentService creates a new mock payment service
func NewMockPaymentService() *MockPaymentService {
	return &MockPaymentService{
		ValidSignature: "t=1,v1=valid-test-signature",
	}
}

// SetAsMockForTesting sets this mock as the global payment service instance
func (m *MockPaymentService) SetAsMockForTesting() {
	SetPaymentService(m)
}

// CreateUnlockCheckoutSession simulates creating a Stripe Checkout session
func (m *MockPaymentService) CreateUnlockCheckoutSession(userID, userEmail string, driverID uint) (string, error) {
	if m.SessionErr != nil {
		return "", m.SessionErr
	}

	m.mu.Lock()
	m.createdSessions = append(m.createdSessions, MockCheckoutSession{
		UserID:    userID,
		UserEmail: userEmail,
		DriverID:  driverID,
	})
	m.mu.Unlock()

	return fmt.Sprintf("https://checkout.stripe.com/c/pay/mock_session_%d", driverID), nil
}

// ConstructWebhookEvent simulates Stripe's signature verification. The
// payload is only parsed when the signature matches, mirroring the real
// verify-before-parse ordering.
func (m *MockPaymentService) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	if sigHeader != m.ValidSignature {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed")
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	return event, nil
}

// CreatedSessions returns a copy of all recorded checkout sessions
func (m *MockPaymentService) CreatedSessions() []MockCheckoutSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := make([]MockCheckoutSession, len(m.createdSessions))
	copy(sessions, m.createdSessions)
	return sessions
}

// Clear removes all recorded sessions
func (m *MockPaymentService) Clear() {
	m.mu.Lock()
	m.createdSessions = nil
	m.mu.Unlock()
}
