package services

import (
	"fmt"
	"log"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	appConfig "github.com/AliCapone21/driverleads/config"
)

// PaymentInterface defines the interface for payment gateway operations
type PaymentInterface interface {
	CreateUnlockCheckoutSession(userID, userEmail string, driverID uint) (string, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

// PaymentService handles all Stripe-related operations
type PaymentService struct {
	priceID       string
	siteURL       string
	webhookSecret string
}

var paymentServiceInstance PaymentInterface

// InitPaymentService initializes the Stripe payment service
func InitPaymentService() (PaymentInterface, error) {
	cfg := appConfig.GetConfig()

	if cfg.StripeSecretKey == "" || cfg.StripePriceID == "" || cfg.SiteURL == "" {
		return nil, fmt.Errorf("stripe configuration is incomplete")
	}

	stripe.Key = cfg.StripeSecretKey

	paymentServiceInstance = &PaymentService{
		priceID:       cfg.StripePriceID,
		siteURL:       cfg.SiteURL,
		webhookSecret: cfg.StripeWebhookSecret,
	}

	return paymentServiceInstance, nil
}

// GetPaymentService returns the initialized payment service instance
func GetPaymentService() PaymentInterface {
	return paymentServiceInstance
}

// SetPaymentService sets the payment service instance (primarily for testing)
func SetPaymentService(service PaymentInterface) {
	paymentServiceInstance = service
}

// CreateUnlockCheckoutSession creates a single-item Stripe Checkout session
// for unlocking one driver profile and returns the hosted payment page URL.
// The user and driver IDs ride along as metadata so the webhook handler can
// identify who to grant the unlock to.
func (s *PaymentService) CreateUnlockCheckoutSession(userID, userEmail string, driverID uint) (string, error) {
	driverRef := strconv.FormatUint(uint64(driverID), 10)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/drivers/%s?paid=1", s.siteURL, driverRef)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/drivers/%s?canceled=1", s.siteURL, driverRef)),
	}
	if userEmail != "" {
		params.CustomerEmail = stripe.String(userEmail)
	}
	params.AddMetadata("user_id", userID)
	params.AddMetadata("driver_id", driverRef)

	checkoutSession, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	if checkoutSession.URL == "" {
		return "", fmt.Errorf("stripe did not return a session URL")
	}

	log.Printf("Created checkout session for user %s, driver %s", userID, driverRef)
	return checkoutSession.URL, nil
}

// ConstructWebhookEvent verifies the Stripe-Signature header against the
// webhook secret and parses the event. The raw body must be passed through
// untouched or verification fails.
func (s *PaymentService) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}
