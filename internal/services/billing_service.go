package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/billing"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPriceRequired    = errors.New("price ID is required")
	ErrNoBillingAccount = errors.New("no billing account for this user")
)

// BillingService owns the manager entitlement state. Subscription
// status is mutated exclusively by verified webhook events.
type BillingService struct {
	db       *gorm.DB
	provider billing.Provider
}

func NewBillingService(db *gorm.DB, provider billing.Provider) *BillingService {
	return &BillingService{db: db, provider: provider}
}

func (s *BillingService) CreateCheckoutSession(userID uuid.UUID, req *dto.CreateCheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	if req.PriceID == "" {
		return nil, ErrPriceRequired
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if user.CompanyID == nil {
		return nil, Validation("user not associated with a company")
	}

	session, err := s.provider.CreateCheckoutSession(user.ID.String(), user.Email, req.PriceID, user.CompanyID.String())
	if err != nil {
		return nil, err
	}
	return &dto.CheckoutSessionResponse{SessionID: session.ID, URL: session.URL}, nil
}

func (s *BillingService) CreatePortalSession(userID uuid.UUID) (*dto.PortalSessionResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if user.StripeCustomerID == nil {
		return nil, ErrNoBillingAccount
	}

	session, err := s.provider.CreatePortalSession(*user.StripeCustomerID)
	if err != nil {
		return nil, err
	}
	return &dto.PortalSessionResponse{URL: session.URL}, nil
}

func (s *BillingService) SubscriptionStatus(userID uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &dto.SubscriptionStatusResponse{
		Status:            user.SubscriptionStatus,
		HasStripeCustomer: user.StripeCustomerID != nil,
	}, nil
}

// HandleWebhook verifies and applies one inbound billing event.
// Handlers are idempotent: the provider delivers at least once, and
// re-applying any event leaves the same end state. Events referencing
// unknown users are logged and dropped, since a provider retry cannot
// resolve them.
func (s *BillingService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := s.provider.ConstructEvent(payload, sigHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case billing.EventCheckoutCompleted:
		return s.applyCheckoutCompleted(event.Checkout)
	case billing.EventSubscriptionUpdated:
		return s.applySubscriptionUpdate(event.Subscription)
	case billing.EventSubscriptionDeleted:
		return s.applySubscriptionDeleted(event.Subscription)
	default:
		slog.Info("ignoring webhook event", "type", event.Type)
		return nil
	}
}

func (s *BillingService) applyCheckoutCompleted(data *billing.CheckoutData) error {
	if data == nil || data.ClientReferenceID == "" || data.CustomerID == "" || data.SubscriptionID == "" {
		slog.Error("checkout.session.completed missing identifiers, dropping",
			"session_id", sessionID(data))
		return nil
	}
	userID, err := uuid.Parse(data.ClientReferenceID)
	if err != nil {
		slog.Error("checkout.session.completed has invalid user reference, dropping",
			"session_id", data.SessionID, "reference", data.ClientReferenceID)
		return nil
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		slog.Error("checkout.session.completed for unknown user, dropping",
			"session_id", data.SessionID, "user_id", userID)
		return nil
	}

	// The session itself does not carry the subscription state; fetch
	// the live subscription so trials land as trialing, not active.
	sub, err := s.provider.GetSubscription(data.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to retrieve subscription for checkout: %w", err)
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"stripe_customer_id":     data.CustomerID,
		"stripe_subscription_id": data.SubscriptionID,
		"subscription_status":    mapProviderStatus(sub.Status),
	}).Error
}

func (s *BillingService) applySubscriptionUpdate(sub *billing.Subscription) error {
	if sub == nil || sub.CustomerID == "" {
		return nil
	}
	var user models.User
	if err := s.db.First(&user, "stripe_customer_id = ?", sub.CustomerID).Error; err != nil {
		slog.Error("subscription update for unknown customer, dropping",
			"customer_id", sub.CustomerID, "subscription_id", sub.ID)
		return nil
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"subscription_status":    mapProviderStatus(sub.Status),
		"stripe_subscription_id": sub.ID,
	}).Error
}

func (s *BillingService) applySubscriptionDeleted(sub *billing.Subscription) error {
	if sub == nil || sub.CustomerID == "" {
		return nil
	}
	var user models.User
	if err := s.db.First(&user, "stripe_customer_id = ?", sub.CustomerID).Error; err != nil {
		slog.Error("subscription delete for unknown customer, dropping",
			"customer_id", sub.CustomerID, "subscription_id", sub.ID)
		return nil
	}

	return s.db.Model(&user).Update("subscription_status", models.SubscriptionCanceled).Error
}

// mapProviderStatus maps Stripe subscription statuses onto the local
// entitlement enum.
func mapProviderStatus(status string) string {
	switch status {
	case "active":
		return models.SubscriptionActive
	case "trialing":
		return models.SubscriptionTrialing
	case "canceled":
		return models.SubscriptionCanceled
	case "past_due", "unpaid", "incomplete":
		return models.SubscriptionPastDue
	default:
		return models.SubscriptionInactive
	}
}

func sessionID(data *billing.CheckoutData) string {
	if data == nil {
		return ""
	}
	return data.SessionID
}
