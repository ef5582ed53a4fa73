package billing

import (
	"encoding/json"
	"fmt"

	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/stripe/stripe-go/v78"
	portalsession "github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/subscription"
	"github.com/stripe/stripe-go/v78/webhook"
)

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	webhookSecret string
	clientURL     string
}

func NewStripeProvider(cfg *config.Config) *StripeProvider {
	stripe.Key = cfg.StripeSecretKey
	return &StripeProvider{
		webhookSecret: cfg.StripeWebhookSecret,
		clientURL:     cfg.ClientURL,
	}
}

func (p *StripeProvider) CreateCheckoutSession(userID, userEmail, priceID, companyID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(p.clientURL + "/subscription-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(p.clientURL + "/subscription-canceled"),
		CustomerEmail:     stripe.String(userEmail),
		ClientReferenceID: stripe.String(userID),
	}
	params.AddMetadata("user_id", userID)
	params.AddMetadata("company_id", companyID)

	s, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) CreatePortalSession(customerID string) (*PortalSession, error) {
	s, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(p.clientURL + "/subscription"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}
	return &PortalSession{URL: s.URL}, nil
}

func (p *StripeProvider) GetSubscription(subscriptionID string) (*Subscription, error) {
	s, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription %s: %w", subscriptionID, err)
	}
	sub := &Subscription{ID: s.ID, Status: string(s.Status)}
	if s.Customer != nil {
		sub.CustomerID = s.Customer.ID
	}
	return sub, nil
}

// ConstructEvent verifies the webhook signature and normalizes the
// payload for the event types the entitlement tracker consumes.
func (p *StripeProvider) ConstructEvent(payload []byte, sigHeader string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%v: %w", err, ErrSignatureVerification)
	}

	event := Event{Type: string(stripeEvent.Type)}
	switch event.Type {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &s); err != nil {
			return Event{}, fmt.Errorf("failed to parse checkout session payload: %w", err)
		}
		data := &CheckoutData{SessionID: s.ID, ClientReferenceID: s.ClientReferenceID}
		if data.ClientReferenceID == "" {
			data.ClientReferenceID = s.Metadata["user_id"]
		}
		if s.Customer != nil {
			data.CustomerID = s.Customer.ID
		}
		if s.Subscription != nil {
			data.SubscriptionID = s.Subscription.ID
		}
		event.Checkout = data
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var s stripe.Subscription
		if err := json.Unmarshal(stripeEvent.Data.Raw, &s); err != nil {
			return Event{}, fmt.Errorf("failed to parse subscription payload: %w", err)
		}
		sub := &Subscription{ID: s.ID, Status: string(s.Status)}
		if s.Customer != nil {
			sub.CustomerID = s.Customer.ID
		}
		event.Subscription = sub
	}
	return event, nil
}
