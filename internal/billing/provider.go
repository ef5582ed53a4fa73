package billing

import "errors"

// ErrSignatureVerification is returned when an inbound webhook payload
// fails signature verification. Processing must not proceed past it.
var ErrSignatureVerification = errors.New("webhook signature verification failed")

// Provider event types the entitlement tracker reacts to. Values match
// the Stripe event names so webhook payloads map through unchanged.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

type CheckoutSession struct {
	ID  string
	URL string
}

type PortalSession struct {
	URL string
}

type Subscription struct {
	ID         string
	CustomerID string
	Status     string
}

// Event is a verified, normalized webhook event. Exactly one of the
// payload fields is set, depending on Type; both are nil for event
// types this system ignores.
type Event struct {
	Type         string
	Checkout     *CheckoutData
	Subscription *Subscription
}

type CheckoutData struct {
	SessionID         string
	ClientReferenceID string
	CustomerID        string
	SubscriptionID    string
}

// Provider abstracts the billing backend so services and tests never
// touch the Stripe SDK directly.
type Provider interface {
	CreateCheckoutSession(userID, userEmail, priceID, companyID string) (*CheckoutSession, error)
	CreatePortalSession(customerID string) (*PortalSession, error)
	GetSubscription(subscriptionID string) (*Subscription, error)
	ConstructEvent(payload []byte, sigHeader string) (Event, error)
}
