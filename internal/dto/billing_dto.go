package dto

type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type PortalSessionResponse struct {
	URL string `json:"url"`
}

type SubscriptionStatusResponse struct {
	Status            string `json:"status"`
	HasStripeCustomer bool   `json:"hasStripeCustomer"`
}
