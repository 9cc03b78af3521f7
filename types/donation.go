package types

// CheckoutRequest is the payload for creating a hosted checkout session.
// Amount is in dollars and converted to integer cents by rounding.
type CheckoutRequest struct {
	Amount float64 `json:"amount"`
}

// CheckoutResponse carries the processor session identifier the client uses
// to redirect to the hosted payment page.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
}

// PaymentIntentRequest is the payload for creating a payment intent.
// Amount is already in cents; donor fields travel as processor metadata.
type PaymentIntentRequest struct {
	Amount float64 `json:"amount"`
	Name   string  `json:"name,omitempty"`
	Email  string  `json:"email,omitempty"`
}

// PaymentIntentResponse carries the client secret needed to confirm the
// payment client-side. This service does not track the payment's lifecycle.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
