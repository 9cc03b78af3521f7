package handlers

import (
	"context"
	"encoding/json"

	"github.com/iteka-youth/site-backend/types"
)

// ContactServiceInterface is the contact pipeline surface the handler needs.
type ContactServiceInterface interface {
	Submit(ctx context.Context, clientKey string, sub types.ContactSubmission) error
}

// DonationServiceInterface is the payment surface the handler needs.
type DonationServiceInterface interface {
	CreateCheckoutSession(ctx context.Context, amount float64) (string, error)
	CreatePaymentIntent(ctx context.Context, amount float64, donorName, donorEmail string) (string, error)
}

// ContentServiceInterface is the CMS content surface the handler needs.
type ContentServiceInterface interface {
	GetCollection(ctx context.Context, name, category string) (json.RawMessage, error)
	GetBySlug(ctx context.Context, name, slug string) (json.RawMessage, error)
}
