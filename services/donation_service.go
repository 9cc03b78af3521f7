package services

import (
	"context"
	"fmt"
	"math"

	"github.com/iteka-youth/site-backend/config"
	apperrors "github.com/iteka-youth/site-backend/errors"
	"github.com/iteka-youth/site-backend/logger"
	"github.com/prometheus/client_golang/prometheus"
	stripe "github.com/stripe/stripe-go/v81"
	stripeclient "github.com/stripe/stripe-go/v81/client"
)

const donationProductName = "Donation to Iteka Youth Organization"

// checkoutSessionCreator and paymentIntentCreator cover the two processor
// calls the service makes; the Stripe client satisfies both.
type checkoutSessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type paymentIntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type DonationMetrics struct {
	sessions *prometheus.CounterVec
}

func newDonationMetrics(reg prometheus.Registerer) *DonationMetrics {
	m := &DonationMetrics{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iteka_donation_sessions_total",
			Help: "Donation session and intent creations by outcome",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(m.sessions)
	return m
}

// DonationService creates one-time donation payment objects with the payment
// processor. It does not persist or track payment state; the processor owns
// the payment lifecycle and redirects the client to the success/cancel routes.
type DonationService struct {
	currency string
	siteURL  string
	sessions checkoutSessionCreator
	intents  paymentIntentCreator
	metrics  *DonationMetrics
}

func NewDonationService(cfg *config.Config) *DonationService {
	return NewDonationServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewDonationServiceWithRegistry(cfg *config.Config, reg prometheus.Registerer) *DonationService {
	svc := &DonationService{
		currency: cfg.Stripe.Currency,
		siteURL:  cfg.Server.SiteURL,
		metrics:  newDonationMetrics(reg),
	}

	// Without a secret key the service still boots; the endpoints report a
	// configuration error at call time instead of crashing startup.
	if cfg.Stripe.SecretKey != "" {
		sc := stripeclient.New(cfg.Stripe.SecretKey, nil)
		svc.sessions = sc.CheckoutSessions
		svc.intents = sc.PaymentIntents
	}

	return svc
}

// CreateCheckoutSession creates a hosted checkout session for a one-time
// donation. amount is in dollars and converted to integer cents by rounding.
func (s *DonationService) CreateCheckoutSession(ctx context.Context, amount float64) (string, error) {
	if amount <= 0 {
		return "", apperrors.ValidationFailed("Invalid amount", "amount must be positive")
	}
	if s.sessions == nil {
		logger.GetLogger().Errorw("Stripe secret key missing, cannot create checkout session")
		return "", apperrors.InternalServerError("Stripe is not configured")
	}

	cents := int64(math.Round(amount * 100))

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(fmt.Sprintf("%s/donate/success", s.siteURL)),
		CancelURL:          stripe.String(fmt.Sprintf("%s/donate", s.siteURL)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.currency),
					UnitAmount: stripe.Int64(cents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(donationProductName),
					},
				},
			},
		},
	}
	params.Context = ctx

	session, err := s.sessions.New(params)
	if err != nil {
		s.metrics.sessions.WithLabelValues("checkout", "failed").Inc()
		logger.GetLogger().Errorw("Stripe checkout session creation failed", "error", err)
		return "", apperrors.NewProviderError(err, "Payment failed")
	}

	s.metrics.sessions.WithLabelValues("checkout", "created").Inc()
	return session.ID, nil
}

// CreatePaymentIntent creates a payment intent for a one-time donation and
// returns the client secret needed to confirm it client-side. amount is
// already in cents; donor name and email travel as processor metadata.
func (s *DonationService) CreatePaymentIntent(ctx context.Context, amount float64, donorName, donorEmail string) (string, error) {
	if amount <= 0 {
		return "", apperrors.ValidationFailed("Invalid amount", "amount must be positive")
	}
	if s.intents == nil {
		logger.GetLogger().Errorw("Stripe secret key missing, cannot create payment intent")
		return "", apperrors.InternalServerError("Stripe is not configured")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount))),
		Currency: stripe.String(s.currency),
	}
	params.Context = ctx
	params.AddMetadata("donor_name", donorName)
	params.AddMetadata("donor_email", donorEmail)

	intent, err := s.intents.New(params)
	if err != nil {
		s.metrics.sessions.WithLabelValues("intent", "failed").Inc()
		logger.GetLogger().Errorw("Stripe payment intent creation failed", "error", err)
		return "", apperrors.NewProviderError(err, "Payment failed")
	}

	s.metrics.sessions.WithLabelValues("intent", "created").Inc()
	return intent.ClientSecret, nil
}
