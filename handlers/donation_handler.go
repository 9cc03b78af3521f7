package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iteka-youth/site-backend/types"
)

// DonationHandler handles donation intent requests from the public site.
// Both endpoints only create a payment attempt with the processor; the
// frontend completes the payment and the processor dashboard is the source
// of truth for outcomes.
type DonationHandler struct {
	donationService DonationServiceInterface
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(donationService DonationServiceInterface) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

// CreateCheckout handles POST /api/create-checkout. The amount arrives in
// whole currency units (dollars).
func (h *DonationHandler) CreateCheckout(c *gin.Context) {
	var req types.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	sessionID, err := h.donationService.CreateCheckoutSession(c.Request.Context(), req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.CheckoutResponse{SessionID: sessionID})
}

// CreatePaymentIntent handles POST /api/create-payment-intent. The amount
// arrives in minor units (cents), unlike the checkout endpoint.
func (h *DonationHandler) CreatePaymentIntent(c *gin.Context) {
	var req types.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	clientSecret, err := h.donationService.CreatePaymentIntent(c.Request.Context(), req.Amount, req.Name, req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.PaymentIntentResponse{ClientSecret: clientSecret})
}
