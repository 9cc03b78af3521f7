package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iteka-youth/site-backend/middleware"
	"github.com/iteka-youth/site-backend/types"
)

// ContactHandler handles contact form submissions from the public site.
type ContactHandler struct {
	contactService ContactServiceInterface
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService ContactServiceInterface) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// SubmitContact handles POST /api/contact. The response for a honeypot hit is
// indistinguishable from a real acceptance, so bots cannot tell they were
// filtered out.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var submission types.ContactSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	clientKey := middleware.ClientKey(c)
	if err := h.contactService.Submit(c.Request.Context(), clientKey, submission); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
