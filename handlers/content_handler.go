package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentHandler proxies read-only CMS content to the public site.
type ContentHandler struct {
	contentService ContentServiceInterface
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// GetCollection handles GET /api/content/:collection. Galleries accept an
// optional ?category= query parameter.
func (h *ContentHandler) GetCollection(c *gin.Context) {
	collection := c.Param("collection")
	category := c.Query("category")

	data, err := h.contentService.GetCollection(c.Request.Context(), collection, category)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, "application/json", wrapData(data))
}

// GetBySlug handles GET /api/content/:collection/:slug.
func (h *ContentHandler) GetBySlug(c *gin.Context) {
	collection := c.Param("collection")
	slug := c.Param("slug")

	data, err := h.contentService.GetBySlug(c.Request.Context(), collection, slug)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(http.StatusOK, "application/json", wrapData(data))
}

// wrapData restores the {"data": ...} envelope the frontend expects, which
// mirrors the CMS response shape.
func wrapData(data []byte) []byte {
	out := make([]byte, 0, len(data)+10)
	out = append(out, `{"data":`...)
	out = append(out, data...)
	out = append(out, '}')
	return out
}
