package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/iteka-youth/site-backend/config"
)

// SecurityHeadersMiddleware adds security-related HTTP headers to all responses.
// These headers help protect against common web vulnerabilities like clickjacking,
// XSS attacks, and MIME type sniffing.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// X-Frame-Options: Prevents clickjacking attacks by disallowing the page
		// from being embedded in frames, iframes, or objects
		c.Header("X-Frame-Options", "DENY")

		// X-Content-Type-Options: Prevents MIME type sniffing by forcing browsers
		// to respect the declared Content-Type
		c.Header("X-Content-Type-Options", "nosniff")

		// Referrer-Policy: Controls how much referrer information is sent with requests
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Strict-Transport-Security (HSTS): Forces HTTPS connections for the specified duration
		// Only enable in production to avoid issues during local development
		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
