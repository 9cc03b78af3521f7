package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientKey derives the rate-limit key for a request: the first entry of the
// X-Forwarded-For chain, else X-Real-IP, else the direct peer address, else
// a sentinel. The hosting platform terminates TLS in front of this service,
// so the forwarded chain is the usual source.
func ClientKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 && strings.TrimSpace(ips[0]) != "" {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	if c.Request.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
			return host
		}
		return c.Request.RemoteAddr
	}

	return "unknown"
}
