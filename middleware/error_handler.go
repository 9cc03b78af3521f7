package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iteka-youth/site-backend/errors"
	"github.com/iteka-youth/site-backend/logger"
)

// ErrorHandler converts errors attached to the gin context into the API's
// JSON error shape: {"error": message, "code": "<status>"}. Error taxonomy
// details stay server-side; abuse rejections in particular reveal nothing
// beyond a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		log := logger.GetLogger()

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()

			log.Infow("Request failed",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"client_ip", c.ClientIP(),
				"error_type", string(appError.Type),
				"error_message", appError.Message,
				"error_detail", appError.Detail,
				"status_code", statusCode)

			if appError.Type == errors.RateLimitError && appError.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(appError.RetryAfter))
			}

			response := gin.H{
				"error": appError.Message,
				"code":  strconv.Itoa(statusCode),
			}

			// Validation details help the caller fix the request; other
			// details stay out of responses except in debug mode.
			if appError.Detail != "" && (gin.IsDebugging() || appError.Type == errors.ValidationError) {
				response["details"] = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		// Gin binding errors come through as bind-typed errors.
		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, 400, "Request binding error")
			c.JSON(400, gin.H{
				"error": "Invalid request payload",
				"code":  "400",
			})
			return
		}

		logger.LogHTTPError(c, err, 500, "Unexpected server error")

		response := gin.H{
			"error": "Internal Server Error",
			"code":  "500",
		}
		if gin.IsDebugging() {
			response["details"] = err.Error()
		}
		c.JSON(500, response)
	}
}
