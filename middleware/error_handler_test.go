package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iteka-youth/site-backend/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupErrorHandlerRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", handler)
	return r
}

func performRequest(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_ValidationError(t *testing.T) {
	r := setupErrorHandlerRouter(func(c *gin.Context) {
		_ = c.Error(errors.ValidationFailed("Invalid input", "Name is required"))
	})

	w := performRequest(r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeErrorBody(t, w)
	assert.Equal(t, "Invalid input", body["error"])
	assert.Equal(t, "400", body["code"])
	assert.Equal(t, "Name is required", body["details"])
}

func TestErrorHandler_AbuseErrorHidesDetail(t *testing.T) {
	r := setupErrorHandlerRouter(func(c *gin.Context) {
		_ = c.Error(errors.AbuseDetected("score 0.1 below threshold"))
	})

	w := performRequest(r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeErrorBody(t, w)
	assert.Equal(t, "reCAPTCHA validation failed", body["error"])
	assert.NotContains(t, w.Body.String(), "score 0.1")
}

func TestErrorHandler_RateLimitSetsRetryAfter(t *testing.T) {
	r := setupErrorHandlerRouter(func(c *gin.Context) {
		_ = c.Error(errors.RateLimitExceeded("Too many messages sent. Please try again later.", 1800))
	})

	w := performRequest(r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1800", w.Header().Get("Retry-After"))
	body := decodeErrorBody(t, w)
	assert.Equal(t, "Too many messages sent. Please try again later.", body["error"])
	assert.Equal(t, "429", body["code"])
}

func TestErrorHandler_PersistenceError(t *testing.T) {
	r := setupErrorHandlerRouter(func(c *gin.Context) {
		_ = c.Error(errors.NewPersistenceError(assert.AnError))
	})

	w := performRequest(r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeErrorBody(t, w)
	assert.Equal(t, "Failed to save message", body["error"])
	assert.Equal(t, "500", body["code"])
	// The wrapped cause must never reach the client.
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestErrorHandler_UnknownError(t *testing.T) {
	r := setupErrorHandlerRouter(func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	w := performRequest(r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeErrorBody(t, w)
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Equal(t, "500", body["code"])
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	r := setupErrorHandlerRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := performRequest(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
}
