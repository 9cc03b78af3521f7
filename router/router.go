package router

import (
	"github.com/gin-gonic/gin"
	"github.com/iteka-youth/site-backend/config"
	"github.com/iteka-youth/site-backend/handlers"
	"github.com/iteka-youth/site-backend/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config          *config.Config
	ContactHandler  *handlers.ContactHandler
	DonationHandler *handlers.DonationHandler
	ContentHandler  *handlers.ContentHandler
	HealthHandler   *handlers.HealthHandler
	Logger          *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/contact", deps.ContactHandler.SubmitContact)

		api.POST("/create-checkout", deps.DonationHandler.CreateCheckout)
		api.POST("/create-payment-intent", deps.DonationHandler.CreatePaymentIntent)

		content := api.Group("/content")
		{
			content.GET("/:collection", deps.ContentHandler.GetCollection)
			content.GET("/:collection/:slug", deps.ContentHandler.GetBySlug)
		}
	}

	return r
}
