package main

import (
	"crypto/tls"
	"strings"
	"time"

	"github.com/iteka-youth/site-backend/config"
	"github.com/iteka-youth/site-backend/handlers"
	"github.com/iteka-youth/site-backend/logger"
	"github.com/iteka-youth/site-backend/pkg/strapi"
	"github.com/iteka-youth/site-backend/router"
	"github.com/iteka-youth/site-backend/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client with TLS in production. Redis is optional:
	// without it the rate limiter keeps in-process counters and content
	// caching is disabled.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		if cfg.IsProduction() {
			redisOptions.TLSConfig = &tls.Config{
				ServerName: redisHost(cfg.Redis.Address),
				MinVersion: tls.VersionTLS12,
			}
		}

		redisClient = redis.NewClient(redisOptions)
		defer func() {
			_ = redisClient.Close()
		}()
	}

	// CMS client
	cmsClient := strapi.NewClient(cfg.CMS.BaseURL, cfg.CMS.APIToken,
		time.Duration(cfg.CMS.TimeoutSeconds)*time.Second)

	// Rate limiting: shared Redis counters when available, per-process otherwise
	var counterStore services.CounterStore
	if redisClient != nil {
		counterStore = services.NewRedisCounterStore(redisClient)
	} else {
		counterStore = services.NewMemoryCounterStore()
	}
	rateLimiter := services.NewRateLimitService(counterStore, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())

	// Contact pipeline
	recaptchaService := services.NewRecaptchaService(&cfg.Recaptcha)
	var notifier services.Notifier
	if cfg.Email.Enabled() {
		notifier = services.NewEmailService(&cfg.Email)
	}
	contactService := services.NewContactService(cmsClient, recaptchaService, rateLimiter, notifier)

	// Donations
	donationService := services.NewDonationService(cfg)

	// Content proxy with optional Redis cache
	var contentCache services.ContentCache
	if redisClient != nil {
		contentCache = services.NewRedisContentCache(redisClient)
	}
	contentService := services.NewContentService(cmsClient, contentCache, cfg.Content.CacheTTL())

	healthService := services.NewHealthService(cmsClient, redisClient, cfg.Server.Version)

	// Router setup
	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		ContactHandler:  handlers.NewContactHandler(contactService),
		DonationHandler: handlers.NewDonationHandler(donationService),
		ContentHandler:  handlers.NewContentHandler(contentService),
		HealthHandler:   handlers.NewHealthHandler(healthService),
		Logger:          log,
	})

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// redisHost strips the port from an address for use as a TLS server name.
func redisHost(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[:i]
	}
	return addr
}
