// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iteka-youth/site-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// SiteURL is the public base URL of the frontend, used to build the
	// donation success and cancel redirect targets.
	SiteURL string `mapstructure:"SITE_URL" yaml:"site_url"`
}

// CMSConfig holds connection details for the headless CMS (Strapi).
type CMSConfig struct {
	BaseURL        string `mapstructure:"BASE_URL" yaml:"base_url"`
	APIToken       string `mapstructure:"API_TOKEN" yaml:"api_token"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// RecaptchaConfig holds configuration for the reCAPTCHA verification service.
type RecaptchaConfig struct {
	SecretKey string `mapstructure:"SECRET_KEY" yaml:"secret_key"`
	// ScoreThreshold is the minimum confidence score treated as human.
	ScoreThreshold float64 `mapstructure:"SCORE_THRESHOLD" yaml:"score_threshold"`
	VerifyURL      string  `mapstructure:"VERIFY_URL" yaml:"verify_url"`
}

// EmailConfig holds configuration for sending operator notifications.
// An empty ResendAPIKey disables the notification step entirely.
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	// ContactEmail is the fixed operator address that receives
	// contact-form notifications.
	ContactEmail string `mapstructure:"CONTACT_EMAIL" yaml:"contact_email"`
}

// Enabled reports whether outbound email is configured.
func (c *EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.ContactEmail != ""
}

// StripeConfig holds payment processor credentials.
type StripeConfig struct {
	SecretKey string `mapstructure:"SECRET_KEY" yaml:"secret_key"`
	Currency  string `mapstructure:"CURRENCY" yaml:"currency"`
}

// RateLimitConfig holds configuration for the contact-form rate limiter.
type RateLimitConfig struct {
	// MaxRequests is the number of submissions accepted per client per window.
	MaxRequests int `mapstructure:"MAX_REQUESTS" yaml:"max_requests"`
	// WindowSeconds is the fixed window duration in seconds.
	WindowSeconds int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// Window returns the rate limit window as a duration.
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// RedisConfig holds optional Redis connection details. When Address is empty
// the service falls back to in-process counters and no content caching.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
}

// Enabled reports whether a Redis address is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Address != ""
}

// ContentConfig holds configuration for the CMS content proxy.
type ContentConfig struct {
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS" yaml:"cache_ttl_seconds"`
}

// CacheTTL returns the content cache TTL as a duration.
func (c *ContentConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	CMS       CMSConfig       `mapstructure:"CMS" yaml:"cms"`
	Recaptcha RecaptchaConfig `mapstructure:"RECAPTCHA" yaml:"recaptcha"`
	Email     EmailConfig     `mapstructure:"EMAIL" yaml:"email"`
	Stripe    StripeConfig    `mapstructure:"STRIPE" yaml:"stripe"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	Content   ContentConfig   `mapstructure:"CONTENT" yaml:"content"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.SITE_URL", "http://localhost:3000")
	v.SetDefault("CMS.BASE_URL", "http://localhost:1337")
	v.SetDefault("CMS.TIMEOUT_SECONDS", 10)
	v.SetDefault("RECAPTCHA.SCORE_THRESHOLD", 0.5)
	v.SetDefault("RECAPTCHA.VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("EMAIL.FROM_ADDRESS", "noreply@itekayouth.org")
	v.SetDefault("EMAIL.FROM_NAME", "Iteka Website")
	v.SetDefault("STRIPE.CURRENCY", "usd")
	// 3 submissions per hour per client, matching the frontend form limits.
	v.SetDefault("RATE_LIMIT.MAX_REQUESTS", 3)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 3600)
	v.SetDefault("REDIS.ADDRESS", "")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("CONTENT.CACHE_TTL_SECONDS", 300)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.SITE_URL", "SITE_URL"},
		{"SERVER.VERSION", "VERSION"},
		{"CMS.BASE_URL", "STRAPI_URL"},
		{"CMS.API_TOKEN", "STRAPI_API_TOKEN"},
		{"CMS.TIMEOUT_SECONDS", "CMS_TIMEOUT_SECONDS"},
		{"RECAPTCHA.SECRET_KEY", "RECAPTCHA_SECRET_KEY"},
		{"RECAPTCHA.SCORE_THRESHOLD", "RECAPTCHA_SCORE_THRESHOLD"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.CONTACT_EMAIL", "CONTACT_EMAIL"},
		{"STRIPE.SECRET_KEY", "STRIPE_SECRET_KEY"},
		{"STRIPE.CURRENCY", "STRIPE_CURRENCY"},
		{"RATE_LIMIT.MAX_REQUESTS", "RATE_LIMIT_MAX_REQUESTS"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"CONTENT.CACHE_TTL_SECONDS", "CONTENT_CACHE_TTL_SECONDS"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	// Optional integrations degrade to disabled rather than failing startup.
	if !cfg.Email.Enabled() {
		log.Warnw("Email notifications disabled", "reason", "RESEND_API_KEY or CONTACT_EMAIL not set")
	}
	if cfg.Recaptcha.SecretKey == "" {
		log.Warnw("reCAPTCHA secret not configured; all challenge verifications will fail closed")
	}
	if cfg.Stripe.SecretKey == "" {
		log.Warnw("Stripe secret key not configured; donation endpoints will return errors")
	}
	if !cfg.Redis.Enabled() {
		log.Infow("Redis not configured; using in-process rate limit counters",
			"note", "quotas reset on restart and are per-instance")
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if _, err := url.ParseRequestURI(cfg.CMS.BaseURL); err != nil {
		return fmt.Errorf("invalid CMS base URL %q: %w", cfg.CMS.BaseURL, err)
	}
	if _, err := url.ParseRequestURI(cfg.Server.SiteURL); err != nil {
		return fmt.Errorf("invalid site URL %q: %w", cfg.Server.SiteURL, err)
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate limit max requests must be positive, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %d", cfg.RateLimit.WindowSeconds)
	}
	if cfg.Recaptcha.ScoreThreshold < 0 || cfg.Recaptcha.ScoreThreshold > 1 {
		return fmt.Errorf("recaptcha score threshold must be within [0,1], got %f", cfg.Recaptcha.ScoreThreshold)
	}
	return nil
}
