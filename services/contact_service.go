package services

import (
	"context"
	"regexp"
	"strings"

	apperrors "github.com/iteka-youth/site-backend/errors"
	"github.com/iteka-youth/site-backend/logger"
	"github.com/iteka-youth/site-backend/types"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	maxNameLength    = 100
	maxMessageLength = 2000
)

// emailPattern is a shape check, not an RFC validator. The CMS and the
// notification Reply-To are the only consumers of the address.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MessageStore persists accepted submissions. Implemented by the CMS client.
type MessageStore interface {
	CreateContactMessage(ctx context.Context, msg types.ContactMessage) error
}

type ContactMetrics struct {
	outcomes *prometheus.CounterVec
}

func newContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iteka_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.outcomes)
	return m
}

// ContactService runs the contact submission pipeline: rate limiting, abuse
// filtering, field validation, CMS persistence and best-effort notification.
type ContactService struct {
	store    MessageStore
	verifier ChallengeVerifier
	limiter  RateLimiterInterface
	// notifier is nil when outbound email is not configured; the
	// notification step is then skipped entirely.
	notifier Notifier
	metrics  *ContactMetrics
}

func NewContactService(store MessageStore, verifier ChallengeVerifier, limiter RateLimiterInterface, notifier Notifier) *ContactService {
	return NewContactServiceWithRegistry(store, verifier, limiter, notifier, prometheus.DefaultRegisterer)
}

func NewContactServiceWithRegistry(store MessageStore, verifier ChallengeVerifier, limiter RateLimiterInterface, notifier Notifier, reg prometheus.Registerer) *ContactService {
	return &ContactService{
		store:    store,
		verifier: verifier,
		limiter:  limiter,
		notifier: notifier,
		metrics:  newContactMetrics(reg),
	}
}

// Submit runs the full pipeline for one submission. A nil return means the
// caller should report success; that covers both accepted submissions and
// honeypot hits, which are silently discarded so automated senders get no
// signal that they were detected.
func (s *ContactService) Submit(ctx context.Context, clientKey string, sub types.ContactSubmission) error {
	log := logger.GetLogger()

	allowed, retryAfter, _ := s.limiter.Allow(ctx, clientKey)
	if !allowed {
		s.metrics.outcomes.WithLabelValues("rate_limited").Inc()
		log.Infow("Contact submission rate limited", "clientKey", clientKey)
		return apperrors.RateLimitExceeded("Too many requests. Please try again later.", int(retryAfter.Seconds()))
	}

	if sub.Honeypot != "" {
		s.metrics.outcomes.WithLabelValues("honeypot").Inc()
		log.Infow("Bot detected via honeypot", "clientKey", clientKey)
		return nil
	}

	if err := validateSubmission(sub); err != nil {
		s.metrics.outcomes.WithLabelValues("validation_failed").Inc()
		return err
	}

	if sub.RecaptchaToken == "" {
		s.metrics.outcomes.WithLabelValues("challenge_failed").Inc()
		return apperrors.AbuseDetected("missing challenge token")
	}

	human, err := s.verifier.Verify(ctx, sub.RecaptchaToken, clientKey)
	if err != nil || !human {
		s.metrics.outcomes.WithLabelValues("challenge_failed").Inc()
		log.Infow("Challenge verification failed",
			"clientKey", clientKey,
			"error", err)
		return apperrors.AbuseDetected("challenge verification failed")
	}

	msg := types.ContactMessage{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
		Phone:   sub.Phone,
	}
	if msg.Subject == "" {
		msg.Subject = "No subject"
	}

	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		s.metrics.outcomes.WithLabelValues("persistence_failed").Inc()
		log.Errorw("Failed to persist contact message",
			"clientKey", clientKey,
			"error", err)
		return apperrors.NewPersistenceError(err)
	}

	// Notification is a non-critical side effect: the submission is already
	// recorded, so a delivery failure is logged and swallowed.
	if s.notifier != nil {
		if err := s.notifier.SendContactNotification(ctx, msg); err != nil {
			log.Errorw("Failed to send contact notification",
				"from", logger.MaskEmail(msg.Email),
				"error", err)
		}
	} else {
		log.Debugw("Email notifications not configured, skipping")
	}

	s.metrics.outcomes.WithLabelValues("accepted").Inc()
	log.Infow("Contact message accepted",
		"from", logger.MaskEmail(msg.Email))
	return nil
}

// validateSubmission applies the field rules in order; the first violated
// rule determines the reported error.
func validateSubmission(sub types.ContactSubmission) *apperrors.AppError {
	if strings.TrimSpace(sub.Name) == "" ||
		strings.TrimSpace(sub.Email) == "" ||
		strings.TrimSpace(sub.Message) == "" {
		return apperrors.ValidationFailed("Missing required fields", "name, email and message are required")
	}
	if !emailPattern.MatchString(sub.Email) {
		return apperrors.ValidationFailed("Invalid email format", "")
	}
	if len(sub.Name) > maxNameLength || len(sub.Message) > maxMessageLength {
		return apperrors.ValidationFailed("Input too long", "name is capped at 100 characters, message at 2000")
	}
	return nil
}
