package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iteka-youth/site-backend/config"
	"github.com/iteka-youth/site-backend/logger"
)

// ChallengeVerifier checks a challenge-response proof token against the
// remote verification service.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// RecaptchaService forwards proof tokens to the reCAPTCHA siteverify endpoint
// and accepts only responses reporting success with a confidence score above
// the configured threshold. Any failure along the way counts as a failed
// verification (fail-closed).
type RecaptchaService struct {
	secretKey  string
	threshold  float64
	verifyURL  string
	httpClient *http.Client
}

var _ ChallengeVerifier = (*RecaptchaService)(nil)

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

func NewRecaptchaService(cfg *config.RecaptchaConfig) *RecaptchaService {
	return &RecaptchaService{
		secretKey: cfg.SecretKey,
		threshold: cfg.ScoreThreshold,
		verifyURL: cfg.VerifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *RecaptchaService) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	log := logger.GetLogger()

	if s.secretKey == "" {
		log.Errorw("reCAPTCHA secret key not configured")
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", s.secretKey)
	form.Set("response", token)
	if remoteIP != "" && remoteIP != "unknown" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Errorw("reCAPTCHA verification request failed", "error", err)
		return false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnw("reCAPTCHA service returned non-OK status", "statusCode", resp.StatusCode)
		return false, fmt.Errorf("verification service returned status: %d", resp.StatusCode)
	}

	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Errorw("Failed to decode reCAPTCHA response", "error", err)
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		log.Infow("reCAPTCHA verification unsuccessful", "errorCodes", result.ErrorCodes)
		return false, nil
	}

	if result.Score <= s.threshold {
		log.Infow("reCAPTCHA score below threshold",
			"score", result.Score,
			"threshold", s.threshold)
		return false, nil
	}

	return true, nil
}
