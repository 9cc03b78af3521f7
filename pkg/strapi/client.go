// Package strapi is a minimal client for the headless CMS REST API.
// It covers the two call shapes the site needs: authenticated creation of
// contact-message records and read-only collection fetches.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iteka-youth/site-backend/logger"
	"github.com/iteka-youth/site-backend/types"
)

// ClientInterface defines the CMS operations used by the services.
type ClientInterface interface {
	CreateContactMessage(ctx context.Context, msg types.ContactMessage) error
	List(ctx context.Context, collection string, query Query) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

// StatusError reports a non-2xx CMS response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cms returned status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ ClientInterface = (*Client)(nil)

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// createPayload wraps record fields in the envelope the CMS expects.
type createPayload struct {
	Data types.ContactMessage `json:"data"`
}

// listEnvelope is the CMS list response. Data is kept raw because every
// collection carries its own attribute shape; callers that need structure
// decode it themselves.
type listEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta json.RawMessage `json:"meta,omitempty"`
}

// CreateContactMessage persists an accepted contact submission as a
// contact-message record. A non-2xx response is returned as a *StatusError.
func (c *Client) CreateContactMessage(ctx context.Context, msg types.ContactMessage) error {
	body, err := json.Marshal(createPayload{Data: msg})
	if err != nil {
		return fmt.Errorf("failed to marshal contact message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/contact-messages", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.GetLogger().Errorw("CMS rejected contact message",
			"statusCode", resp.StatusCode,
			"body", string(respBody))
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	return nil
}

// List fetches a collection with the given query and returns the raw data
// payload of the CMS envelope.
func (c *Client) List(ctx context.Context, collection string, query Query) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/api/%s", c.baseURL, collection)
	if encoded := query.Encode(); encoded != "" {
		endpoint = endpoint + "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Collections that are single types return an object; absent content
	// comes back as JSON null rather than a missing key.
	if len(envelope.Data) == 0 {
		return json.RawMessage("null"), nil
	}

	return envelope.Data, nil
}

// First decodes a raw list payload and returns its first element, or nil when
// the list is empty. Used for slug-filtered detail lookups.
func First(data json.RawMessage) (json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("expected list payload: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// Ping checks CMS reachability for health reporting. Any HTTP response counts
// as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cms unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
