package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultBaseURL = "https://api.resend.com"

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client is a thin wrapper over the Resend emails endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg ClientConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: base,
		apiKey:  cfg.APIKey,
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// APIError is the error body Resend returns on a rejected request.
type APIError struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// SendEmail posts one email. A non-nil error means the API was not reached;
// a non-nil *APIError means it was reached and said no.
func (c *Client) SendEmail(ctx context.Context, from, to, subject, text string) (*APIError, error) {
	payload, err := json.Marshal(sendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	apiErr := APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		apiErr.Message = resp.Status
	}
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = resp.StatusCode
	}
	return &apiErr, nil
}
