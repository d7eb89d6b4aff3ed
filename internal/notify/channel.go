package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Channel is one way of getting an email notification out of the process.
// Send returns the provider's message id when it has one.
type Channel interface {
	Name() string
	Send(ctx context.Context, email Email) (string, error)
}

// httpDoer is satisfied by *http.Client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// resendChannel delivers through the Resend transactional email API.
type resendChannel struct {
	client  httpDoer
	baseURL string
	apiKey  string
}

// NewResendChannel builds the primary email channel.
func NewResendChannel(client httpDoer, baseURL, apiKey string) Channel {
	return &resendChannel{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *resendChannel) Name() string { return "resend" }

func (c *resendChannel) Send(ctx context.Context, email Email) (string, error) {
	payload := map[string]any{
		"from":    email.From,
		"to":      []string{email.To},
		"subject": email.Subject,
		"text":    email.Text,
		"html":    email.HTML,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("resend responded %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode resend response: %w", err)
	}
	return result.ID, nil
}

// relayChannel forwards the email to a generic HTTP relay, the fallback when
// Resend is down or unconfigured.
type relayChannel struct {
	client   httpDoer
	endpoint string
	token    string
}

// NewRelayChannel builds the secondary email channel.
func NewRelayChannel(client httpDoer, endpoint, token string) Channel {
	return &relayChannel{client: client, endpoint: endpoint, token: token}
}

func (c *relayChannel) Name() string { return "relay" }

func (c *relayChannel) Send(ctx context.Context, email Email) (string, error) {
	payload := map[string]any{
		"to":      email.To,
		"subject": email.Subject,
		"text":    email.Text,
		"html":    email.HTML,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("relay responded %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result struct {
		ID string `json:"id"`
	}
	// relay responses are best-effort; an unparseable body is still a send
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return result.ID, nil
}
