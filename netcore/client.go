package netcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"smartechtool/api/models"
)

// APIResponse is the raw outcome of one outbound call, kept as text so the
// history can replay whatever the endpoint returned.
type APIResponse struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	Body       string `json:"body"`
}

// OK reports whether the response carries a 2xx status.
func (r APIResponse) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client dispatches composed calls to the marketing APIs. Requests are fired
// once; failures are wrapped and surfaced, never retried.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a dispatcher with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// SendContact POSTs a form-encoded contact call.
func (c *Client) SendContact(ctx context.Context, endpoint string, query, body url.Values) (APIResponse, error) {
	target, err := url.Parse(endpoint)
	if err != nil {
		return APIResponse{}, fmt.Errorf("invalid contact endpoint %q: %w", endpoint, err)
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(body.Encode()))
	if err != nil {
		return APIResponse{}, fmt.Errorf("failed to build contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Printf("Dispatching contact API call to %s (activity=%s)", target.Host, query.Get("activity"))
	resp, err := c.do(req)
	if err != nil {
		return APIResponse{}, fmt.Errorf("API request failed: %w", err)
	}
	return resp, nil
}

// SendActivity POSTs a JSON activity batch with the Bearer token.
func (c *Client) SendActivity(ctx context.Context, endpoint, bearerToken string, payload []models.ActivityRecord) (APIResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return APIResponse{}, fmt.Errorf("failed to encode activity payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return APIResponse{}, fmt.Errorf("failed to build activity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Content-Type", "application/json")

	log.Printf("Dispatching activity API call to %s (%d records)", endpoint, len(payload))
	resp, err := c.do(req)
	if err != nil {
		return APIResponse{}, fmt.Errorf("activity API request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) do(req *http.Request) (APIResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return APIResponse{}, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return APIResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Printf("API response: %s (%d bytes)", resp.Status, len(responseBody))

	return APIResponse{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       string(responseBody),
	}, nil
}
