package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/id01t/smarttask-ai/pkg/provider"
)

// Client dispatches prompts to a user-supplied HTTP endpoint. The endpoint
// receives {"prompt": ...} and may answer in any JSON shape; the reply is
// taken from "response", then "text", then the raw body.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a custom-endpoint adapter for the given URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: provider.DispatchTimeout},
	}
}

// Name returns the provider identifier for this adapter.
func (c *Client) Name() string { return provider.CustomEndpoint }

// Dispatch posts the prompt to the configured endpoint and extracts the
// reply with the fallback field search.
func (c *Client) Dispatch(ctx context.Context, prompt, secret string) (string, error) {
	if c.endpoint == "" {
		return "", &provider.NetworkError{Err: fmt.Errorf("custom endpoint URL is not configured")}
	}

	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", &provider.ParseError{Msg: fmt.Sprintf("failed to encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &provider.NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &provider.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &provider.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &provider.APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return extractReply(body), nil
}

// extractReply walks the candidate field names in order. The endpoint schema
// is not fixed, so an unparseable body is returned verbatim rather than
// treated as an error.
func extractReply(body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		if s, ok := fields["response"].(string); ok {
			return s
		}
		if s, ok := fields["text"].(string); ok {
			return s
		}
	}
	return string(body)
}
