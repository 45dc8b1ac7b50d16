package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/id01t/smarttask-ai/pkg/provider"
)

const defaultModel = "gemini-2.5-flash"

// Client dispatches prompts to the Gemini generate-content API.
type Client struct {
	model   string
	baseURL string
}

// NewClient creates a Gemini adapter for the given model.
// An empty model falls back to the default.
func NewClient(model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{model: model}
}

// NewClientWithBaseURL creates a Gemini adapter pointed at a custom base URL.
func NewClientWithBaseURL(model, baseURL string) *Client {
	c := NewClient(model)
	c.baseURL = baseURL
	return c
}

// Name returns the provider identifier for this adapter.
func (c *Client) Name() string { return provider.Gemini }

// Dispatch sends the prompt as user content and returns the first
// candidate's text.
func (c *Client) Dispatch(ctx context.Context, prompt, secret string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, provider.DispatchTimeout)
	defer cancel()

	config := &genai.ClientConfig{
		APIKey:  secret,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return "", &provider.NetworkError{Err: fmt.Errorf("failed to create Gemini client: %w", err)}
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Candidates) == 0 {
		return "", &provider.ParseError{Msg: "no candidates in Gemini response"}
	}
	text := resp.Text()
	if text == "" {
		return "", &provider.ParseError{Msg: "empty text in Gemini response"}
	}
	return text, nil
}

// classifyError maps SDK failures onto the shared provider error taxonomy.
func classifyError(err error) error {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		return &provider.APIError{StatusCode: apierr.Code, Body: apierr.Message}
	}
	return &provider.NetworkError{Err: err}
}
