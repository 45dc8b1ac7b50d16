package anthropic

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/id01t/smarttask-ai/pkg/provider"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
)

// Client dispatches prompts to the Anthropic messages API.
type Client struct {
	model   string
	baseURL string
}

// NewClient creates a Claude adapter for the given model.
// An empty model falls back to the default.
func NewClient(model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{model: model}
}

// NewClientWithBaseURL creates a Claude adapter pointed at a custom base URL.
func NewClientWithBaseURL(model, baseURL string) *Client {
	c := NewClient(model)
	c.baseURL = baseURL
	return c
}

// Name returns the provider identifier for this adapter.
func (c *Client) Name() string { return provider.Claude }

// Dispatch sends the prompt as a single user message and concatenates the
// text blocks of the reply.
func (c *Client) Dispatch(ctx context.Context, prompt, secret string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, provider.DispatchTimeout)
	defer cancel()

	opts := []option.RequestOption{
		option.WithAPIKey(secret),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := anthropic.NewClient(opts...)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		MaxTokens: int64(defaultMaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Model: anthropic.Model(c.model),
	})
	if err != nil {
		return "", classifyError(err)
	}

	var content string
	for _, block := range msg.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += textBlock.Text
		}
	}
	if content == "" {
		return "", &provider.ParseError{Msg: "no text content in Anthropic response"}
	}
	return content, nil
}

// classifyError maps SDK failures onto the shared provider error taxonomy.
func classifyError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &provider.APIError{StatusCode: apierr.StatusCode, Body: apierr.Error()}
	}
	return &provider.NetworkError{Err: err}
}
