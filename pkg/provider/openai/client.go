package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/id01t/smarttask-ai/pkg/provider"
)

const defaultModel = "gpt-4o"

// Client dispatches prompts to the OpenAI chat completions API.
// The API key arrives per dispatch, so the client itself holds no secrets.
type Client struct {
	model   string
	baseURL string
}

// NewClient creates an OpenAI adapter for the given model.
// An empty model falls back to the default.
func NewClient(model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{model: model}
}

// NewClientWithBaseURL creates an OpenAI adapter pointed at a custom base URL
// (Azure deployments, proxies, or test servers).
func NewClientWithBaseURL(model, baseURL string) *Client {
	c := NewClient(model)
	c.baseURL = baseURL
	return c
}

// Name returns the provider identifier for this adapter.
func (c *Client) Name() string { return provider.OpenAI }

// Dispatch sends the prompt as a single user message and returns the first
// choice's message content.
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
	client := openai.NewClient(opts...)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: shared.ChatModel(c.model),
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(completion.Choices) == 0 {
		return "", &provider.ParseError{Msg: "no choices in OpenAI response"}
	}
	return completion.Choices[0].Message.Content, nil
}

// classifyError maps SDK failures onto the shared provider error taxonomy.
func classifyError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &provider.APIError{StatusCode: apierr.StatusCode, Body: apierr.Error()}
	}
	return &provider.NetworkError{Err: err}
}
