// Package provider defines the adapter contract shared by all AI backends
// and the registry used to resolve a provider name to its adapter.
package provider

import (
	"context"
	"time"
)

// Provider identifiers. These double as the service names under which API
// keys are stored, so they must stay stable across releases.
const (
	OpenAI         = "OpenAI"
	Claude         = "Claude"
	Gemini         = "Gemini"
	CustomEndpoint = "Custom Endpoint"
)

// DispatchTimeout bounds a single provider round-trip. Exceeding it
// surfaces as a NetworkError.
const DispatchTimeout = 30 * time.Second

// Adapter translates a generic prompt into one provider's wire format and
// normalizes the reply back into plain text. Implementations are stateless
// and safe for concurrent use.
type Adapter interface {
	// Name returns the provider identifier this adapter serves.
	Name() string

	// Dispatch sends the prompt authenticated with the given secret and
	// returns the reply text. Failures are one of *NetworkError,
	// *APIError or *ParseError.
	Dispatch(ctx context.Context, prompt, secret string) (string, error)
}
