// Package app composes the quota gate, the provider adapter registry, and
// the session transcript into a single submit operation.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/id01t/smarttask-ai/internal/gate"
	"github.com/id01t/smarttask-ai/internal/store"
	"github.com/id01t/smarttask-ai/pkg/logger"
	"github.com/id01t/smarttask-ai/pkg/provider"
	"github.com/id01t/smarttask-ai/pkg/transcript"
)

// ResultKind classifies the outcome of a submission.
type ResultKind int

const (
	// ResultReply carries a normalized provider reply.
	ResultReply ResultKind = iota
	// ResultQuotaDenied means the gate refused the request.
	ResultQuotaDenied
	// ResultNoKeyConfigured means the provider has no stored API key.
	ResultNoKeyConfigured
	// ResultProviderFailure wraps a dispatch failure as a value.
	ResultProviderFailure
	// ResultEmptyPrompt means the prompt was empty after trimming; nothing
	// was consumed or dispatched.
	ResultEmptyPrompt
)

// Result is the outcome of a submission. Submit always returns a value;
// failures never unwind across this boundary.
type Result struct {
	Kind     ResultKind
	Provider string
	Reply    string
	Detail   string
}

// speakerUser labels the caller's entries in the transcript.
const speakerUser = "You"

// notImplementedReply is the plain-text reply for provider identifiers the
// registry does not know. It is a normal reply, not a failure.
const notImplementedReply = "Model not implemented."

// Orchestrator routes prompts through the gate to the selected provider
// adapter and keeps the session transcript as a complete audit trail,
// failures included.
type Orchestrator struct {
	store      *store.Store
	gate       *gate.Gate
	registry   *provider.Registry
	transcript *transcript.Transcript
	logger     *logger.Logger
}

// New creates an orchestrator with a fresh session transcript.
func New(s *store.Store, g *gate.Gate, r *provider.Registry) *Orchestrator {
	return &Orchestrator{
		store:      s,
		gate:       g,
		registry:   r,
		transcript: transcript.New(),
		logger:     logger.NewComponentLogger("orchestrator"),
	}
}

// Transcript returns the session transcript.
func (o *Orchestrator) Transcript() *transcript.Transcript {
	return o.transcript
}

// Submit routes one prompt to the named provider. Sequence: key lookup,
// gate check, dispatch. A missing key short-circuits before the gate, so
// no quota is consumed and no network call is made. A dispatch failure
// after the gate does not refund the consumed unit.
func (o *Orchestrator) Submit(ctx context.Context, providerID, prompt string) Result {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{Kind: ResultEmptyPrompt, Provider: providerID, Detail: "prompt is empty"}
	}

	secret, configured, err := o.store.GetAPIKey(ctx, providerID)
	if err != nil {
		o.logger.WithProvider(providerID).Error("api key lookup failed", "error", err)
		return Result{Kind: ResultProviderFailure, Provider: providerID, Detail: fmt.Sprintf("storage failure: %v", err)}
	}
	if !configured {
		return Result{Kind: ResultNoKeyConfigured, Provider: providerID,
			Detail: fmt.Sprintf("API key for %s not found", providerID)}
	}

	if err := o.gate.CheckAndConsume(ctx); err != nil {
		if errors.Is(err, gate.ErrQuotaExceeded) {
			return Result{Kind: ResultQuotaDenied, Provider: providerID, Detail: err.Error()}
		}
		o.logger.Error("gate check failed", "error", err)
		return Result{Kind: ResultProviderFailure, Provider: providerID, Detail: fmt.Sprintf("gate failure: %v", err)}
	}

	// From here on the transcript records the exchange whatever happens.
	o.transcript.Append(speakerUser, prompt)

	adapter, ok := o.registry.Resolve(providerID)
	if !ok {
		o.transcript.Append(providerID, notImplementedReply)
		return Result{Kind: ResultReply, Provider: providerID, Reply: notImplementedReply}
	}

	reply, err := adapter.Dispatch(ctx, prompt, secret)
	if err != nil {
		detail := failureDetail(err)
		o.logger.WithProvider(providerID).Warn("dispatch failed", "detail", detail)
		o.transcript.Append(providerID, "Error: "+detail)
		return Result{Kind: ResultProviderFailure, Provider: providerID, Detail: detail}
	}

	o.transcript.Append(providerID, reply)
	return Result{Kind: ResultReply, Provider: providerID, Reply: reply}
}

// SubmitAsync runs Submit on a worker goroutine and delivers the result on
// the returned channel. At most one in-flight request per session is
// assumed; the channel is buffered so the worker never blocks.
func (o *Orchestrator) SubmitAsync(ctx context.Context, providerID, prompt string) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		results <- o.Submit(ctx, providerID, prompt)
		close(results)
	}()
	return results
}

// failureDetail renders a dispatch error as a short human-readable string,
// keeping the taxonomy visible without exposing callers to raw errors.
func failureDetail(err error) string {
	var (
		netErr   *provider.NetworkError
		apiErr   *provider.APIError
		parseErr *provider.ParseError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &netErr):
		return netErr.Error()
	default:
		return err.Error()
	}
}
