package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/id01t/smarttask-ai/internal/gate"
	"github.com/id01t/smarttask-ai/internal/store"
	"github.com/id01t/smarttask-ai/pkg/provider"
)

type stubAdapter struct {
	name       string
	reply      string
	err        error
	dispatched int
	gotSecret  string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Dispatch(ctx context.Context, prompt, secret string) (string, error) {
	s.dispatched++
	s.gotSecret = secret
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestOrchestrator(t *testing.T, adapters ...provider.Adapter) (*Orchestrator, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "smarttask.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	registry := provider.NewRegistry()
	for _, a := range adapters {
		registry.Register(a)
	}
	return New(s, gate.New(s), registry), s
}

func TestSubmitSuccess(t *testing.T) {
	adapter := &stubAdapter{name: provider.OpenAI, reply: "Paris."}
	orchestrator, s := newTestOrchestrator(t, adapter)
	ctx := context.Background()

	if err := s.SaveAPIKeys(ctx, map[string]string{provider.OpenAI: "sk-test"}); err != nil {
		t.Fatalf("SaveAPIKeys() error = %v", err)
	}

	result := orchestrator.Submit(ctx, provider.OpenAI, "Capital of France?")
	if result.Kind != ResultReply {
		t.Fatalf("Kind = %v, expected ResultReply (detail: %s)", result.Kind, result.Detail)
	}
	if result.Reply != "Paris." {
		t.Errorf("Reply = %q, expected %q", result.Reply, "Paris.")
	}
	if adapter.gotSecret != "sk-test" {
		t.Errorf("adapter secret = %q, expected %q", adapter.gotSecret, "sk-test")
	}

	entries := orchestrator.Transcript().Entries()
	if len(entries) != 2 {
		t.Fatalf("transcript entries = %d, expected 2", len(entries))
	}
	if entries[0].Speaker != "You" || entries[0].Text != "Capital of France?" {
		t.Errorf("entry 0 = (%q, %q), expected the prompt", entries[0].Speaker, entries[0].Text)
	}
	if entries[1].Speaker != provider.OpenAI || entries[1].Text != "Paris." {
		t.Errorf("entry 1 = (%q, %q), expected the reply", entries[1].Speaker, entries[1].Text)
	}
}

func TestSubmitNoKeyConfigured(t *testing.T) {
	adapter := &stubAdapter{name: provider.OpenAI, reply: "never"}
	orchestrator, s := newTestOrchestrator(t, adapter)
	ctx := context.Background()

	result := orchestrator.Submit(ctx, provider.OpenAI, "hello")
	if result.Kind != ResultNoKeyConfigured {
		t.Fatalf("Kind = %v, expected ResultNoKeyConfigured", result.Kind)
	}
	if adapter.dispatched != 0 {
		t.Error("expected no dispatch for an unconfigured provider")
	}

	// The gate must not have been consulted, so no quota is consumed
	count, err := s.GetConfig(ctx, store.ConfigQueryCount)
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if count != "0" {
		t.Errorf("query_count = %q, expected %q", count, "0")
	}
}

func TestSubmitQuotaDenied(t *testing.T) {
	adapter := &stubAdapter{name: provider.OpenAI, reply: "never"}
	orchestrator, s := newTestOrchestrator(t, adapter)
	ctx := context.Background()

	if err := s.SaveAPIKeys(ctx, map[string]string{provider.OpenAI: "sk-test"}); err != nil {
		t.Fatalf("SaveAPIKeys() error = %v", err)
	}
	if err := s.SetConfig(ctx, store.ConfigQueryCount, fmt.Sprintf("%d", gate.FreeMonthlyLimit)); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	result := orchestrator.Submit(ctx, provider.OpenAI, "hello")
	if result.Kind != ResultQuotaDenied {
		t.Fatalf("Kind = %v, expected ResultQuotaDenied (detail: %s)", result.Kind, result.Detail)
	}
	if adapter.dispatched != 0 {
		t.Error("expected no dispatch when the gate denies")
	}
	if orchestrator.Transcript().Len() != 0 {
		t.Error("expected no transcript entries for a quota-denied request")
	}
}

func TestSubmitProviderFailureIsAuditedAndConsumesQuota(t *testing.T) {
	adapter := &stubAdapter{
		name: provider.Claude,
		err:  &provider.APIError{StatusCode: 500, Body: "upstream overloaded"},
	}
	orchestrator, s := newTestOrchestrator(t, adapter)
	ctx := context.Background()

	if err := s.SaveAPIKeys(ctx, map[string]string{provider.Claude: "ak-test"}); err != nil {
		t.Fatalf("SaveAPIKeys() error = %v", err)
	}

	result := orchestrator.Submit(ctx, provider.Claude, "hello")
	if result.Kind != ResultProviderFailure {
		t.Fatalf("Kind = %v, expected ResultProviderFailure", result.Kind)
	}

	// The failed attempt still consumed one unit; no refund
	count, err := s.GetConfig(ctx, store.ConfigQueryCount)
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if count != "1" {
		t.Errorf("query_count = %q, expected %q", count, "1")
	}

	// The transcript records prompt and failure detail as an audit trail
	entries := orchestrator.Transcript().Entries()
	if len(entries) != 2 {
		t.Fatalf("transcript entries = %d, expected 2", len(entries))
	}
	if entries[1].Speaker != provider.Claude {
		t.Errorf("entry 1 speaker = %q, expected %q", entries[1].Speaker, provider.Claude)
	}
}

func TestSubmitUnknownProviderIsNonFatal(t *testing.T) {
	orchestrator, s := newTestOrchestrator(t)
	ctx := context.Background()

	if err := s.SaveAPIKeys(ctx, map[string]string{"Mystery": "mk-test"}); err != nil {
		t.Fatalf("SaveAPIKeys() error = %v", err)
	}

	result := orchestrator.Submit(ctx, "Mystery", "hello")
	if result.Kind != ResultReply {
		t.Fatalf("Kind = %v, expected ResultReply", result.Kind)
	}
	if result.Reply != "Model not implemented." {
		t.Errorf("Reply = %q, expected %q", result.Reply, "Model not implemented.")
	}
}

func TestSubmitEmptyPrompt(t *testing.T) {
	adapter := &stubAdapter{name: provider.OpenAI, reply: "never"}
	orchestrator, _ := newTestOrchestrator(t, adapter)

	result := orchestrator.Submit(context.Background(), provider.OpenAI, "   \n ")
	if result.Kind != ResultEmptyPrompt {
		t.Fatalf("Kind = %v, expected ResultEmptyPrompt", result.Kind)
	}
	if adapter.dispatched != 0 {
		t.Error("expected no dispatch for an empty prompt")
	}
	if orchestrator.Transcript().Len() != 0 {
		t.Error("expected no transcript entries for an empty prompt")
	}
}

func TestSubmitAsyncDeliversResult(t *testing.T) {
	adapter := &stubAdapter{name: provider.Gemini, reply: "async reply"}
	orchestrator, s := newTestOrchestrator(t, adapter)
	ctx := context.Background()

	if err := s.SaveAPIKeys(ctx, map[string]string{provider.Gemini: "gk-test"}); err != nil {
		t.Fatalf("SaveAPIKeys() error = %v", err)
	}

	result := <-orchestrator.SubmitAsync(ctx, provider.Gemini, "hello")
	if result.Kind != ResultReply {
		t.Fatalf("Kind = %v, expected ResultReply (detail: %s)", result.Kind, result.Detail)
	}
	if result.Reply != "async reply" {
		t.Errorf("Reply = %q, expected %q", result.Reply, "async reply")
	}
}
