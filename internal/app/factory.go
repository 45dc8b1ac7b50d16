package app

import (
	"github.com/id01t/smarttask-ai/internal/config"
	"github.com/id01t/smarttask-ai/pkg/provider"
	"github.com/id01t/smarttask-ai/pkg/provider/anthropic"
	"github.com/id01t/smarttask-ai/pkg/provider/custom"
	"github.com/id01t/smarttask-ai/pkg/provider/gemini"
	"github.com/id01t/smarttask-ai/pkg/provider/openai"
)

// BuildRegistry constructs the adapter registry from settings. All known
// providers register unconditionally; availability is decided at submit
// time by the presence of a stored API key, not here.
func BuildRegistry(settings *config.Settings) *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(openai.NewClient(settings.Providers.OpenAIModel))
	registry.Register(anthropic.NewClient(settings.Providers.ClaudeModel))
	registry.Register(gemini.NewClient(settings.Providers.GeminiModel))
	registry.Register(custom.NewClient(settings.Providers.CustomEndpointURL))
	return registry
}
