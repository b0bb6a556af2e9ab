package ai

import (
	"context"
	"strings"
)

// Runtime is implemented by chat backends such as OpenRouter and a local Ollama.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// ModelLister is implemented by runtimes that can enumerate installed models.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}

// Provider identifiers used across the CLI for selection.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// NormalizeProvider maps user-facing aliases to a registered provider name.
// Unknown names are returned lower-cased so GetRuntime can reject them.
func NormalizeProvider(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", "local", "ollama":
		return ProviderOllama
	case "openrouter", "openai", "anthropic", "google", "gemini", "meta":
		return ProviderOpenRouter
	default:
		return n
	}
}
