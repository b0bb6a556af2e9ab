package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/moviecorpus-cli/internal/config"
)

type runtimeOptions struct {
	ProviderFlag string
	OllamaHost   string
}

// buildRuntime resolves the provider (flag, then config, then Ollama) and
// constructs its runtime with the configured HTTP and retry settings.
func buildRuntime(cfg *cfgpkg.Global, opts runtimeOptions) (ai.Runtime, string, error) {
	httpTimeout := 60 * time.Second
	retryMax := 3
	baseDelay := 500 * time.Millisecond
	maxDelay := 4 * time.Second
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			httpTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.RetryMaxAttempts > 0 {
			retryMax = cfg.RetryMaxAttempts
		}
		if cfg.RetryBaseDelayMs > 0 {
			baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		}
		if cfg.RetryMaxDelayMs > 0 {
			maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
		}
	}

	providerName := strings.TrimSpace(opts.ProviderFlag)
	if providerName == "" && cfg != nil {
		providerName = cfg.DefaultProvider
	}
	providerName = ai.NormalizeProvider(providerName)

	rc := ai.RuntimeConfig{
		HTTPTimeout: httpTimeout,
		RetryMax:    retryMax,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
	}
	if cfg != nil {
		rc.APIKey = cfg.APIKey
	}
	if rc.APIKey == "" {
		rc.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	if providerName == ai.ProviderOllama {
		host := strings.TrimSpace(opts.OllamaHost)
		if host == "" && cfg != nil {
			host = cfg.OllamaHost
		}
		if host == "" {
			host = ai.DefaultOllamaHost
		}
		rc.Host = host
		if cfg != nil && cfg.OllamaTimeoutSec > 0 {
			rc.HTTPTimeout = time.Duration(cfg.OllamaTimeoutSec) * time.Second
		}
	}

	client, ok := ai.GetRuntime(providerName, rc)
	if !ok {
		return nil, providerName, fmt.Errorf("provider not supported: %s (use %s)", providerName, strings.Join(ai.Providers(), "|"))
	}
	return client, providerName, nil
}
