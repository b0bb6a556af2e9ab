package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KaramelBytes/moviecorpus-cli/internal/ai"
	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/moviecorpus-cli/internal/config"
)

func TestBuildRuntimeDefaults(t *testing.T) {
	cfg := &cfgpkg.Global{DefaultProvider: "local", OllamaHost: "http://example"}
	client, provider, err := buildRuntime(cfg, runtimeOptions{})
	if err != nil {
		t.Fatalf("buildRuntime error: %v", err)
	}
	if provider != ai.ProviderOllama {
		t.Fatalf("expected ollama provider, got %q", provider)
	}
	oc, ok := client.(*ai.OllamaClient)
	if !ok || oc.Host() != "http://example" {
		t.Fatalf("expected ollama client for configured host, got %#v", client)
	}
}

func TestBuildRuntimeFlagOverridesConfig(t *testing.T) {
	cfg := &cfgpkg.Global{DefaultProvider: "ollama", OllamaHost: "http://cfg"}
	client, _, err := buildRuntime(cfg, runtimeOptions{OllamaHost: "http://flag"})
	if err != nil {
		t.Fatal(err)
	}
	if got := client.(*ai.OllamaClient).Host(); got != "http://flag" {
		t.Fatalf("host = %q", got)
	}
	if _, provider, err := buildRuntime(cfg, runtimeOptions{ProviderFlag: "anthropic"}); err != nil || provider != ai.ProviderOpenRouter {
		t.Fatalf("provider alias not honored: %q, %v", provider, err)
	}
	if _, _, err := buildRuntime(cfg, runtimeOptions{ProviderFlag: "carrier-pigeon"}); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}

func TestBarScalesToPeak(t *testing.T) {
	if got := bar(10, 10, false); got != strings.Repeat("█", barWidth) {
		t.Fatalf("full bar = %q", got)
	}
	if got := bar(1, 1000, false); got != "█" {
		t.Fatalf("small counts should still show one cell, got %q", got)
	}
	if bar(0, 10, false) != "" || bar(5, 0, false) != "" {
		t.Fatalf("empty bar expected")
	}
}

func TestShouldColorizeBuffer(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatalf("buffers are never terminals")
	}
}

func TestRenderFormats(t *testing.T) {
	d := analysis.Distribution{
		Name:     "ages",
		Buckets:  []analysis.Bucket{{Key: 30, Label: "30", Count: 2}, {Key: 41, Label: "41", Count: 1}},
		Included: 3,
		Excluded: 1,
	}
	old := outputFormat
	defer func() { outputFormat = old }()

	for _, f := range []string{"table", "markdown", "json"} {
		outputFormat = f
		var buf bytes.Buffer
		if err := render(&buf, distributionView(&buf, "Ages", "Age", d)); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		out := buf.String()
		switch f {
		case "json":
			if !strings.Contains(out, `"included": 3`) {
				t.Fatalf("json output missing diagnostics:\n%s", out)
			}
		case "markdown":
			if !strings.Contains(out, "## Ages") || !strings.Contains(out, "> 3 rows included, 1 excluded") {
				t.Fatalf("markdown output:\n%s", out)
			}
		default:
			if !strings.Contains(out, "41") || !strings.Contains(out, "3 rows included, 1 excluded") {
				t.Fatalf("table output:\n%s", out)
			}
		}
	}
	if err := validateFormat("yaml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestMask(t *testing.T) {
	if mask("") != "" || mask("abc") != "******" || mask("sk-1234567890") != "sk-****890" {
		t.Fatalf("mask output unexpected")
	}
}
