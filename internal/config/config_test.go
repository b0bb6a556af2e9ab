package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsFromExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("top_n: 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopN != 5 {
		t.Fatalf("top_n = %d, want 5", c.TopN)
	}
	if c.HeightBins != 20 {
		t.Fatalf("height_bins default = %d, want 20", c.HeightBins)
	}
	if c.Model != "deepseek-r1:1.5b" || c.DefaultProvider != "ollama" {
		t.Fatalf("unexpected runtime defaults: %q %q", c.Model, c.DefaultProvider)
	}
	if c.DataDir == "" {
		t.Fatalf("expected data_dir to be resolved")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("model: from-file\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MOVIECORPUS_MODEL", "from-env")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Model != "from-env" {
		t.Fatalf("model = %q, want env value", c.Model)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("default_provider: carrier-pigeon\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown provider")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.TopN = 42
	c.DataDir = filepath.Join(dir, "data")
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.TopN != 42 || again.DataDir != c.DataDir {
		t.Fatalf("round trip lost values: %+v", again)
	}
}
