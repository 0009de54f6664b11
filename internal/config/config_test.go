package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SAPTIVA_API_KEY", "SAPTIVA_BASE_URL", "SAPTIVA_CONNECT_TIMEOUT", "SAPTIVA_READ_TIMEOUT",
		"TAVILY_API_KEY", "VECTOR_BACKEND", "WEAVIATE_HOST", "MONGODB_URL", "ARTIFACTS_DIR",
		"LISTEN_ADDR", "RESEARCH_VERBOSE", "RESEARCH_CONFIG_FILE",
	}
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SaptivaBaseURL != "https://api.saptiva.com/v1" {
		t.Errorf("unexpected default base URL: %q", cfg.SaptivaBaseURL)
	}
	if cfg.VectorBackend != "none" {
		t.Errorf("unexpected default vector backend: %q", cfg.VectorBackend)
	}
	if cfg.MaxIterations != 3 {
		t.Errorf("unexpected default max iterations: %d", cfg.MaxIterations)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("unexpected default listen addr: %q", cfg.ListenAddr)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	_ = os.Setenv("SAPTIVA_API_KEY", "secret-key")
	_ = os.Setenv("VECTOR_BACKEND", "weaviate")
	_ = os.Setenv("LISTEN_ADDR", ":9999")
	_ = os.Setenv("RESEARCH_VERBOSE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SaptivaAPIKey != "secret-key" {
		t.Errorf("expected env API key to apply, got %q", cfg.SaptivaAPIKey)
	}
	if cfg.VectorBackend != "weaviate" {
		t.Errorf("expected env vector backend to apply, got %q", cfg.VectorBackend)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("expected env listen addr to apply, got %q", cfg.ListenAddr)
	}
	if !cfg.Verbose {
		t.Error("expected RESEARCH_VERBOSE=true to set Verbose")
	}
}

func TestLoadEnvTimeoutsInSeconds(t *testing.T) {
	clearEnv(t)
	_ = os.Setenv("SAPTIVA_CONNECT_TIMEOUT", "5")
	_ = os.Setenv("SAPTIVA_READ_TIMEOUT", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SaptivaConnectTimeout != 5*time.Second {
		t.Errorf("expected 5s connect timeout, got %v", cfg.SaptivaConnectTimeout)
	}
	if cfg.SaptivaReadTimeout != 30*time.Second {
		t.Errorf("expected 30s read timeout, got %v", cfg.SaptivaReadTimeout)
	}
}

func TestLoadFileOverlayAppliesBelowEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "saptivaBaseUrl: https://file.example.com/v1\nvectorBackend: weaviate\nmaxIterations: 7\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("unexpected error writing overlay: %v", err)
	}
	_ = os.Setenv("RESEARCH_CONFIG_FILE", path)
	_ = os.Setenv("VECTOR_BACKEND", "none") // env must win over the file's "weaviate"

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SaptivaBaseURL != "https://file.example.com/v1" {
		t.Errorf("expected file overlay base URL to apply, got %q", cfg.SaptivaBaseURL)
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("expected file overlay max iterations to apply, got %d", cfg.MaxIterations)
	}
	if cfg.VectorBackend != "none" {
		t.Errorf("expected env to win over file overlay, got %q", cfg.VectorBackend)
	}
}

func TestLoadMissingConfigFileReturnsError(t *testing.T) {
	clearEnv(t)
	_ = os.Setenv("RESEARCH_CONFIG_FILE", "/nonexistent/path/config.yaml")

	if _, err := Load(); err == nil {
		t.Error("expected an error when RESEARCH_CONFIG_FILE points to a missing file")
	}
}
