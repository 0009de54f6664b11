// Package config loads runtime configuration from the environment, with
// an optional YAML file overlay for values operators want checked into a
// deploy repo rather than exported as env vars.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable the model/search/storage adapters and the
// orchestrator need at construction time.
type Config struct {
	SaptivaAPIKey         string
	SaptivaBaseURL        string
	SaptivaConnectTimeout time.Duration
	SaptivaReadTimeout    time.Duration

	TavilyAPIKey string

	VectorBackend string
	WeaviateHost  string

	MongoDBURL string

	ArtifactsDir string

	MaxIterations int
	MinScore      float64
	RunDeadline   time.Duration

	ListenAddr string

	Verbose bool
}

type fileOverlay struct {
	SaptivaAPIKey         string  `yaml:"saptivaApiKey"`
	SaptivaBaseURL        string  `yaml:"saptivaBaseUrl"`
	SaptivaConnectTimeout int     `yaml:"saptivaConnectTimeoutSeconds"`
	SaptivaReadTimeout    int     `yaml:"saptivaReadTimeoutSeconds"`
	TavilyAPIKey          string  `yaml:"tavilyApiKey"`
	VectorBackend         string  `yaml:"vectorBackend"`
	WeaviateHost          string  `yaml:"weaviateHost"`
	MongoDBURL            string  `yaml:"mongodbUrl"`
	ArtifactsDir          string  `yaml:"artifactsDir"`
	MaxIterations         int     `yaml:"maxIterations"`
	MinScore              float64 `yaml:"minScore"`
	RunDeadlineSeconds    int     `yaml:"runDeadlineSeconds"`
	ListenAddr            string  `yaml:"listenAddr"`
	Verbose               bool    `yaml:"verbose"`
}

// Load reads environment variables (after loading a .env file, if one is
// present), applies a YAML overlay named by RESEARCH_CONFIG_FILE if set,
// then fills in defaults for anything still unset. Env vars always win
// over the file overlay, which always wins over the built-in default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SaptivaBaseURL:        "https://api.saptiva.com/v1",
		SaptivaConnectTimeout: 15 * time.Second,
		SaptivaReadTimeout:    90 * time.Second,
		VectorBackend:         "none",
		MaxIterations:         3,
		MinScore:              0.75,
		RunDeadline:           10 * time.Minute,
		ListenAddr:            ":8080",
	}

	if path := os.Getenv("RESEARCH_CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}

	if overlay.SaptivaAPIKey != "" {
		cfg.SaptivaAPIKey = overlay.SaptivaAPIKey
	}
	if overlay.SaptivaBaseURL != "" {
		cfg.SaptivaBaseURL = overlay.SaptivaBaseURL
	}
	if overlay.SaptivaConnectTimeout > 0 {
		cfg.SaptivaConnectTimeout = time.Duration(overlay.SaptivaConnectTimeout) * time.Second
	}
	if overlay.SaptivaReadTimeout > 0 {
		cfg.SaptivaReadTimeout = time.Duration(overlay.SaptivaReadTimeout) * time.Second
	}
	if overlay.TavilyAPIKey != "" {
		cfg.TavilyAPIKey = overlay.TavilyAPIKey
	}
	if overlay.VectorBackend != "" {
		cfg.VectorBackend = overlay.VectorBackend
	}
	if overlay.WeaviateHost != "" {
		cfg.WeaviateHost = overlay.WeaviateHost
	}
	if overlay.MongoDBURL != "" {
		cfg.MongoDBURL = overlay.MongoDBURL
	}
	if overlay.ArtifactsDir != "" {
		cfg.ArtifactsDir = overlay.ArtifactsDir
	}
	if overlay.MaxIterations > 0 {
		cfg.MaxIterations = overlay.MaxIterations
	}
	if overlay.MinScore > 0 {
		cfg.MinScore = overlay.MinScore
	}
	if overlay.RunDeadlineSeconds > 0 {
		cfg.RunDeadline = time.Duration(overlay.RunDeadlineSeconds) * time.Second
	}
	if overlay.ListenAddr != "" {
		cfg.ListenAddr = overlay.ListenAddr
	}
	if overlay.Verbose {
		cfg.Verbose = true
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SAPTIVA_API_KEY"); v != "" {
		cfg.SaptivaAPIKey = v
	}
	if v := os.Getenv("SAPTIVA_BASE_URL"); v != "" {
		cfg.SaptivaBaseURL = v
	}
	if v := envSeconds("SAPTIVA_CONNECT_TIMEOUT"); v > 0 {
		cfg.SaptivaConnectTimeout = v
	}
	if v := envSeconds("SAPTIVA_READ_TIMEOUT"); v > 0 {
		cfg.SaptivaReadTimeout = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.TavilyAPIKey = v
	}
	if v := os.Getenv("VECTOR_BACKEND"); v != "" {
		cfg.VectorBackend = v
	}
	if v := os.Getenv("WEAVIATE_HOST"); v != "" {
		cfg.WeaviateHost = v
	}
	if v := os.Getenv("MONGODB_URL"); v != "" {
		cfg.MongoDBURL = v
	}
	if v := os.Getenv("ARTIFACTS_DIR"); v != "" {
		cfg.ArtifactsDir = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("RESEARCH_VERBOSE"); v != "" {
		cfg.Verbose = v == "true"
	}
}

func envSeconds(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
