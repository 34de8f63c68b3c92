package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values come from defaults, an
// optional YAML file, then environment variables, in increasing priority.
type Config struct {
	// Server
	Port    string `yaml:"port"`
	AppName string `yaml:"app_name"`

	// Database (optional index store; empty disables it)
	DatabaseURL string `yaml:"database_url"`

	// Discovery
	GitHubToken string `yaml:"-"` // env only, never from file
	Query       string `yaml:"query"`
	MaxPages    int    `yaml:"max_pages"`
	RepoLimit   int    `yaml:"repo_limit"`

	// Mining
	DatasetDir     string `yaml:"dataset_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// Frontend (CORS origin for the dataset API)
	FrontendURL string `yaml:"frontend_url"`
}

// CommandTimeout returns the external command timeout as a duration.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration with sensible defaults, overlaid by the YAML file
// named in MINER_CONFIG (default "miner.yaml", optional), overlaid by
// environment variables.
func Load() *Config {
	cfg := &Config{
		Port:           "3001",
		AppName:        "Ruff Miner",
		Query:          "ruff language:Python",
		MaxPages:       5,
		RepoLimit:      10,
		DatasetDir:     "dataset",
		TimeoutSeconds: 60,
		FrontendURL:    "http://localhost:3000",
	}

	path := envOrDefault("MINER_CONFIG", "miner.yaml")
	loadFromFile(cfg, path)

	cfg.Port = envOrDefault("PORT", cfg.Port)
	cfg.AppName = envOrDefault("APP_NAME", cfg.AppName)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.Query = envOrDefault("MINER_QUERY", cfg.Query)
	cfg.MaxPages = envOrDefaultInt("MINER_MAX_PAGES", cfg.MaxPages)
	cfg.RepoLimit = envOrDefaultInt("MINER_REPO_LIMIT", cfg.RepoLimit)
	cfg.DatasetDir = envOrDefault("MINER_DATASET_DIR", cfg.DatasetDir)
	cfg.TimeoutSeconds = envOrDefaultInt("MINER_TIMEOUT_SECONDS", cfg.TimeoutSeconds)
	cfg.FrontendURL = envOrDefault("FRONTEND_URL", cfg.FrontendURL)

	return cfg
}

// loadFromFile overlays cfg with values from a YAML file. The file is
// optional; a missing file is not an error.
func loadFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = yaml.Unmarshal(data, cfg)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}
