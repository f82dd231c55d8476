// Package config loads the server configuration from config/planner.yaml,
// with .env and environment variables on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"business_planner/pkg/core/agent"
)

// DefaultPath is where Load looks for the yaml file.
var DefaultPath = filepath.Join("config", "planner.yaml")

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Planner PlannerConfig `yaml:"planner"`
	Prompts PromptsConfig `yaml:"prompts"`
	Agents  agent.Config  `yaml:"llm"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig selects the plan store: Postgres when DatabaseURL is set,
// JSON files under FileDir otherwise.
type StorageConfig struct {
	DatabaseURL string `yaml:"database_url"`
	FileDir     string `yaml:"file_dir"`
}

type PlannerConfig struct {
	AutoSaveDelay time.Duration `yaml:"autosave_delay"`
	CacheSize     int           `yaml:"cache_size"`
}

// PromptsConfig points at an optional directory overriding the embedded prompts.
type PromptsConfig struct {
	Dir string `yaml:"dir"`
}

// Default is the configuration used when no file exists.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{FileDir: filepath.Join(".cache", "plans")},
		Planner: PlannerConfig{AutoSaveDelay: 3 * time.Second, CacheSize: 32},
		Prompts: PromptsConfig{Dir: filepath.Join("resources", "prompts")},
		Agents:  agent.Config{ActiveProvider: agent.DefaultProvider},
	}
}

// Load reads .env (if present) and the yaml file at path, then applies
// environment overrides. A missing yaml file yields the defaults.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Server.Addr = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Agents.ActiveProvider = v
	}
}

// fillDefaults restores zero values a partial file left behind.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Storage.FileDir == "" {
		c.Storage.FileDir = d.Storage.FileDir
	}
	if c.Planner.AutoSaveDelay <= 0 {
		c.Planner.AutoSaveDelay = d.Planner.AutoSaveDelay
	}
	if c.Planner.CacheSize <= 0 {
		c.Planner.CacheSize = d.Planner.CacheSize
	}
	if c.Agents.ActiveProvider == "" {
		c.Agents.ActiveProvider = d.Agents.ActiveProvider
	}
}

// HasGeminiKey reports whether the Gemini providers can authenticate.
func HasGeminiKey() bool {
	return os.Getenv("GEMINI_API_KEY") != ""
}
