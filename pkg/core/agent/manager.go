// Package agent routes each narrative report to the configured LLM provider.
package agent

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"

	"business_planner/pkg/core/llm"
)

// DefaultProvider is used when the configuration names none.
const DefaultProvider = "gemini"

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

// AgentConfig overrides the provider or model for one report.
type AgentConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	Description string `yaml:"description"`
}

// LoadConfig reads a yaml agent configuration. A missing file yields the
// default configuration.
func LoadConfig(path string) (Config, error) {
	cfg := Config{ActiveProvider: DefaultProvider}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read agent config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse agent config: %w", err)
	}
	if cfg.ActiveProvider == "" {
		cfg.ActiveProvider = DefaultProvider
	}
	return cfg, nil
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = DefaultProvider
	}
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":        &llm.GeminiProvider{},
			"gemini-legacy": &llm.GeminiLegacyProvider{},
			"deepseek":      llm.NewDeepSeekProvider(),
			"qwen":          llm.NewQwenProvider(),
		},
	}
}

// Register adds or replaces a provider.
func (m *Manager) Register(name string, p llm.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[name] = p
}

// GetProvider resolves the provider for a report: the report's override,
// then the active provider.
func (m *Manager) GetProvider(agentType string) (llm.Provider, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p, agentConfig.Provider
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p, m.config.ActiveProvider
	}
	return m.providers[DefaultProvider], DefaultProvider
}

// Route names the provider and model a report would run on right now. An
// empty model means the provider's default.
func (m *Manager) Route(agentType string) (provider, model string) {
	_, provider = m.GetProvider(agentType)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return provider, m.config.Agents[agentType].Model
}

// ExecutePrompt adapts the system prompt for the resolved provider and runs it.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider, name := m.GetProvider(agentType)
	if provider == nil {
		return "", fmt.Errorf("no provider for %s", agentType)
	}

	opts := make(map[string]interface{}, len(options)+1)
	for k, v := range options {
		opts[k] = v
	}
	m.mu.RLock()
	if cfg, ok := m.config.Agents[agentType]; ok && cfg.Model != "" {
		if _, set := opts["model"]; !set {
			opts["model"] = cfg.Model
		}
	}
	m.mu.RUnlock()

	fmt.Printf("[AGENT] %s -> %s\n", agentType, name)
	return provider.GenerateResponse(ctx, rawPrompt, provider.AdaptInstructions(rawSystemPrompt), opts)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("[AGENT] Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// Providers lists the registered provider names, sorted.
func (m *Manager) Providers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
