package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection details for an OpenAI-compatible endpoint,
// shared by the embedder and generator clients.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// GeneratorConfig selects and configures the answer generator.
type GeneratorConfig struct {
	Type     string        `yaml:"type"`
	MaxFacts int           `yaml:"max_facts"`
	OpenAI   *OpenAIConfig `yaml:"openai,omitempty"`
}

// VectorStoreConfig selects and configures the vector index backend.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// KnowledgeBaseConfig locates the built index artifacts.
type KnowledgeBaseConfig struct {
	Dir string `yaml:"dir"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Env           string              `yaml:"env"`
	LogLevel      string              `yaml:"log_level"`
	Embedder      EmbedderConfig      `yaml:"embedder"`
	Generator     GeneratorConfig     `yaml:"generator"`
	VectorStore   VectorStoreConfig   `yaml:"vector_store"`
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/menurag/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "menurag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Env:           "dev",
		Embedder:      EmbedderConfig{Type: "tfidf"},
		Generator:     GeneratorConfig{Type: "extractive", MaxFacts: 5},
		VectorStore:   VectorStoreConfig{Type: "flat"},
		KnowledgeBase: KnowledgeBaseConfig{Dir: "data/kb"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.KnowledgeBase.Dir == "" {
		cfg.KnowledgeBase.Dir = "data/kb"
	}
	if cfg.Generator.MaxFacts == 0 {
		cfg.Generator.MaxFacts = 5
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "flat"
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "menurag"
		}
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
	}
	if cfg.Generator.Type == "openai" && cfg.Generator.OpenAI != nil {
		applyOpenAIDefaults(cfg.Generator.OpenAI, "gpt-4o-mini")
	}
}

func applyOpenAIDefaults(cfg *OpenAIConfig, model string) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = model
	}
}
