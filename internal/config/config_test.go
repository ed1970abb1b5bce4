package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "extractive", cfg.Generator.Type)
	assert.Equal(t, "flat", cfg.VectorStore.Type)
	assert.Equal(t, "data/kb", cfg.KnowledgeBase.Dir)
	assert.Equal(t, 5, cfg.Generator.MaxFacts)
}

func TestLoadAppliesQdrantDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
vector_store:
  type: qdrant
  qdrant:
    api_key: secret
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "qdrant", cfg.VectorStore.Type)
	require.NotNil(t, cfg.VectorStore.Qdrant)
	assert.Equal(t, "http://localhost:6333", cfg.VectorStore.Qdrant.URL)
	assert.Equal(t, "menurag", cfg.VectorStore.Qdrant.Collection)
	assert.Equal(t, "secret", cfg.VectorStore.Qdrant.APIKey)
}

func TestLoadAppliesOpenAIDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
env: prod
embedder:
  type: openai
  openai:
    model: text-embedding-3-large
generator:
  type: openai
  openai: {}
knowledge_base:
  dir: /var/lib/menurag/kb
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Generator.OpenAI.Model)
	assert.Equal(t, "/var/lib/menurag/kb", cfg.KnowledgeBase.Dir)
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Env = "prod"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
