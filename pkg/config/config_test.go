package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  api_key: "file-key"
  model: "llama-3.1-8b-instant"
  max_tokens: 512
  temperature: 0.2

embedder:
  base_url: "http://localhost:11434"
  model: "nomic-embed-text:latest"

database:
  url: "postgres://localhost:5432/sopchat"
  table_name: "test_chunks"
  vector_dim: 768

chunker:
  size: 500
  overlap: 100

retrieval:
  top_k: 3
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "llama-3.1-8b-instant", config.LLM.Model)
	assert.Equal(t, 512, config.LLM.MaxTokens)
	assert.Equal(t, 0.2, config.LLM.Temperature)
	assert.Equal(t, "postgres://localhost:5432/sopchat", config.Database.URL)
	assert.Equal(t, "test_chunks", config.Database.TableName)
	assert.Equal(t, 500, config.Chunker.Size)
	assert.Equal(t, 100, config.Chunker.Overlap)
	assert.Equal(t, 3, config.Retrieval.TopK)

	// Unset values fall back to defaults.
	assert.Equal(t, 2.0, config.LLM.RateLimit)
	assert.Equal(t, 64, config.Retrieval.BatchSize)
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.groq.com/openai/v1", config.LLM.BaseURL)
	assert.Equal(t, "llama-3.3-70b-versatile", config.LLM.Model)
	assert.Equal(t, 0.1, config.LLM.Temperature)
	assert.Equal(t, "sop_chunks", config.Database.TableName)
	assert.Equal(t, 1000, config.Chunker.Size)
	assert.Equal(t, 200, config.Chunker.Overlap)
	assert.Equal(t, 5, config.Retrieval.TopK)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env-db:5432/sopchat")
	t.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "env-key", config.LLM.APIKey)
	assert.Equal(t, "postgres://env-db:5432/sopchat", config.Database.URL)
	assert.Equal(t, "http://env-ollama:11434", config.Embedder.BaseURL)
}

func TestConfigValidation(t *testing.T) {
	valid := &Config{}
	applyDefaults(valid)
	valid.LLM.APIKey = "key"
	valid.Database.URL = "postgres://localhost:5432/sopchat"
	assert.Empty(t, valid.Validate())

	invalid := &Config{}
	applyDefaults(invalid)
	invalid.Database.URL = "not-a-url"
	invalid.Chunker.Overlap = invalid.Chunker.Size // would never terminate

	errs := invalid.Validate()
	require.NotEmpty(t, errs)

	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "llm.api_key")
	assert.Contains(t, fields, "database.url")
	assert.Contains(t, fields, "chunker.overlap")
}
