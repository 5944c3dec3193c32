package llm_test

import (
	"strings"
	"testing"

	"github.com/mgrain/sopchat/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithConfig(t *testing.T) {
	engine, err := llm.NewWithConfig(llm.ChatConfig{
		APIKey:      "test-key",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.1,
		MaxTokens:   512,
	})
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewWithConfig_RequiresAPIKey(t *testing.T) {
	_, err := llm.NewWithConfig(llm.ChatConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewWithConfig_RejectsBadTemperature(t *testing.T) {
	_, err := llm.NewWithConfig(llm.ChatConfig{APIKey: "k", Temperature: 3.0})
	assert.Error(t, err)

	_, err = llm.NewWithConfig(llm.ChatConfig{APIKey: "k", Temperature: -0.5})
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	prompt := llm.Prompt("Sev1 requires a 15 minute response.", "What is the Sev1 response time?")

	// The grounding instructions are load-bearing for hallucination
	// control; make sure they survive refactors.
	assert.Contains(t, prompt, "Use ONLY the SOP context")
	assert.Contains(t, prompt, "say you cannot find it in the SOP")
	assert.Contains(t, prompt, "Sev1 requires a 15 minute response.")
	assert.Contains(t, prompt, "Question: What is the Sev1 response time?")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Answer:"))
}

func TestPrompt_EmptyContext(t *testing.T) {
	prompt := llm.Prompt("", "Anything?")
	assert.Contains(t, prompt, "SOP context:\n\n")
	assert.Contains(t, prompt, "Question: Anything?")
}
