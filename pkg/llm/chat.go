package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// groundingPrompt keeps the model inside the supplied runbook context. The
// "ONLY" instruction and the explicit cannot-find fallback are what keep
// hallucinations out of operational answers; do not soften them.
const groundingPrompt = `You are an SOP assistant. Use ONLY the SOP context below to answer the question.
If the answer is not in the SOP, say you cannot find it in the SOP.

SOP context:
%s

Question: %s

Answer:`

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	RateLimit   float64 // completions per second
}

// ChatEngine invokes a hosted OpenAI-compatible chat completion endpoint.
type ChatEngine struct {
	config  ChatConfig
	llm     llms.Model
	limiter *rate.Limiter
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("chat API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.groq.com/openai/v1"
	}
	if config.Model == "" {
		config.Model = "llama-3.3-70b-versatile"
	}
	if config.Temperature == 0 {
		// Deterministic-leaning sampling favors literal answers over
		// creative ones.
		config.Temperature = 0.1
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}

	model, err := openai.New(
		openai.WithToken(config.APIKey),
		openai.WithBaseURL(config.BaseURL),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config:  config,
		llm:     model,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// Prompt assembles the grounding prompt from retrieved context and the
// user's question.
func Prompt(contextText, question string) string {
	return fmt.Sprintf(groundingPrompt, contextText, question)
}

// Complete sends one prompt and returns the model's text.
func (ce *ChatEngine) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ce.limiter.Wait(ctx); err != nil {
		return "", err
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	response, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(ce.config.Temperature),
		llms.WithMaxTokens(ce.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return response.Choices[0].Content, nil
}
