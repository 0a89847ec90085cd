package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sushilduseja/divine-vision/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ProviderOption configures optional generator behavior.
type ProviderOption func(*Generator)

// WithResponseCache attaches a cache consulted before calling the model.
// Cache keys combine the system prompt and the user prompt.
func WithResponseCache(cache *ai.ResponseCache) ProviderOption {
	return func(g *Generator) {
		g.cache = cache
	}
}

// WithRateLimiter attaches a limiter checked before calling the model.
// Cache hits do not consume the budget.
func WithRateLimiter(limiter *ai.RateLimiter) ProviderOption {
	return func(g *Generator) {
		g.limiter = limiter
	}
}

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client  *openai.LLM
	cache   *ai.ResponseCache
	limiter *ai.RateLimiter
	logger  *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config, opts ...ProviderOption) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config, opts ...ProviderOption) (ai.Generator, error) {
	return newGenerator(config, opts...)
}

// GenerateText sends the prompt to the model and returns its text response.
// A configured cache short-circuits the call; a configured rate limiter
// may reject it with ai.ErrRateLimited.
func (g *Generator) GenerateText(ctx context.Context, prompt, systemPrompt string, opts ...ai.GenerateOption) (string, error) {
	options := ai.ApplyGenerateOptions(opts)

	cacheKey := systemPrompt + "\x00" + prompt
	if g.cache != nil {
		if cached, ok := g.cache.Get(cacheKey); ok {
			g.logger.Debug("cache hit", "prompt_length", len(prompt))
			return cached, nil
		}
	}

	if g.limiter != nil && !g.limiter.Allow() {
		g.logger.Warn("generation request rejected by rate limiter")
		return "", ai.ErrRateLimited
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := g.client.GenerateContent(ctx, messages,
		llms.WithTemperature(options.Temperature),
		llms.WithMaxTokens(options.MaxOutputTokens),
	)
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", fmt.Errorf("generate text: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", ai.ErrEmptyResponse
	}

	if g.cache != nil {
		g.cache.Put(cacheKey, text)
	}
	return text, nil
}
