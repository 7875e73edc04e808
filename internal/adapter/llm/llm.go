// Package llm provides text completion and embeddings using langchaingo.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/heartmarshall/flipflop-backend/internal/config"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// Supported backends.
const (
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Completer wraps a langchaingo chat model.
type Completer struct {
	model       llms.Model
	modelName   string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	log         *slog.Logger
}

// NewCompleter creates a completion model based on configuration.
func NewCompleter(cfg config.LLMConfig, logger *slog.Logger) (*Completer, error) {
	var (
		model llms.Model
		err   error
	)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err = ollama.New(opts...)
	case ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		model, err = anthropic.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s model: %w", cfg.Provider, err)
	}

	return newCompleter(model, cfg, logger), nil
}

func newCompleter(model llms.Model, cfg config.LLMConfig, logger *slog.Logger) *Completer {
	return &Completer{
		model:       model,
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		log:         logger.With("adapter", "llm"),
	}
}

// Complete sends a system and a user message and returns the first choice.
// Failures wrap domain.ErrLLM.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		c.log.WarnContext(ctx, "completion failed",
			slog.String("model", c.modelName),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: %v", domain.ErrLLM, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices", domain.ErrLLM)
	}

	c.log.DebugContext(ctx, "completion done",
		slog.String("model", c.modelName),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// Model returns the completion model name.
func (c *Completer) Model() string { return c.modelName }

// Embedder wraps langchaingo embeddings.
type Embedder struct {
	model     embeddings.Embedder
	modelName string
	timeout   time.Duration
	log       *slog.Logger
}

// NewEmbedder creates an embedder based on configuration. Anthropic has no
// embedding endpoint, so only openai and ollama are accepted.
func NewEmbedder(cfg config.LLMConfig, logger *slog.Logger) (*Embedder, error) {
	apiKey := cfg.EmbeddingAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}

	var client embeddings.EmbedderClient
	switch strings.ToLower(cfg.EmbeddingProvider) {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(apiKey), openai.WithEmbeddingModel(cfg.EmbeddingModel)}
		if cfg.BaseURL != "" && strings.EqualFold(cfg.Provider, ProviderOpenAI) {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		client = llm
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.EmbeddingModel)}
		if cfg.BaseURL != "" && strings.EqualFold(cfg.Provider, ProviderOllama) {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		client = llm
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}

	model, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return newEmbedder(model, cfg, logger), nil
}

func newEmbedder(model embeddings.Embedder, cfg config.LLMConfig, logger *slog.Logger) *Embedder {
	return &Embedder{
		model:     model,
		modelName: cfg.EmbeddingModel,
		timeout:   cfg.Timeout,
		log:       logger.With("adapter", "embedder"),
	}
}

// Embed returns the embedding vector for text. Failures wrap domain.ErrEmbedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	vector, err := e.model.EmbedQuery(ctx, text)
	if err != nil {
		e.log.WarnContext(ctx, "embedding failed",
			slog.String("model", e.modelName),
			slog.Int("text_len", len(text)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty vector", domain.ErrEmbedding)
	}
	return vector, nil
}

// Model returns the embedding model name.
func (e *Embedder) Model() string { return e.modelName }
