package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type ProviderConfig struct {
	Provider      string
	BaseURL       string
	APIKey        string
	Model         string
	FallbackModel string
	Generation    GenerationConfig
	Timeout       time.Duration
}

// New builds the configured Generator. The returned warning is non-empty when
// the preferred model was replaced by the fallback.
func New(ctx context.Context, cfg ProviderConfig) (Generator, string, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, "", ErrMissingAPIKey
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:        cfg.APIKey,
			Model:         cfg.Model,
			FallbackModel: cfg.FallbackModel,
			Generation:    cfg.Generation,
		})
	case ProviderOpenAI:
		if cfg.BaseURL == "" || cfg.Model == "" {
			return nil, "", fmt.Errorf("%w: openai provider needs base_url and model", ErrProviderConfig)
		}
		return NewOpenAICompatibleClient(ChatConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		}, cfg.Generation, cfg.Timeout), "", nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
