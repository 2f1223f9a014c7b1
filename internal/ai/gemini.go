package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel    = "gemini-2.0-flash-exp"
	DefaultFallbackModel  = "gemini-pro"
	statusResourceExhaust = "RESOURCE_EXHAUSTED"
	statusDeadline        = "DEADLINE_EXCEEDED"
)

type GeminiConfig struct {
	APIKey        string
	Model         string
	FallbackModel string
	Generation    GenerationConfig
}

// GeminiClient talks to the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiClient resolves the model once: when the preferred model cannot be
// loaded it switches to the fallback and returns a non-empty warning.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, string, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, "", ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create genai client failed: %w", err)
	}

	model, warning := selectModel(ctx, cfg.Model, cfg.FallbackModel, func(ctx context.Context, name string) error {
		_, err := client.Models.Get(ctx, name, nil)
		return err
	})

	return &GeminiClient{
		client: client,
		model:  model,
		config: buildGenerateConfig(cfg.Generation),
	}, warning, nil
}

func (c *GeminiClient) ModelName() string {
	return c.model
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		return "", describeGeminiError(err)
	}
	return resp.Text(), nil
}

func buildGenerateConfig(g GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.Temperature),
		TopP:            genai.Ptr(g.TopP),
		TopK:            genai.Ptr(float32(g.TopK)),
		MaxOutputTokens: int32(g.MaxOutputTokens),
	}
}

// selectModel probes the preferred model and falls back once.
func selectModel(ctx context.Context, preferred, fallback string, probe func(context.Context, string) error) (string, string) {
	if preferred == "" {
		preferred = DefaultGeminiModel
	}
	if fallback == "" {
		fallback = DefaultFallbackModel
	}
	if preferred == fallback {
		return preferred, ""
	}
	err := probe(ctx, preferred)
	if err == nil {
		return preferred, ""
	}
	return fallback, fmt.Sprintf("%s not available, using %s instead. Error: %v", preferred, fallback, err)
}

// describeGeminiError folds the structured API status into the error text so a
// substring classifier sees quota and timeout failures.
func describeGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == statusResourceExhaust:
			return fmt.Errorf("gemini quota limit exceeded: %w", err)
		case apiErr.Code == http.StatusGatewayTimeout || apiErr.Status == statusDeadline:
			return fmt.Errorf("gemini request timeout: %w", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini request timeout: %w", err)
	}
	return fmt.Errorf("gemini generate failed: %w", err)
}
