package ai

import "context"

// Generator is the text-in/text-out contract of a remote language model.
// Errors carry enough text for callers to classify quota and timeout failures.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// GenerationConfig values are passed through to the provider unchecked.
// Temperature and TopP are expected in [0, 1].
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 8192,
	}
}
