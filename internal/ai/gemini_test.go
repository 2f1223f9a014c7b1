package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestSelectModelKeepsPreferred(t *testing.T) {
	var probed []string
	model, warning := selectModel(context.Background(), "gemini-2.0-flash-exp", "gemini-pro", func(_ context.Context, name string) error {
		probed = append(probed, name)
		return nil
	})
	assert.Equal(t, "gemini-2.0-flash-exp", model)
	assert.Empty(t, warning)
	assert.Equal(t, []string{"gemini-2.0-flash-exp"}, probed)
}

func TestSelectModelFallsBack(t *testing.T) {
	model, warning := selectModel(context.Background(), "", "", func(context.Context, string) error {
		return errors.New("model not found")
	})
	assert.Equal(t, DefaultFallbackModel, model)
	assert.Contains(t, warning, "gemini-2.0-flash-exp not available, using gemini-pro instead")
	assert.Contains(t, warning, "model not found")
}

func TestDescribeGeminiError(t *testing.T) {
	quota := describeGeminiError(genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "slow down"})
	assert.Contains(t, quota.Error(), "quota")

	timeout := describeGeminiError(fmt.Errorf("call: %w", context.DeadlineExceeded))
	assert.Contains(t, timeout.Error(), "timeout")
	require.ErrorIs(t, timeout, context.DeadlineExceeded)

	general := describeGeminiError(errors.New("invalid argument"))
	assert.Equal(t, "gemini generate failed: invalid argument", general.Error())
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, _, err := New(context.Background(), ProviderConfig{Provider: ProviderGemini})
	require.ErrorIs(t, err, ErrMissingAPIKey)

	_, _, err = New(context.Background(), ProviderConfig{Provider: "bard", APIKey: "k"})
	require.ErrorIs(t, err, ErrUnknownProvider)

	_, _, err = New(context.Background(), ProviderConfig{Provider: ProviderOpenAI, APIKey: "k"})
	require.ErrorIs(t, err, ErrProviderConfig)
}

func TestNewOpenAIProvider(t *testing.T) {
	g, warning, err := New(context.Background(), ProviderConfig{
		Provider: ProviderOpenAI,
		BaseURL:  "http://localhost:1",
		APIKey:   "k",
		Model:    "qwen3-max",
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, "qwen3-max", g.ModelName())
}
