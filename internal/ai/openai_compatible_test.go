package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompatibleGenerate(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  the answer  "}},
			},
		})
	}))
	defer server.Close()

	c := NewOpenAICompatibleClient(ChatConfig{BaseURL: server.URL + "/v1/", APIKey: "sk-test", Model: "qwen"}, DefaultGenerationConfig(), time.Second)
	out, err := c.Generate(context.Background(), "full prompt")
	require.NoError(t, err)

	// Returned verbatim, no trimming.
	assert.Equal(t, "  the answer  ", out)
	assert.Equal(t, "qwen", got["model"])
	assert.Equal(t, false, got["stream"])
	assert.Equal(t, float64(8192), got["max_tokens"])
	msgs := got["messages"].([]interface{})
	require.Len(t, msgs, 1)
	assert.Equal(t, "full prompt", msgs[0].(map[string]interface{})["content"])
	assert.Equal(t, "qwen", c.ModelName())
}

func TestOpenAICompatibleStatusErrors(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusTooManyRequests, "rate limit"},
		{http.StatusGatewayTimeout, "timeout"},
		{http.StatusInternalServerError, "status 500"},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		}))
		c := NewOpenAICompatibleClient(ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, GenerationConfig{}, time.Second)
		_, err := c.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.want)
		server.Close()
	}
}

func TestOpenAICompatibleEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := NewOpenAICompatibleClient(ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, GenerationConfig{}, time.Second)
	_, err := c.Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrEmptyChoices)
}

func TestOpenAICompatibleStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n"))
		_, _ = w.Write([]byte(": keep-alive\n\n"))
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	c := NewOpenAICompatibleClient(ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, GenerationConfig{}, time.Second)
	var chunks []string
	full, err := c.StreamComplete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, func(s string) error {
		chunks = append(chunks, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", full)
	assert.Equal(t, []string{"Hel", "lo"}, chunks)
}

func slowServer(delay time.Duration) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(delay):
		}
	}))
}

func TestOpenAICompatibleContextDeadlineIsTimeout(t *testing.T) {
	server := slowServer(300 * time.Millisecond)
	defer server.Close()

	c := NewOpenAICompatibleClient(ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, GenerationConfig{}, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "llm request timeout")
}

func TestOpenAICompatibleClientTimeoutIsTimeout(t *testing.T) {
	server := slowServer(300 * time.Millisecond)
	defer server.Close()

	c := NewOpenAICompatibleClient(ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, GenerationConfig{}, 50*time.Millisecond)
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm request timeout")
}
