package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func enabledConfig(baseURL string) Config {
	return Config{
		Enabled: true,
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	}
}

func TestClient_Complete_NotConfigured(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "Disabled",
			config: Config{Enabled: false, APIKey: "k", Model: "m"},
		},
		{
			name:   "Missing API key",
			config: Config{Enabled: true, Model: "m"},
		},
		{
			name:   "Missing model",
			config: Config{Enabled: true, APIKey: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.config, zap.NewNop())
			_, err := c.Complete(context.Background(), "system", "user")
			require.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestClient_Complete_EmptyPrompt(t *testing.T) {
	c := NewClient(enabledConfig("http://localhost"), zap.NewNop())

	_, err := c.Complete(context.Background(), "system", "   ")
	require.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestClient_Complete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Revenue is trending up 12% month on month."}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(enabledConfig(server.URL), zap.NewNop())

	answer, err := c.Complete(context.Background(), "You are a property analyst.", "How is revenue doing?")
	require.NoError(t, err)

	assert.Equal(t, "Revenue is trending up 12% month on month.", answer)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "user", gotBody.Messages[1].Role)
}

func TestClient_Complete_NoSystemPrompt(t *testing.T) {
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(enabledConfig(server.URL), zap.NewNop())

	_, err := c.Complete(context.Background(), "", "question")
	require.NoError(t, err)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
}

func TestClient_Complete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	c := NewClient(enabledConfig(server.URL), zap.NewNop())

	_, err := c.Complete(context.Background(), "", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	c := NewClient(enabledConfig(server.URL), zap.NewNop())

	_, err := c.Complete(context.Background(), "", "question")
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestClient_Complete_Unreachable(t *testing.T) {
	c := NewClient(enabledConfig("http://127.0.0.1:1"), zap.NewNop())

	_, err := c.Complete(context.Background(), "", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion request failed")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{}, nil)

	assert.Equal(t, "https://api.openai.com/v1", c.config.BaseURL)
	assert.NotNil(t, c.config.HTTPClient)
}
