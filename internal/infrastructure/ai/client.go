// Package ai provides an HTTP client for OpenAI-compatible
// chat-completions endpoints, used by the insights assistant.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotConfigured is returned when the provider is disabled or missing settings
	ErrNotConfigured = errors.New("ai provider is not configured")
	// ErrEmptyPrompt is returned when no prompt was supplied
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrEmptyCompletion is returned when the provider returns no usable text
	ErrEmptyCompletion = errors.New("completion response missing output text")
)

// ChatClient produces a completion for a system/user prompt pair
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config configures the chat completions client.
// Any OpenAI-compatible endpoint works.
type Config struct {
	Enabled    bool
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls a chat-completions endpoint over HTTP
type Client struct {
	config Config
	logger *zap.Logger
}

// NewClient builds a chat completions client
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.HTTPClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		config.HTTPClient = &http.Client{Timeout: timeout}
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{config: config, logger: logger}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompts to the provider and returns the answer text
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.config.Enabled || strings.TrimSpace(c.config.APIKey) == "" || strings.TrimSpace(c.config.Model) == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(userPrompt) == "" {
		return "", ErrEmptyPrompt
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	requestBody, err := json.Marshal(chatRequest{
		Model:    c.config.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key is sent only as an Authorization header and never logged
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	res, err := c.config.HTTPClient.Do(req)
	if err != nil {
		c.logger.Warn("Completion request failed", zap.Error(err))
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(res.Body, 4096))
		if readErr != nil {
			return "", fmt.Errorf("read completion error body: %w", readErr)
		}
		return "", fmt.Errorf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload chatResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	for _, choice := range payload.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyCompletion
}

var _ ChatClient = (*Client)(nil)
