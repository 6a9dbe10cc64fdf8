package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "go-ecoscan/internal/errors"
	"go-ecoscan/internal/logger"
)

// ChatClient calls an OpenAI-compatible chat completions endpoint (Groq).
type ChatClient struct {
	apiKey    string
	apiURL    string
	model     string
	maxTokens int
	client    *http.Client
}

// ChatOptions configures the chat client; values come from the container, not
// the environment.
type ChatOptions struct {
	APIKey    string
	APIURL    string
	Model     string
	MaxTokens int
	// Timeout bounds a single provider call; zero falls back to 60s.
	Timeout time.Duration
}

// NewChatClient creates a text extractor backed by a remote chat model.
func NewChatClient(opts ChatOptions) *ChatClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChatClient{
		apiKey:    opts.APIKey,
		apiURL:    opts.APIURL,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// Extract performs one completion call and returns the raw message content.
// Failures are not retried here; a single failed call surfaces to the caller.
func (c *ChatClient) Extract(ctx context.Context, input string, prompt Prompt) (string, error) {
	if c.apiKey == "" {
		return "", apperrors.NewConfigurationError("extraction provider API key is not configured", nil)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.UserContent(input)},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewInternalError("failed to build completion request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.NewNetworkError("extraction service unavailable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewNetworkError("failed to read extraction response", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithField("status", resp.StatusCode).Error("Extraction provider returned an error")
		return "", apperrors.NewNetworkError(
			fmt.Sprintf("extraction service returned status %d", resp.StatusCode), nil)
	}

	var result struct {
		Choices []struct {
			Message *struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", apperrors.NewProcessingError("malformed extraction response", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message == nil {
		return "", apperrors.NewProcessingError("extraction response missing message envelope", nil)
	}

	return result.Choices[0].Message.Content, nil
}
