package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"claudia/internal/config"
)

const anthropicVersion = "2023-06-01"

// ErrNoResponse is the single failure surfaced to users. The underlying
// cause is logged.
var ErrNoResponse = errors.New("failed to get response from Claude")

// MissingKeyWarning is emitted once when no credential is configured
const MissingKeyWarning = "Claude API key not found. Set api_key in claudia.toml or CLAUDIA_API_KEY."

type Client struct {
	config     config.LLMConfig
	httpClient *http.Client
	logger     *slog.Logger
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Anthropic API structures
type AnthropicRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system"`
	MaxTokens int       `json:"max_tokens"`
}

type AnthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	StopReason string `json:"stop_reason"`
}

// Warner receives non-fatal notices raised while building the client
type Warner interface {
	Warn(msg string)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient reads the credential once. A missing key is reported through
// warner but does not prevent construction; calls then fail at the API.
func NewClient(cfg config.LLMConfig, warner Warner, opts ...Option) *Client {
	c := &Client{
		config:     cfg,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.APIKey == "" && warner != nil {
		warner.Warn(MissingKeyWarning)
	}

	return c
}

func (c *Client) HasAPIKey() bool {
	return c.config.APIKey != ""
}

func (c *Client) Model() string {
	return c.config.Model
}

// Complete sends one user message with systemMessage as background and
// returns the text of the first content segment. Every failure, including
// an unexpected response shape, is reported as ErrNoResponse. No retries.
func (c *Client) Complete(ctx context.Context, userPrompt, systemMessage string) (string, error) {
	start := time.Now()

	text, resp, err := c.queryAnthropic(ctx, userPrompt, systemMessage)
	if err != nil {
		c.logger.ErrorContext(ctx, "error calling Claude API",
			"model", c.config.Model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return "", ErrNoResponse
	}

	c.logger.DebugContext(ctx, "completion finished",
		"model", c.config.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	return text, nil
}

func (c *Client) queryAnthropic(ctx context.Context, userPrompt, systemMessage string) (string, *AnthropicResponse, error) {
	reqBody := AnthropicRequest{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "user", Content: userPrompt},
		},
		System:    systemMessage,
		MaxTokens: c.config.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("Anthropic API error %d: %s", resp.StatusCode, string(body))
	}

	var response AnthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", nil, fmt.Errorf("empty response from Anthropic API")
	}

	return response.Content[0].Text, &response, nil
}
