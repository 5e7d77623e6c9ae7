package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"claudia/internal/config"
	"claudia/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWarner struct {
	warnings []string
}

func (w *recordingWarner) Warn(msg string) {
	w.warnings = append(w.warnings, msg)
}

func testConfig(endpoint string) config.LLMConfig {
	cfg := config.DefaultConfig().LLM
	cfg.APIKey = "sk-test"
	cfg.Endpoint = endpoint
	return cfg
}

func TestComplete_SendsRequestAndReturnsFirstSegment(t *testing.T) {
	var got AnthropicRequest
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"first"},{"type":"text","text":"second"}],"usage":{"input_tokens":10,"output_tokens":2}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, WithLogger(logging.Discard()))

	text, err := client.Complete(context.Background(), "what does this do?", "system text")

	require.NoError(t, err)
	assert.Equal(t, "first", text)

	assert.Equal(t, "claude-3-7-sonnet-20250219", got.Model)
	assert.Equal(t, 4000, got.MaxTokens)
	assert.Equal(t, "system text", got.System)
	assert.Equal(t, []Message{{Role: "user", Content: "what does this do?"}}, got.Messages)

	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "sk-test", headers.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", headers.Get("anthropic-version"))
}

func TestComplete_NonSuccessStatus_ReturnsGenericError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"type":"overloaded_error"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, WithLogger(logging.Discard()))

	_, err := client.Complete(context.Background(), "q", "s")

	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Equal(t, "failed to get response from Claude", err.Error())
	assert.Equal(t, 1, calls, "no retry")
}

func TestComplete_TransportFailure_ReturnsGenericError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(testConfig(endpoint), nil, WithLogger(logging.Discard()))

	_, err := client.Complete(context.Background(), "q", "s")

	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestComplete_UnexpectedShape_ReturnsGenericError(t *testing.T) {
	for name, body := range map[string]string{
		"empty content": `{"content":[]}`,
		"not json":      `<html>oops</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL), nil, WithLogger(logging.Discard()))

			_, err := client.Complete(context.Background(), "q", "s")

			assert.ErrorIs(t, err, ErrNoResponse)
		})
	}
}

func TestNewClient_MissingKey_WarnsOnceAndStillCalls(t *testing.T) {
	var sentKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sentKey = r.Header.Get("x-api-key")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.APIKey = ""
	warner := &recordingWarner{}

	client := NewClient(cfg, warner, WithLogger(logging.Discard()))
	_, err := client.Complete(context.Background(), "q", "s")
	_, _ = client.Complete(context.Background(), "q", "s")

	assert.Equal(t, []string{MissingKeyWarning}, warner.warnings)
	assert.False(t, client.HasAPIKey())
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Empty(t, sentKey)
}

func TestNewClient_WithKey_DoesNotWarn(t *testing.T) {
	warner := &recordingWarner{}

	client := NewClient(testConfig("http://localhost"), warner)

	assert.Empty(t, warner.warnings)
	assert.True(t, client.HasAPIKey())
	assert.Equal(t, "claude-3-7-sonnet-20250219", client.Model())
}
