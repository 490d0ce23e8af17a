// Package gigachat implements the GigaChat API client: the OAuth2
// client-credentials token exchange and the chat completion call.
package gigachat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"gigachat-bridge/internal/logpanel"
	"gigachat-bridge/internal/settings"
	"gigachat-bridge/pkg/models"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// promptPreviewChars limits how much of a prompt is echoed to the log panel.
	promptPreviewChars = 80

	// testConnectionPrompt is the fixed prompt used by TestConnection.
	testConnectionPrompt = "Ответь одним словом: работает ли соединение?"
	testTemperature      = 0.1
	testMaxTokens        = 10
)

// Client talks to the GigaChat API. Requests are single-shot: no retries,
// no streaming, no token reuse across calls.
type Client struct {
	httpClient *http.Client
	logger     *logpanel.Logger
}

// NewClient creates a GigaChat client. The logger may carry a nil sink, in
// which case request logging is a no-op.
func NewClient(logger *logpanel.Logger) *Client {
	if logger == nil {
		logger = logpanel.NewLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Logger returns the client's request logger so callers can attach a sink
// and follow the LogMessages setting.
func (c *Client) Logger() *logpanel.Logger {
	return c.logger
}

// Generate sends the prompt verbatim as a single user message and returns
// the first choice's content.
func (c *Client) Generate(cfg settings.Settings, token models.AccessToken, prompt string) (string, error) {
	return c.complete(cfg, token, prompt, cfg.Temperature, cfg.MaxTokens)
}

// GenerateWithContext prefixes the prompt with the selected note text so the
// model grounds its reply in it. The message content becomes:
//
//	<prompt>\n\nКонтекст:\n"<context>"
//
// Request and response handling are otherwise identical to Generate.
func (c *Client) GenerateWithContext(cfg settings.Settings, token models.AccessToken, prompt, context string) (string, error) {
	content := prompt + "\n\nКонтекст:\n\"" + context + "\""
	return c.complete(cfg, token, content, cfg.Temperature, cfg.MaxTokens)
}

// TestConnection verifies the configured credentials end to end: it fetches
// a fresh token and issues a minimal completion request. A nil return means
// the connection works.
func (c *Client) TestConnection(cfg settings.Settings) error {
	token, err := c.FetchAccessToken(cfg)
	if err != nil {
		return err
	}

	_, err = c.complete(cfg, token, testConnectionPrompt, testTemperature, testMaxTokens)
	return err
}

// complete issues one chat completion request and extracts the first
// choice's message content. Temperature and max tokens are passed through
// unmodified; the API is the sole authority on their valid ranges.
func (c *Client) complete(cfg settings.Settings, token models.AccessToken, content string, temperature float64, maxTokens int) (string, error) {
	request := models.CompletionRequest{
		Model: cfg.Model,
		Messages: []models.Message{
			{Role: "user", Content: content},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	url := strings.TrimSuffix(cfg.APIURL, "/") + "/chat/completions"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Value)

	c.logger.Logf("sending completion request: %s", truncate(content, promptPreviewChars))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Logf("completion request failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Logf("completion request failed: %s", resp.Status)
		return "", &CompletionError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	var response models.CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		c.logger.Logf("completion response could not be parsed: %v", err)
		return "", err
	}

	if len(response.Choices) == 0 {
		c.logger.Logf("completion response contained no choices")
		return "", ErrMalformedResponse
	}

	result := response.Choices[0].Message.Content
	c.logger.Logf("completion succeeded, %d characters", len([]rune(result)))

	return result, nil
}

// truncate shortens s to at most maxChars runes for log previews.
func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "..."
}
