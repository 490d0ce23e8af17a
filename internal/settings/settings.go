// Package settings manages the persisted configuration record for the
// GigaChat bridge. The record mirrors what the host editor's settings form
// edits: endpoint URLs, credentials, model parameters and the log toggle.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Default endpoint and model values. These match the public GigaChat API.
const (
	DefaultAPIURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	DefaultAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultScope   = "GIGACHAT_API_PERS"
	DefaultModel   = "GigaChat"
)

// Settings holds the full configuration record. Each request treats the
// record as read-only; it is only mutated by the settings surface between
// user actions.
type Settings struct {
	// APIKey is the user-facing key shown in the settings form. It gates the
	// UI but is not sent with requests; authentication uses ClientID.
	APIKey string `json:"apiKey"`
	// APIURL is the base URL of the chat completion API, without the
	// /chat/completions suffix.
	APIURL string `json:"apiUrl"`
	// AuthURL is the OAuth token endpoint.
	AuthURL string `json:"authUrl"`
	// ClientID is the base64-encoded client id/secret pair sent as
	// "Authorization: Basic <ClientID>" to the token endpoint.
	ClientID string `json:"clientId"`
	// Scope is the OAuth scope string, e.g. "GIGACHAT_API_PERS".
	Scope string `json:"scope"`
	// Model is the model name sent with completion requests.
	Model string `json:"model"`
	// Temperature is passed through to the API unmodified; no clamping is
	// applied client-side.
	Temperature float64 `json:"temperature"`
	// MaxTokens is passed through to the API unmodified.
	MaxTokens int `json:"maxTokens"`
	// LogMessages enables the request log panel.
	LogMessages bool `json:"logMessages"`
}

// Default returns a fully-populated settings record with empty credentials.
func Default() Settings {
	return Settings{
		APIKey:      "",
		APIURL:      DefaultAPIURL,
		AuthURL:     DefaultAuthURL,
		ClientID:    "",
		Scope:       DefaultScope,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   2000,
		LogMessages: false,
	}
}

// persisted mirrors Settings with optional fields so that partially written
// records load cleanly. Missing fields fall back to defaults field by field
// rather than through a dynamic merge.
type persisted struct {
	APIKey      *string  `json:"apiKey"`
	APIURL      *string  `json:"apiUrl"`
	AuthURL     *string  `json:"authUrl"`
	ClientID    *string  `json:"clientId"`
	Scope       *string  `json:"scope"`
	Model       *string  `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"maxTokens"`
	LogMessages *bool    `json:"logMessages"`
}

// Load reads the settings record from path. A missing file yields the
// default record without error; a present file is parsed as a partial
// record and defaulted field by field.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, err
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return s, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if p.APIKey != nil {
		s.APIKey = *p.APIKey
	}
	if p.APIURL != nil {
		s.APIURL = *p.APIURL
	}
	if p.AuthURL != nil {
		s.AuthURL = *p.AuthURL
	}
	if p.ClientID != nil {
		s.ClientID = *p.ClientID
	}
	if p.Scope != nil {
		s.Scope = *p.Scope
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.Temperature != nil {
		s.Temperature = *p.Temperature
	}
	if p.MaxTokens != nil {
		s.MaxTokens = *p.MaxTokens
	}
	if p.LogMessages != nil {
		s.LogMessages = *p.LogMessages
	}

	return s, nil
}

// Save writes the settings record to path, creating parent directories as
// needed.
func Save(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// ApplyEnv overrides fields from environment variables. This lets the bridge
// run from a .env file without a persisted settings record.
func ApplyEnv(s Settings) Settings {
	if v := os.Getenv("GIGACHAT_API_KEY"); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv("GIGACHAT_API_URL"); v != "" {
		s.APIURL = v
	}
	if v := os.Getenv("GIGACHAT_AUTH_URL"); v != "" {
		s.AuthURL = v
	}
	if v := os.Getenv("GIGACHAT_CLIENT_ID"); v != "" {
		s.ClientID = v
	}
	if v := os.Getenv("GIGACHAT_SCOPE"); v != "" {
		s.Scope = v
	}
	if v := os.Getenv("GIGACHAT_MODEL"); v != "" {
		s.Model = v
	}
	if v := os.Getenv("GIGACHAT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Temperature = f
		}
	}
	if v := os.Getenv("GIGACHAT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.MaxTokens = n
		}
	}
	if v := os.Getenv("GIGACHAT_LOG_MESSAGES"); v != "" {
		s.LogMessages = v == "1" || v == "true"
	}
	return s
}

// DefaultPath returns the standard location of the settings file for the
// current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gigachat-bridge", "settings.json"), nil
}
