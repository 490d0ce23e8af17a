package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.APIURL != DefaultAPIURL {
		t.Errorf("Default() APIURL = %q, want %q", s.APIURL, DefaultAPIURL)
	}
	if s.AuthURL != DefaultAuthURL {
		t.Errorf("Default() AuthURL = %q, want %q", s.AuthURL, DefaultAuthURL)
	}
	if s.Scope != DefaultScope {
		t.Errorf("Default() Scope = %q, want %q", s.Scope, DefaultScope)
	}
	if s.Model != DefaultModel {
		t.Errorf("Default() Model = %q, want %q", s.Model, DefaultModel)
	}
	if s.MaxTokens <= 0 {
		t.Errorf("Default() MaxTokens = %d, want positive", s.MaxTokens)
	}
	if s.Temperature < 0 || s.Temperature > 1 {
		t.Errorf("Default() Temperature = %v, want within [0,1]", s.Temperature)
	}
	if s.LogMessages {
		t.Error("Default() LogMessages = true, want false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if s != Default() {
		t.Errorf("Load() on missing file = %+v, want defaults", s)
	}
}

func TestLoadPartialAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	partial := `{"clientId":"dGVzdA==","temperature":0.2,"logMessages":true}`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.ClientID != "dGVzdA==" {
		t.Errorf("Load() ClientID = %q, want %q", s.ClientID, "dGVzdA==")
	}
	if s.Temperature != 0.2 {
		t.Errorf("Load() Temperature = %v, want 0.2", s.Temperature)
	}
	if !s.LogMessages {
		t.Error("Load() LogMessages = false, want true")
	}
	// Unlisted fields take defaults.
	if s.APIURL != DefaultAPIURL {
		t.Errorf("Load() APIURL = %q, want default %q", s.APIURL, DefaultAPIURL)
	}
	if s.Model != DefaultModel {
		t.Errorf("Load() Model = %q, want default %q", s.Model, DefaultModel)
	}
	if s.MaxTokens != Default().MaxTokens {
		t.Errorf("Load() MaxTokens = %d, want default %d", s.MaxTokens, Default().MaxTokens)
	}
}

func TestLoadZeroValuesAreKept(t *testing.T) {
	// An explicit zero in the file is a user choice, not a missing field.
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"temperature":0,"maxTokens":0}`), 0o600); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Temperature != 0 {
		t.Errorf("Load() Temperature = %v, want explicit 0", s.Temperature)
	}
	if s.MaxTokens != 0 {
		t.Errorf("Load() MaxTokens = %d, want explicit 0", s.MaxTokens)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	want := Settings{
		APIKey:      "key-123",
		APIURL:      "https://example.test/api/v1",
		AuthURL:     "https://example.test/oauth",
		ClientID:    "dGVzdC1jbGllbnQ=",
		Scope:       "GIGACHAT_API_CORP",
		Model:       "GigaChat-Max",
		Temperature: 0.45,
		MaxTokens:   777,
		LogMessages: true,
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse error for invalid JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	envs := map[string]string{
		"GIGACHAT_CLIENT_ID":    "ZW52LWNsaWVudA==",
		"GIGACHAT_SCOPE":        "GIGACHAT_API_B2B",
		"GIGACHAT_MODEL":        "GigaChat-Pro",
		"GIGACHAT_TEMPERATURE":  "0.9",
		"GIGACHAT_MAX_TOKENS":   "128",
		"GIGACHAT_LOG_MESSAGES": "true",
	}
	for k, v := range envs {
		os.Setenv(k, v)
	}
	defer func() {
		for k := range envs {
			os.Unsetenv(k)
		}
	}()

	s := ApplyEnv(Default())

	if s.ClientID != "ZW52LWNsaWVudA==" {
		t.Errorf("ApplyEnv() ClientID = %q, want env override", s.ClientID)
	}
	if s.Scope != "GIGACHAT_API_B2B" {
		t.Errorf("ApplyEnv() Scope = %q, want env override", s.Scope)
	}
	if s.Model != "GigaChat-Pro" {
		t.Errorf("ApplyEnv() Model = %q, want env override", s.Model)
	}
	if s.Temperature != 0.9 {
		t.Errorf("ApplyEnv() Temperature = %v, want 0.9", s.Temperature)
	}
	if s.MaxTokens != 128 {
		t.Errorf("ApplyEnv() MaxTokens = %d, want 128", s.MaxTokens)
	}
	if !s.LogMessages {
		t.Error("ApplyEnv() LogMessages = false, want true")
	}
	// Fields without env overrides keep their values.
	if s.APIURL != DefaultAPIURL {
		t.Errorf("ApplyEnv() APIURL = %q, want untouched default", s.APIURL)
	}
}

func TestApplyEnvIgnoresInvalidNumbers(t *testing.T) {
	os.Setenv("GIGACHAT_TEMPERATURE", "warm")
	os.Setenv("GIGACHAT_MAX_TOKENS", "many")
	defer func() {
		os.Unsetenv("GIGACHAT_TEMPERATURE")
		os.Unsetenv("GIGACHAT_MAX_TOKENS")
	}()

	s := ApplyEnv(Default())

	if s.Temperature != Default().Temperature {
		t.Errorf("ApplyEnv() Temperature = %v, want default on parse failure", s.Temperature)
	}
	if s.MaxTokens != Default().MaxTokens {
		t.Errorf("ApplyEnv() MaxTokens = %d, want default on parse failure", s.MaxTokens)
	}
}
