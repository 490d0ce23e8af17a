package bridge

import (
	"encoding/json"
	"errors"
	"gigachat-bridge/internal/gigachat"
	"gigachat-bridge/internal/logpanel"
	"gigachat-bridge/internal/settings"
	"gigachat-bridge/pkg/utils"
	"net/http"
	"os"
	"strings"
)

// Server is the localhost HTTP surface the editor host talks to. Each
// endpoint performs exactly one user action: settings are re-read from disk
// per request and every generation fetches a fresh access token.
type Server struct {
	Router *http.ServeMux

	client       *gigachat.Client
	logBuffer    *logpanel.Buffer
	settingsPath string
	secret       string
}

// NewServer creates a bridge server. settingsPath locates the persisted
// settings record; secret signs and verifies session tokens.
func NewServer(settingsPath, secret string) *Server {
	logBuffer := logpanel.NewBuffer()
	client := gigachat.NewClient(logpanel.NewLogger())
	client.Logger().SetSink(logBuffer)

	s := &Server{
		Router:       http.NewServeMux(),
		client:       client,
		logBuffer:    logBuffer,
		settingsPath: settingsPath,
		secret:       secret,
	}

	s.initializeRoutes()
	return s
}

func (s *Server) initializeRoutes() {
	s.Router.HandleFunc("/status", s.handleStatus)
	s.Router.HandleFunc("/generate", s.handleGenerate)
	s.Router.HandleFunc("/test-connection", s.handleTestConnection)
	s.Router.HandleFunc("/settings", s.handleSettings)
	s.Router.HandleFunc("/log", s.handleLog)
}

// loadSettings reads the settings record for one request. The record is
// copy-on-read: no handler mutates it in place.
func (s *Server) loadSettings() (settings.Settings, error) {
	cfg, err := settings.Load(s.settingsPath)
	if err != nil {
		return cfg, err
	}
	cfg = settings.ApplyEnv(cfg)
	s.client.Logger().SetEnabled(cfg.LogMessages)
	return cfg, nil
}

// validateSession checks the bearer session token on a request. When the
// DISABLE_AUTH environment variable is set to "true" or "1" all requests are
// accepted, which is convenient for local development.
func (s *Server) validateSession(r *http.Request) error {
	if disableAuth := os.Getenv("DISABLE_AUTH"); disableAuth == "true" || disableAuth == "1" {
		return nil
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ErrInvalidToken
	}

	_, err := ValidateSessionToken(strings.TrimPrefix(auth, "Bearer "), s.secret)
	return err
}

// unauthorized writes the error response for a failed session check.
func unauthorized(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrTokenExpired) {
		w.Header().Set("X-Session-Expired", "true")
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// errorStatus maps a core error to the HTTP status returned to the host.
// The host is responsible for showing the notification and resetting its
// in-progress UI state.
func errorStatus(err error) int {
	var configErr *gigachat.ConfigurationError
	var authErr *gigachat.AuthenticationError
	var complErr *gigachat.CompletionError

	switch {
	case errors.As(err, &configErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr), errors.As(err, &complErr):
		return http.StatusBadGateway
	case errors.Is(err, gigachat.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.loadSettings()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := "ready"
	if cfg.APIKey == "" {
		status = "unconfigured"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// GenerateParams is the request body of the /generate endpoint. Context is
// the host editor's current selection; when present the prompt is grounded
// in it.
type GenerateParams struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
}

// GenerateResult is the response body of the /generate endpoint. The host
// inserts Content at the cursor position.
type GenerateResult struct {
	Content string `json:"content"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.validateSession(r); err != nil {
		unauthorized(w, err)
		return
	}

	var params GenerateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if params.Prompt == "" {
		http.Error(w, "prompt must not be empty", http.StatusBadRequest)
		return
	}

	cfg, err := s.loadSettings()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if cfg.APIKey == "" {
		http.Error(w, (&gigachat.ConfigurationError{Field: "apiKey"}).Error(), http.StatusBadRequest)
		return
	}

	token, err := s.client.FetchAccessToken(cfg)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	var content string
	if params.Context != "" {
		content, err = s.client.GenerateWithContext(cfg, token, params.Prompt, params.Context)
	} else {
		content, err = s.client.Generate(cfg, token, params.Prompt)
	}
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GenerateResult{Content: content})
}

// TestConnectionResult is the response body of the /test-connection endpoint.
type TestConnectionResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.validateSession(r); err != nil {
		unauthorized(w, err)
		return
	}

	cfg, err := s.loadSettings()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result := TestConnectionResult{OK: true}
	if err := s.client.TestConnection(cfg); err != nil {
		result = TestConnectionResult{OK: false, Error: err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := s.validateSession(r); err != nil {
		unauthorized(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		cfg, err := s.loadSettings()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		// The API key is user-supplied and only echoed back masked.
		cfg.APIKey = utils.MaskToken(cfg.APIKey)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)

	case http.MethodPut:
		var cfg settings.Settings
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := settings.Save(s.settingsPath, cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// LogResult is the response body of the /log endpoint.
type LogResult struct {
	Entries []string `json:"entries"`
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	if err := s.validateSession(r); err != nil {
		unauthorized(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LogResult{Entries: s.logBuffer.Entries()})
}

// Client exposes the underlying GigaChat client for CLI use.
func (s *Server) Client() *gigachat.Client {
	return s.client
}
