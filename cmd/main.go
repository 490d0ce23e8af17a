// GigaChat Bridge
//
// This application is the local companion process for a note-editor GigaChat
// integration. The editor host talks to it over localhost HTTP; the bridge
// handles the OAuth2 client-credentials token exchange and the chat
// completion calls against the GigaChat API.
//
// CLI Usage:
//
//	The application supports the following command-line flags:
//
//	--generate="prompt"
//	  Runs one generation from the command line and prints the result.
//	  Example: ./gigachat-bridge --generate="Придумай заголовок"
//
//	--context="selected text"
//	  Grounds --generate in the given context, the way the editor grounds a
//	  prompt in the current selection.
//
//	--test-connection
//	  Fetches a token and issues a minimal completion to verify credentials.
//
//	--issue-session="host-name"
//	  Mints a session token the editor host presents on bridge requests.
//
//	--disable-auth
//	  Disables session token verification, accepting all bridge requests.
//
// Environment Variables:
//   - GIGACHAT_CLIENT_ID: base64 client id/secret for the token endpoint
//   - GIGACHAT_SCOPE: OAuth scope (default GIGACHAT_API_PERS)
//   - GIGACHAT_API_URL / GIGACHAT_AUTH_URL: endpoint overrides
//   - GIGACHAT_MODEL / GIGACHAT_TEMPERATURE / GIGACHAT_MAX_TOKENS: generation parameters
//   - BRIDGE_API_SECRET: secret signing bridge session tokens
//   - BRIDGE_ADDR: listen address (default 127.0.0.1:8765)
//   - BRIDGE_SETTINGS_PATH: settings file location
//   - DISABLE_AUTH: set to "true" or "1" to disable session verification
package main

import (
	"context"
	"flag"
	"fmt"
	"gigachat-bridge/internal/bridge"
	"gigachat-bridge/internal/gigachat"
	"gigachat-bridge/internal/logpanel"
	"gigachat-bridge/internal/settings"
	"gigachat-bridge/pkg/utils"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// loadEnvFile loads environment variables from a .env file if present.
// It attempts to load from the current directory and parent directories
// up to the root directory.
func loadEnvFile() {
	// Try current directory first
	err := godotenv.Load()
	if err == nil {
		log.Println("Loaded environment variables from .env file in current directory")
		return
	}

	workDir, err := os.Getwd()
	if err != nil {
		log.Printf("Warning: Could not determine current directory: %v", err)
		return
	}

	// Try parent directories recursively
	for dir := workDir; dir != "/"; dir = filepath.Dir(dir) {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			err = godotenv.Load(envPath)
			if err == nil {
				log.Printf("Loaded environment variables from %s", envPath)
				return
			}
		}
	}

	log.Println("No .env file found. Using existing environment variables.")
}

// stdoutSink writes request log entries to the process log when running in
// CLI mode, standing in for the editor's log panel.
type stdoutSink struct{}

func (stdoutSink) Append(entry string) {
	log.Printf("[gigachat] %s", entry)
}

// loadCLISettings resolves the settings record for CLI actions: the
// persisted file (if any) overridden by environment variables.
func loadCLISettings(settingsPath string) settings.Settings {
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		log.Printf("Warning: could not read settings file: %v", err)
		cfg = settings.Default()
	}
	return settings.ApplyEnv(cfg)
}

// newCLIClient creates a GigaChat client whose request log goes to stdout.
func newCLIClient(cfg settings.Settings) *gigachat.Client {
	logger := logpanel.NewLogger()
	logger.SetSink(stdoutSink{})
	logger.SetEnabled(cfg.LogMessages)
	return gigachat.NewClient(logger)
}

func main() {
	// Load environment variables from .env file
	loadEnvFile()

	// Define CLI flags
	generate := flag.String("generate", "", "Run one generation with the given prompt and print the result")
	withContext := flag.String("context", "", "Ground --generate in the given context text")
	testConnection := flag.Bool("test-connection", false, "Verify credentials with a token fetch and a minimal completion")
	issueSession := flag.String("issue-session", "", "Mint a session token for the named editor host")
	disableAuth := flag.Bool("disable-auth", false, "Disable session token verification and accept all requests")

	flag.Parse()

	// Set environment variable if disable-auth flag is set
	if *disableAuth {
		os.Setenv("DISABLE_AUTH", "true")
		log.Println("Session verification is disabled - all bridge requests will be accepted")
	}

	settingsPath := os.Getenv("BRIDGE_SETTINGS_PATH")
	if settingsPath == "" {
		var err error
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			log.Fatalf("Could not determine settings path: %v", err)
		}
	}

	if *issueSession != "" {
		secret := os.Getenv("BRIDGE_API_SECRET")
		if secret == "" {
			log.Fatalf("BRIDGE_API_SECRET must be set to issue session tokens")
		}
		token, err := bridge.CreateSessionToken(*issueSession, secret)
		if err != nil {
			log.Fatalf("Failed to issue session token: %v", err)
		}
		fmt.Println(token)
		os.Exit(0)
	}

	if *testConnection {
		cfg := loadCLISettings(settingsPath)
		client := newCLIClient(cfg)

		log.Println("Testing GigaChat connection...")
		if err := client.TestConnection(cfg); err != nil {
			log.Fatalf("❌ Connection test failed: %v", err)
		}
		fmt.Println("✅ Connection test succeeded")
		os.Exit(0)
	}

	if *generate != "" {
		cfg := loadCLISettings(settingsPath)
		client := newCLIClient(cfg)

		token, err := client.FetchAccessToken(cfg)
		if err != nil {
			log.Fatalf("Failed to fetch access token: %v", err)
		}
		log.Printf("Access token obtained: %s", utils.MaskToken(token.Value))

		var content string
		if *withContext != "" {
			content, err = client.GenerateWithContext(cfg, token, *generate, *withContext)
		} else {
			content, err = client.Generate(cfg, token, *generate)
		}
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}

		fmt.Println(content)
		os.Exit(0)
	}

	// No CLI flags: run in server mode.
	if flag.NFlag() == 0 {
		fmt.Println("Running in server mode. Use --help for CLI options.")
	}

	secret := os.Getenv("BRIDGE_API_SECRET")
	if secret == "" && os.Getenv("DISABLE_AUTH") == "" {
		log.Println("Warning: BRIDGE_API_SECRET is not set; requests will be rejected unless DISABLE_AUTH is enabled")
	}

	// Create a context that will be canceled on program termination
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	b := bridge.NewServer(settingsPath, secret)

	addr := utils.GetEnvWithDefault("BRIDGE_ADDR", "127.0.0.1:8765")
	server := &http.Server{
		Addr:    addr,
		Handler: b.Router,
	}

	// Start the server in a goroutine
	go func() {
		log.Printf("Starting bridge on %s...", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Create a deadline for server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server gracefully stopped")
	}
}
