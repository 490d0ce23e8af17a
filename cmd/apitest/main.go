// Package main implements a CLI tool for testing GigaChat API integration.
package main

import (
	"flag"
	"fmt"
	"gigachat-bridge/internal/gigachat"
	"gigachat-bridge/internal/logpanel"
	"gigachat-bridge/internal/settings"
	"gigachat-bridge/pkg/utils"
	"log"
	"os"
)

// logSink echoes request log entries to the terminal.
type logSink struct{}

func (logSink) Append(entry string) {
	log.Println(entry)
}

func main() {
	// Parse command line flags
	prompt := flag.String("prompt", "Привет! Что ты умеешь?", "The prompt to send to GigaChat")
	contextText := flag.String("context", "", "Optional context text to ground the prompt in")
	clientID := flag.String("client-id", "", "Base64 client id for the token endpoint (overrides environment)")
	scope := flag.String("scope", "", "OAuth scope (overrides environment)")
	authURL := flag.String("auth-url", "", "Token endpoint URL (overrides environment)")
	apiURL := flag.String("api-url", "", "Completion API base URL (overrides environment)")
	model := flag.String("model", "", "Model name (overrides environment)")
	flag.Parse()

	// Set environment variables if provided
	if *clientID != "" {
		os.Setenv("GIGACHAT_CLIENT_ID", *clientID)
	}
	if *scope != "" {
		os.Setenv("GIGACHAT_SCOPE", *scope)
	}
	if *authURL != "" {
		os.Setenv("GIGACHAT_AUTH_URL", *authURL)
	}
	if *apiURL != "" {
		os.Setenv("GIGACHAT_API_URL", *apiURL)
	}
	if *model != "" {
		os.Setenv("GIGACHAT_MODEL", *model)
	}

	cfg := settings.ApplyEnv(settings.Default())

	logger := logpanel.NewLogger()
	logger.SetSink(logSink{})
	logger.SetEnabled(true)
	client := gigachat.NewClient(logger)

	// Print config info
	fmt.Println("🚀 GigaChat API Tester")
	fmt.Println("----------------------------")
	fmt.Printf("Prompt: %s\n", *prompt)
	fmt.Printf("Auth URL: %s\n", cfg.AuthURL)
	fmt.Printf("API URL: %s\n", cfg.APIURL)
	fmt.Printf("Model: %s\n", cfg.Model)
	fmt.Printf("Client ID: %s\n", utils.MaskToken(cfg.ClientID))

	fmt.Println("\nFetching access token...")
	token, err := client.FetchAccessToken(cfg)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("Access token: %s (expires in %ds)\n", utils.MaskToken(token.Value), token.ExpiresInSeconds)

	fmt.Println("\nSending request to GigaChat API...")
	var response string
	if *contextText != "" {
		response, err = client.GenerateWithContext(cfg, token, *prompt, *contextText)
	} else {
		response, err = client.Generate(cfg, token, *prompt)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	// Print response
	fmt.Println("Response received:")
	fmt.Println("----------------------------")
	fmt.Println(response)
	fmt.Println("----------------------------")
}
