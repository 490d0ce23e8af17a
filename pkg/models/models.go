// Package models defines the data types shared between the GigaChat client
// and the bridge server.
package models

// AccessToken is a short-lived bearer credential returned by the GigaChat
// OAuth endpoint. A fresh token is fetched for every user action; tokens are
// never cached or persisted.
type AccessToken struct {
	// Value is the opaque bearer token string.
	Value string
	// ExpiresInSeconds is the token lifetime reported by the auth endpoint.
	ExpiresInSeconds int64
}

// Message is a single role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the JSON body of a chat completion call.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// CompletionResponse is the JSON body returned by the chat completion
// endpoint. Only the fields the bridge reads are declared.
type CompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// TokenResponse is the JSON body returned by the OAuth token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
