package gigachat

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the completion endpoint answers with
// a 2xx status but the body carries no choices to extract a message from.
var ErrMalformedResponse = errors.New("completion response contains no choices")

// ConfigurationError reports a required credential missing from the settings
// record. It is detected before any network call is made.
type ConfigurationError struct {
	// Field names the missing settings field, e.g. "clientId".
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required setting: %s", e.Field)
}

// AuthenticationError reports a non-2xx response from the token endpoint.
type AuthenticationError struct {
	StatusCode int
	Status     string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("token request failed: %s", e.Status)
}

// CompletionError reports a non-2xx response from the completion endpoint.
type CompletionError struct {
	StatusCode int
	Status     string
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion request failed: %s", e.Status)
}
