// Package utils provides small helpers shared by the bridge and its
// command-line tools.
package utils

import "os"

// GetEnvWithDefault retrieves an environment variable or returns a default
// value if not set.
//
// Parameters:
//   - name: The name of the environment variable
//   - defaultValue: The default value to return if the environment variable is not set
//
// Returns the value of the environment variable, or the default value if not set.
func GetEnvWithDefault(name, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	return value
}

// MaskToken masks a credential for display, showing only the first and last
// few characters. Used whenever a key or token is echoed to logs or the
// settings surface.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) < 10 {
		return "***" // Too short to safely show anything
	}
	return token[:4] + "..." + token[len(token)-4:]
}
