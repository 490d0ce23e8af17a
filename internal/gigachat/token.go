package gigachat

import (
	"encoding/json"
	"gigachat-bridge/internal/settings"
	"gigachat-bridge/pkg/models"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// FetchAccessToken exchanges the configured client id and scope for a
// short-lived bearer token via the OAuth2 client-credentials flow.
//
// The request is a form-encoded POST to the auth endpoint with:
//   - Authorization: Basic <clientId> (the client id is already base64)
//   - RqUID: a fresh UUID correlating this exchange in server logs
//   - Body: scope=<scope>
//
// A fresh token is fetched for every user action. Tokens are intentionally
// not cached or refreshed; each one lives only for the duration of a single
// generation request.
func (c *Client) FetchAccessToken(cfg settings.Settings) (models.AccessToken, error) {
	if cfg.ClientID == "" {
		return models.AccessToken{}, &ConfigurationError{Field: "clientId"}
	}
	if cfg.Scope == "" {
		return models.AccessToken{}, &ConfigurationError{Field: "scope"}
	}

	form := url.Values{}
	form.Set("scope", cfg.Scope)

	req, err := http.NewRequest(http.MethodPost, cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return models.AccessToken{}, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+cfg.ClientID)
	req.Header.Set("RqUID", uuid.NewString())

	c.logger.Logf("requesting access token from %s", cfg.AuthURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Logf("token request failed: %v", err)
		return models.AccessToken{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Logf("token request failed: %s", resp.Status)
		return models.AccessToken{}, &AuthenticationError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	var body models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Logf("token response could not be parsed: %v", err)
		return models.AccessToken{}, err
	}

	c.logger.Logf("access token obtained, expires in %ds", body.ExpiresIn)

	return models.AccessToken{
		Value:            body.AccessToken,
		ExpiresInSeconds: body.ExpiresIn,
	}, nil
}
