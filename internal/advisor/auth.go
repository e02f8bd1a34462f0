package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/martinsuchenak/advisorctl/internal/log"
)

const loginPath = apiPrefix + "/auth/login"

var validate = validator.New()

// Credentials are sent once to the login endpoint and never stored
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Login exchanges credentials for a bearer token and stores it. It does not go through Do:
// no existing token is attached. Nothing is persisted unless a token is issued.
func (c *Client) Login(ctx context.Context, username, password string) error {
	creds := Credentials{Username: strings.TrimSpace(username), Password: password}
	if err := validate.Struct(creds); err != nil {
		return fmt.Errorf("%w: username and password are required", ErrAuthFailed)
	}

	baseURL, err := c.BaseURL()
	if err != nil {
		return err
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("%w: encoding credentials: %v", ErrAuthFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+loginPath, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to connect to server: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrAuthFailed, err)
	}

	var body loginResponse
	parseErr := json.Unmarshal(payload, &body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrAuthFailed, errorMessage(payload, resp.StatusCode))
	}
	if parseErr != nil {
		return fmt.Errorf("%w: invalid login response", ErrAuthFailed)
	}
	if body.Success != nil && !*body.Success {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		if msg == "" {
			msg = "login rejected by server"
		}
		return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
	}
	if body.Token == "" {
		return fmt.Errorf("%w: no token in login response", ErrAuthFailed)
	}

	if err := c.store.SaveToken(body.Token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	if err := c.store.SaveUsername(creds.Username); err != nil {
		log.Warn("Failed to remember username", "error", err)
	}

	log.Info("Logged in", "username", creds.Username)
	return nil
}
