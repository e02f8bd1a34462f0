package advisor

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/martinsuchenak/advisorctl/internal/log"
	"github.com/martinsuchenak/advisorctl/internal/storage"
)

const (
	apiPrefix = "/porcelain/v2"

	defaultTimeout = 30 * time.Second
)

// LogoutHandler is notified whenever the session is cleared, either by an explicit
// Logout or because the backend answered 401. reason is nil for an explicit logout.
type LogoutHandler func(reason error)

// Client is the authenticated data-access layer for the Advisor API. All session state is
// read from and written to the injected Storage.
type Client struct {
	store      storage.Storage
	httpClient *http.Client
	onLogout   LogoutHandler
	strict     bool

	powerMu       sync.Mutex
	powerInFlight map[string]struct{}
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is added when the
// client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.httpClient = &clone
	}
}

// WithTimeout sets the per-request transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithInsecureTLS disables certificate verification, for appliances with self-signed
// certificates.
func WithInsecureTLS() Option {
	return func(c *Client) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		c.httpClient.Transport = transport
	}
}

// WithLogoutHandler registers the callback fired when the session is cleared
func WithLogoutHandler(fn LogoutHandler) Option {
	return func(c *Client) {
		c.onLogout = fn
	}
}

// WithStrictSession makes authenticated calls fail with ErrNotAuthenticated when no
// token is stored, instead of calling the backend without credentials.
func WithStrictSession() Option {
	return func(c *Client) {
		c.strict = true
	}
}

// NewClient creates a data-access client over the given session store
func NewClient(store storage.Storage, opts ...Option) *Client {
	c := &Client{
		store:         store,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		powerInFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		// cookiejar.New only fails when given options with a broken PublicSuffixList
		jar, _ := cookiejar.New(nil)
		c.httpClient.Jar = jar
	}
	return c
}

// RequestOptions are the optional parts of a generic call
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

// SetServerAddress normalizes and stores the server address used by every call
func (c *Client) SetServerAddress(address string) (string, error) {
	bare := NormalizeAddress(address)
	if bare == "" {
		return "", ErrNotConfigured
	}
	if err := c.store.SaveServerAddress(bare); err != nil {
		return "", fmt.Errorf("saving server address: %w", err)
	}
	return bare, nil
}

// BaseURL resolves the stored server address
func (c *Client) BaseURL() (string, error) {
	session, err := c.store.GetSession()
	if err != nil {
		return "", fmt.Errorf("loading session: %w", err)
	}
	return ResolveBaseURL(session.ServerAddress)
}

// Do performs an authenticated call against path (relative to the API prefix when it
// does not already start with it) and returns the raw JSON body. A 401 clears the session.
func (c *Client) Do(ctx context.Context, path string, opts *RequestOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	session, err := c.store.GetSession()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	baseURL, err := ResolveBaseURL(session.ServerAddress)
	if err != nil {
		return nil, err
	}
	if c.strict && !session.HasToken() {
		return nil, ErrNotAuthenticated
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if session.HasToken() {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("Advisor request failed", "method", method, "path", req.URL.Path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("Advisor request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	// A 401 ends the session whether or not its body is readable
	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession()
		return nil, ErrUnauthorized
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(payload, resp.StatusCode),
		}
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrAPIShape)
	}
	return json.RawMessage(payload), nil
}

// Logout clears the session and notifies the logout handler. Calling it without a
// session is harmless.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.store.ClearSession(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	log.Info("Logged out")
	c.notifyLogout(nil)
	return nil
}

// expireSession clears the session after a 401. Storage failures are logged only, the
// caller already gets ErrUnauthorized.
func (c *Client) expireSession() {
	if err := c.store.ClearSession(); err != nil {
		log.Error("Failed to clear session after unauthorized response", "error", err)
	}
	log.Warn("Session expired, credentials cleared")
	c.notifyLogout(ErrUnauthorized)
}

func (c *Client) notifyLogout(reason error) {
	if c.onLogout != nil {
		c.onLogout(reason)
	}
}

// endpoint prefixes relative paths with the API version root
func endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if strings.HasPrefix(path, apiPrefix+"/") {
		return path
	}
	return apiPrefix + path
}

// errorMessage extracts a message from a JSON error body, falling back to the status text
func errorMessage(payload []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if s, ok := body.Error.(string); ok && s != "" {
			return s
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// decodeList unwraps the {"data": [...]} envelope used by every list endpoint
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: expected an object with a data array", ErrAPIShape)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: data is not an array", ErrAPIShape)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIShape, err)
	}
	return items, nil
}

// IsSessionError reports whether err means the operator has to set up or log in again
func IsSessionError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrNotAuthenticated)
}
