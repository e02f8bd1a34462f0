package advisor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned before any network access when no server address is stored
	ErrNotConfigured = errors.New("server address not configured")
	// ErrNotAuthenticated is returned in strict-session mode when no token is stored
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrAuthFailed covers bad credentials, explicit backend refusal and a missing token
	ErrAuthFailed = errors.New("authentication failed")
	// ErrUnauthorized means the backend answered 401; the session has been cleared
	ErrUnauthorized = errors.New("session expired or unauthorized")
	// ErrAPIShape means a response did not have the expected structure
	ErrAPIShape = errors.New("unexpected API response")
	// ErrRequestFailed is matched by every *RequestError
	ErrRequestFailed = errors.New("request failed")

	ErrSystemNotFound       = errors.New("system not found")
	ErrDeviceNotFound       = errors.New("compute device not found")
	ErrPowerCommandInFlight = errors.New("power command already in progress for device")
)

// RequestError is a non-success, non-401 HTTP response
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
