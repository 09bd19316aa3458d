package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited matches 429 responses.
	ErrRateLimited = errors.New("rate limited")
	// ErrServer matches 5xx responses.
	ErrServer = errors.New("server error")
	// ErrTimeout is returned when the per-request deadline fires.
	ErrTimeout = errors.New("request timed out")
	// ErrAborted is returned when the caller cancels a request.
	ErrAborted = errors.New("request aborted")
	// ErrMalformed is returned for 2xx responses missing the expected payload.
	ErrMalformed = errors.New("malformed response")
)

// StatusError reports a non-success HTTP status from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// Is lets errors.Is match a StatusError against the status sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// FriendlyMessage turns an error from this package into text suitable for
// showing to the user.
func FriendlyMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrServer):
		return "Service temporarily unavailable. Please try again."
	case errors.Is(err, ErrTimeout):
		return "Request timed out. Please try again."
	case errors.Is(err, ErrAborted):
		return "Request was cancelled."
	case errors.Is(err, ErrMalformed):
		return "Unexpected response from server. Please try again."
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return "Not found. It may have been deleted elsewhere."
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "connection") || strings.Contains(lower, "no such host") || strings.Contains(lower, "network") {
		return "Network connection issue. Please check your internet connection."
	}
	return "Request failed. Please try again."
}
