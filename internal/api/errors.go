package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized maps any 401; the session has already been cleared
	// by the time callers see it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTimeout marks a request that got no response within the client
	// timeout. Callers may retry; the client never retries on its own.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork marks a transport failure other than a timeout
	ErrNetwork = errors.New("network error")
)

// ServerError is a non-401 4xx/5xx with the message extracted from the
// response body when the backend provided one.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error %d", e.Status)
}

// UserMessage converts any client error into a string fit for an alert
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrTimeout):
		return "The server did not respond in time. Please retry."
	}
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if errors.Is(err, ErrNetwork) {
		return "Could not reach the server. Please retry."
	}
	return "Something went wrong. Please retry."
}
