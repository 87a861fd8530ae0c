package api

import (
	"errors"
	"fmt"
	"net/http"
)

// FallbackMessage is shown when the server gave no message of its own.
const FallbackMessage = "Something went wrong"

// ErrUnauthorized matches any *Error with status 401.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string // server-provided, may be empty
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message returns the server message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
