package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// errorBody is the JSON error envelope returned by the server.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// ValidationError is input rejected by the client or the server (400, 409, 413, 422).
type ValidationError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError covers bad credentials, missing or expired tokens and ownership violations.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NetworkError is a transport failure; no response was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is any other non-2xx response.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// ResponseError converts a non-2xx response into the typed error taxonomy.
func ResponseError(resp *Response) error {
	var body errorBody
	_ = json.Unmarshal(resp.Body, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.Status)
	}

	switch resp.Status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return &ValidationError{Status: resp.Status, Code: body.Code, Message: msg, Details: body.Details}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Status: resp.Status, Code: body.Code, Message: msg}
	case http.StatusNotFound:
		return &NotFoundError{Code: body.Code, Message: msg}
	default:
		return &StatusError{Status: resp.Status, Code: body.Code, Message: msg}
	}
}

// Message renders err as the human-readable string stored on client state.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		validation *ValidationError
		network    *NetworkError
	)
	switch {
	case errors.As(err, &validation):
		if validation.Details != "" && validation.Details != validation.Message {
			return validation.Message + ": " + validation.Details
		}
		return validation.Message
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.As(err, &network):
		return "Unable to reach the server. Check your connection and try again."
	default:
		return err.Error()
	}
}

// Retryable reports whether err is a transport failure or a 5xx response.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return true
	}
	var status *StatusError
	return errors.As(err, &status) && status.Status >= http.StatusInternalServerError
}
