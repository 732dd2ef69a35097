// Package core provides core types and interfaces for the prompt client.
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind represents the kind of error that occurred
type ErrorKind string

const (
	// KindUnsupportedModel indicates a model token outside the six known variants
	KindUnsupportedModel ErrorKind = "unsupported_model"
	// KindNoPromptProvided indicates that no prompt source yielded text
	KindNoPromptProvided ErrorKind = "no_prompt_provided"
	// KindMissingEnvVar indicates a required environment variable is unset
	KindMissingEnvVar ErrorKind = "missing_env_var"
	// KindConfigMalformed indicates a configuration document that does not parse into the expected shape
	KindConfigMalformed ErrorKind = "config_malformed"
	// KindConfigMissing indicates a configuration document that is absent or unreadable
	KindConfigMissing ErrorKind = "config_missing"
	// KindRequestFailed indicates the relay call failed
	KindRequestFailed ErrorKind = "request_failed"
	// KindOutputFailed indicates extracted code could not be written
	KindOutputFailed ErrorKind = "output_failed"
)

// Error is the single error type surfaced to the entry point.
// Every Error is terminal for the current invocation.
type Error struct {
	Kind    ErrorKind
	Message string
	// Detail holds the offending token, variable name or path when relevant
	Detail string
	// StatusCode is the upstream HTTP status for request failures, 0 otherwise
	StatusCode int
	// Partial is set on streaming request failures that happened after some output was delivered
	Partial bool
	// Delivered counts the chunks handed to the caller before a streaming failure
	Delivered int
	// Err is the original cause, if any
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap implements the error unwrapping interface
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for this error.
func (e *Error) ExitCode() int {
	return 1
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// NewUnsupportedModelError creates an error for an unknown model token
func NewUnsupportedModelError(token string) *Error {
	return &Error{
		Kind:    KindUnsupportedModel,
		Message: fmt.Sprintf("unsupported model type: %s", token),
		Detail:  token,
	}
}

// NewNoPromptError creates the error returned when no prompt source is available
func NewNoPromptError() *Error {
	return &Error{
		Kind:    KindNoPromptProvided,
		Message: "no prompt provided; pass it as an argument, with -p, or through stdin",
	}
}

// NewMissingEnvVarError creates an error naming the missing environment variable
func NewMissingEnvVarError(name string) *Error {
	return &Error{
		Kind:    KindMissingEnvVar,
		Message: fmt.Sprintf("environment variable %s is not set", name),
		Detail:  name,
	}
}

// NewConfigMissingError creates an error for an absent or unreadable document
func NewConfigMissingError(path string, err error) *Error {
	return &Error{
		Kind:    KindConfigMissing,
		Message: fmt.Sprintf("configuration not found at %s", path),
		Detail:  path,
		Err:     err,
	}
}

// NewConfigMalformedError creates an error for a document with the wrong shape
func NewConfigMalformedError(message string, err error) *Error {
	if err != nil {
		message = message + ": " + err.Error()
	}
	return &Error{
		Kind:    KindConfigMalformed,
		Message: "malformed configuration: " + message,
		Err:     err,
	}
}

// NewRequestError creates a request failure with an optional upstream status code
func NewRequestError(statusCode int, message string, err error) *Error {
	return &Error{
		Kind:       KindRequestFailed,
		Message:    "request failed: " + message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewStreamError creates a request failure raised while streaming.
// delivered is the number of chunks the caller already received.
func NewStreamError(delivered int, message string, err error) *Error {
	e := &Error{
		Kind:      KindRequestFailed,
		Delivered: delivered,
		Partial:   delivered > 0,
		Err:       err,
	}
	if e.Partial {
		e.Message = fmt.Sprintf("request failed after partial output (%d chunks): %s", delivered, message)
	} else {
		e.Message = "request failed before any output: " + message
	}
	return e
}

// NewOutputError creates an error for a failed write of extracted code
func NewOutputError(path string, err error) *Error {
	return &Error{
		Kind:    KindOutputFailed,
		Message: fmt.Sprintf("failed to write code output to %s: %v", path, err),
		Detail:  path,
		Err:     err,
	}
}

// ParseUpstreamError turns a non-200 response from the API into a request failure.
// OpenAI-compatible error bodies contribute their message; anything else is quoted raw.
func ParseUpstreamError(statusCode int, body []byte) *Error {
	var errorResponse struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if err := json.Unmarshal(body, &errorResponse); err == nil && errorResponse.Error.Message != "" {
		message = errorResponse.Error.Message
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return NewRequestError(statusCode, fmt.Sprintf("status %d: %s", statusCode, message), nil)
}
