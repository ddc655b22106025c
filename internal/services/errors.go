package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool        = errors.New("external tool error")
	ErrValidation          = errors.New("validation error")
	ErrConfiguration       = errors.New("configuration error")
	ErrNotFound            = errors.New("not found")
	ErrTimeout             = errors.New("timeout")
	ErrTransient           = errors.New("transient failure")
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	tagged := &taggedError{
		marker:    marker,
		stage:     strings.TrimSpace(stage),
		operation: strings.TrimSpace(operation),
		message:   strings.TrimSpace(message),
		cause:     err,
	}
	return tagged
}

type taggedError struct {
	marker    error
	stage     string
	operation string
	message   string
	cause     error
}

func (e *taggedError) Error() string {
	detail := buildDetail(e.stage, e.operation, e.message)
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.marker.Error(), detail, e.cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.marker.Error(), detail)
}

func (e *taggedError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.marker, e.cause}
	}
	return []error{e.marker}
}

// ErrorDetails carries the structured parts of a tagged service error.
type ErrorDetails struct {
	Kind      string
	Stage     string
	Operation string
	Message   string
	Cause     error
}

// Details extracts structured failure information from an error chain. For
// untagged errors the full error text becomes the message.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	var tagged *taggedError
	if errors.As(err, &tagged) {
		return ErrorDetails{
			Kind:      kindOf(tagged.marker),
			Stage:     tagged.stage,
			Operation: tagged.operation,
			Message:   tagged.message,
			Cause:     tagged.cause,
		}
	}
	return ErrorDetails{Kind: kindOf(err), Message: err.Error()}
}

func kindOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "transient"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage != "" {
		parts = append(parts, stage)
	}
	if operation != "" {
		parts = append(parts, operation)
	}
	if message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
