package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation rejected")
	ErrIllegalState = errors.New("operation not allowed in current state")
	ErrNetwork      = errors.New("network failure")
	ErrHTTP         = errors.New("http failure")
	ErrUnauthorized = errors.New("unauthorized")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

type ErrorOrigin string

const (
	OriginNetwork    ErrorOrigin = "network"
	OriginHTTP       ErrorOrigin = "http"
	OriginValidation ErrorOrigin = "validation"
)

// ErrorInfo is the uniform failure shape surfaced to consumers. Every
// transport, HTTP, and validation failure is reduced to it before it
// reaches a view; raw errors never cross that boundary.
type ErrorInfo struct {
	Message string      `json:"message"`
	Origin  ErrorOrigin `json:"origin"`
}

func (e ErrorInfo) Error() string {
	return e.Message
}

const GenericFailureMessage = "Sorry, something went wrong."

// ErrorInfoFrom coerces any error into an ErrorInfo. The message of an
// HTTP failure is expected to have been extracted from the response body
// already; everything unclassified degrades to a network-origin generic.
func ErrorInfoFrom(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	var info ErrorInfo
	if errors.As(err, &info) {
		return info
	}

	msg := GenericFailureMessage
	switch {
	case errors.Is(err, ErrValidation):
		return ErrorInfo{Message: unwrapMessage(err, msg), Origin: OriginValidation}
	case errors.Is(err, ErrHTTP), errors.Is(err, ErrUnauthorized):
		return ErrorInfo{Message: unwrapMessage(err, msg), Origin: OriginHTTP}
	default:
		return ErrorInfo{Message: msg, Origin: OriginNetwork}
	}
}

func unwrapMessage(err error, fallback string) string {
	var info ErrorInfo
	if errors.As(err, &info) && info.Message != "" {
		return info.Message
	}
	return fallback
}
