package model

import (
	"errors"
	"fmt"
)

// Session signals surfaced to the transport layer as-is, never silently
// retried.
var (
	ErrSessionBusy     = errors.New("session busy")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// ErrHouseNotFound is returned when a referenced house ID does not
// exist in the catalog.
var ErrHouseNotFound = errors.New("house not found")

// ExtractionReason classifies why an extraction call failed, so the
// caller can apply a different retry policy per reason.
type ExtractionReason string

const (
	ReasonTimeout   ExtractionReason = "timeout"
	ReasonMalformed ExtractionReason = "malformed"
	ReasonRefused   ExtractionReason = "refused"
)

// ExtractionError reports a failed preference extraction.
type ExtractionError struct {
	Reason ExtractionReason
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AsExtractionError unwraps err into an ExtractionError, if it is one.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var target *ExtractionError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// ConfigurationError reports invalid startup configuration, such as
// scoring weights that do not sum to 1.0. Fatal at startup; never
// raised mid-conversation.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
