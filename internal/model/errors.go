package model

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every anticipated failure of a run.
// Callers match them with errors.Is; producers wrap them with context.
var (
	// ErrPromptFailed is returned when interactive input is unavailable or rejected.
	ErrPromptFailed = errors.New("provider prompt failed")

	// ErrMissingCredential is returned when the provider's API key is not set.
	ErrMissingCredential = errors.New("API key not set")

	// ErrFrameworkNotDetected is returned when no framework marker is present.
	ErrFrameworkNotDetected = errors.New("framework not detected")

	// ErrUnsupportedFramework is returned when no dev server command exists
	// for a framework kind.
	ErrUnsupportedFramework = errors.New("unsupported framework")

	// ErrSpawnFailed is returned when the dev server process cannot be started.
	ErrSpawnFailed = errors.New("failed to start dev server")

	// ErrAnalysisFailed is returned for network errors, non-2xx responses and
	// malformed response bodies from the analysis provider.
	ErrAnalysisFailed = errors.New("log analysis failed")

	// ErrMalformedManifest is returned when package.json cannot be parsed.
	ErrMalformedManifest = errors.New("malformed package.json")

	// ErrInvalidConfig is returned when configuration cannot be loaded.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExitCode defines the process exit codes of the CLI.
// Handled conditions (missing key, no framework, analysis failure) exit
// with ExitSuccess after printing a message.
type ExitCode int

const (
	// ExitSuccess indicates the run completed, including graceful aborts.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitUnsupportedFramework indicates no dev server command exists for
	// the detected framework.
	ExitUnsupportedFramework ExitCode = 2

	// ExitSpawnFailed indicates the dev server process could not be started.
	ExitSpawnFailed ExitCode = 3

	// ExitManifestInvalid indicates package.json could not be parsed.
	ExitManifestInvalid ExitCode = 4

	// ExitConfigError indicates the .env or config file could not be loaded.
	ExitConfigError ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
