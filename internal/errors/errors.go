// Package errors provides standardized error types for the certinstall CLI.
//
// The errors package defines domain-specific error types that enable
// structured error handling and consistent diagnostics throughout the
// application.
//
// # Error Types
//
// InstallError is the primary error type, containing:
//   - Code: Categorizes the error (CONFIG, PRECONDITION, DELIVERY, etc.)
//   - Message: Human-readable error description
//   - Domain: The domain name involved (if applicable)
//   - Err: The underlying wrapped error (if any)
//
// # Error Codes
//
// The codes mirror the failure classes of the installation pipeline:
//
//	CONFIG       missing mandatory location, malformed target scheme
//	PRECONDITION expected source artifact absent, certificate/key mismatch
//	CYCLE        recipe catalog cycle (impossible with the built-in catalog,
//	             rejected defensively)
//	DELIVERY     remote copy or permission propagation failed
//	RELOAD       post-install hook failed
//	ACME         the external getssl client failed
//
// # Usage
//
// Creating domain-specific errors:
//
//	return errors.Config("unsupported target scheme %q", scheme)
//	return errors.Precondition(domain, "certificate file missing")
//	return errors.WrapDomain(errors.ErrCodeDelivery, domain, err)
//
// Use errors.Is for sentinel comparison and errors.As for type assertion,
// re-exported here for convenience.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeConfig       ErrorCode = "CONFIG"       // Configuration error
	ErrCodePrecondition ErrorCode = "PRECONDITION" // Required source artifact missing or inconsistent
	ErrCodeCycle        ErrorCode = "CYCLE"        // Recipe dependency cycle
	ErrCodeDelivery     ErrorCode = "DELIVERY"     // Remote/container delivery failed
	ErrCodeReload       ErrorCode = "RELOAD"       // Post-install reload hook failed
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"    // Domain not configured
	ErrCodeACME         ErrorCode = "ACME"         // External ACME client error
	ErrCodeInternal     ErrorCode = "INTERNAL"     // Internal/unexpected error
)

// InstallError represents a structured error with context about the
// failing installation step.
type InstallError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Domain  string    // Domain name (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface. Empty fields are omitted, so an
// error wrapped without a message never renders a doubled separator.
func (e *InstallError) Error() string {
	parts := make([]string, 0, 3)
	if e.Domain != "" {
		parts = append(parts, "domain "+e.Domain)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error for error chain traversal.
func (e *InstallError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *InstallError) Is(target error) bool {
	t, ok := target.(*InstallError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrConfigInvalid indicates the configuration is invalid.
	ErrConfigInvalid = &InstallError{Code: ErrCodeConfig, Message: "invalid configuration"}

	// ErrSourceMissing indicates a required source artifact is absent.
	ErrSourceMissing = &InstallError{Code: ErrCodePrecondition, Message: "source artifact missing"}

	// ErrKeyMismatch indicates the certificate and key do not belong together.
	ErrKeyMismatch = &InstallError{Code: ErrCodePrecondition, Message: "certificate/key mismatch"}

	// ErrCycle indicates the recipe catalog contains a dependency cycle.
	ErrCycle = &InstallError{Code: ErrCodeCycle, Message: "recipe dependency cycle"}

	// ErrDomainNotFound indicates the requested domain has no configuration.
	ErrDomainNotFound = &InstallError{Code: ErrCodeNotFound, Message: "domain not configured"}

	// ErrReloadFailed indicates the post-install reload command failed.
	ErrReloadFailed = &InstallError{Code: ErrCodeReload, Message: "reload command failed"}

	// ErrGetsslNotInstalled indicates the getssl client is not installed.
	ErrGetsslNotInstalled = &InstallError{Code: ErrCodeACME, Message: "getssl not installed"}
)

// Config creates a configuration error with a formatted message.
func Config(format string, args ...interface{}) error {
	return &InstallError{
		Code:    ErrCodeConfig,
		Message: fmt.Sprintf(format, args...),
	}
}

// Precondition creates a precondition error tied to a domain.
func Precondition(domain, format string, args ...interface{}) error {
	return &InstallError{
		Code:    ErrCodePrecondition,
		Message: fmt.Sprintf(format, args...),
		Domain:  domain,
	}
}

// SourceMissing creates a precondition error for an absent source artifact.
// The result matches ErrSourceMissing under Is.
func SourceMissing(domain, desc, path string) error {
	return &InstallError{
		Code:    ErrCodePrecondition,
		Message: fmt.Sprintf("%s missing: %s", desc, path),
		Domain:  domain,
		Err:     ErrSourceMissing,
	}
}

// NotFound creates an error for a domain without configuration.
func NotFound(domain string) error {
	return &InstallError{
		Code:    ErrCodeNotFound,
		Message: "domain not configured",
		Domain:  domain,
	}
}

// Cycle creates a dependency-cycle error carrying the witness path.
func Cycle(path string) error {
	return &InstallError{
		Code:    ErrCodeCycle,
		Message: fmt.Sprintf("recipe dependency cycle: %s", path),
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &InstallError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapDomain creates an error with domain context and underlying error.
func WrapDomain(code ErrorCode, domain string, err error) error {
	return &InstallError{
		Code:   code,
		Domain: domain,
		Err:    err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
