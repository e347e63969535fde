package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Connection errors (1xxx)
	ErrCodeConnectionFailed     ErrorCode = "GRTK1001"
	ErrCodeConnectionTimeout    ErrorCode = "GRTK1002"
	ErrCodeAuthenticationFailed ErrorCode = "GRTK1003"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "GRTK2001"
	ErrCodeConfigInvalid  ErrorCode = "GRTK2002"

	// Remote API errors (3xxx)
	ErrCodeRemoteFailed      ErrorCode = "GRTK3001"
	ErrCodeResponseMalformed ErrorCode = "GRTK3002"
	ErrCodeBranchNotFound    ErrorCode = "GRTK3003"
	ErrCodeProjectNotFound   ErrorCode = "GRTK3004"

	// Validation errors (4xxx)
	ErrCodeInvalidInput ErrorCode = "GRTK4001"
	ErrCodeInvalidRef   ErrorCode = "GRTK4002"

	// Credential errors (5xxx)
	ErrCodeCredentialNotFound ErrorCode = "GRTK5001"
	ErrCodeEncryptionFailed   ErrorCode = "GRTK5002"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "GRTK9001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Timestamp   time.Time
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors

// InvalidInputError reports a request payload that is missing.
// It is raised before any network call is made.
func InvalidInputError(entity string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("%s must not be nil", entity)).
		WithContext("entity", entity)
}

// InvalidRefError reports a branch ref that does not carry the required prefix
func InvalidRefError(prefix string) *AppError {
	return New(ErrCodeInvalidRef, fmt.Sprintf("branch ref should start with %s", prefix)).
		WithContext("prefix", prefix)
}

// UnknownBranchError reports a lookup for a ref that is not in the snapshot
func UnknownBranchError(ref string) *AppError {
	return New(ErrCodeBranchNotFound, fmt.Sprintf("unknown branch: %s", ref)).
		WithContext("ref", ref).
		WithSuggestions(
			"Call Poll to refresh the branch snapshot",
			"Check the ref for typos",
		)
}

// RemoteError reports a non-2xx response from the Gerrit server
func RemoteError(status int, url string, body string) *AppError {
	err := New(ErrCodeRemoteFailed, fmt.Sprintf("server returned HTTP %d", status)).
		WithContext("status", status).
		WithContext("url", url)
	if body != "" {
		err = err.WithContext("body", truncateString(body, 200))
	}
	if status == 401 || status == 403 {
		err.Code = ErrCodeAuthenticationFailed
		_ = err.WithSuggestions(
			"Check your Gerrit username and HTTP password",
			"Run 'gerritkit setup' to reconfigure credentials",
		)
	}
	return err
}

// ConnectionError creates a connection-related error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSuggestions(
			"Check your network connection",
			"Verify the Gerrit endpoint is accessible",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'gerritkit setup' to reconfigure",
		)
}

// IsCode reports whether err (or any error it wraps) carries the given code
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if ae, ok := err.(*AppError); ok && ae.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsUnknownBranch reports whether err is an unknown-branch lookup failure
func IsUnknownBranch(err error) bool {
	return IsCode(err, ErrCodeBranchNotFound)
}

// IsInvalidRef reports whether err is a bad-prefix ref error
func IsInvalidRef(err error) bool {
	return IsCode(err, ErrCodeInvalidRef)
}

// IsInvalidInput reports whether err is a nil payload error
func IsInvalidInput(err error) bool {
	return IsCode(err, ErrCodeInvalidInput)
}

// truncateString truncates a string to the given length
func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
