package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeAuthLoginFailed    ErrorCode = "AUTH-001"
	ErrCodeAuthNotLoggedIn    ErrorCode = "AUTH-002"
	ErrCodeAuthTokenExpired   ErrorCode = "AUTH-003"
	ErrCodeAuthRefreshFailed  ErrorCode = "AUTH-004"
	ErrCodeAuthAdminRequired  ErrorCode = "AUTH-005"
	ErrCodeAuthTokenMalformed ErrorCode = "AUTH-006"

	// API errors (API-001 to API-099)
	ErrCodeAPIRequest      ErrorCode = "API-001"
	ErrCodeAPIResponse     ErrorCode = "API-002"
	ErrCodeAPIRejected     ErrorCode = "API-003"
	ErrCodeAPINotFound     ErrorCode = "API-004"
	ErrCodeAPIUnavailable  ErrorCode = "API-005"

	// Form errors (FORM-001 to FORM-099)
	ErrCodeFormValidation     ErrorCode = "FORM-001"
	ErrCodeFormEmailRequired  ErrorCode = "FORM-002"
	ErrCodeFormEmailInvalid   ErrorCode = "FORM-003"
	ErrCodeFormAlreadyDone    ErrorCode = "FORM-004"
	ErrCodeFormQuestionRange  ErrorCode = "FORM-005"
	ErrCodeFormAnswerMismatch ErrorCode = "FORM-006"

	// Autosave errors (SAVE-001 to SAVE-099)
	ErrCodeSaveNoIdentity ErrorCode = "SAVE-001"
	ErrCodeSaveFailed     ErrorCode = "SAVE-002"

	// Resume errors (RESUME-001 to RESUME-099)
	ErrCodeResumeLookup ErrorCode = "RESUME-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
)

// Error represents an enhanced error with code, suggestions, and optional
// field-level detail reported by the backend.
type Error struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	// Fields holds per-field messages from a rejected mutating call,
	// keyed by the backend field name.
	Fields map[string]string
	// Status is the HTTP status of a failed API call, 0 otherwise.
	Status int
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %s", k, e.Fields[k]))
		}
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithField records a field-level message for the error
func (e *Error) WithField(field, message string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// WithStatus records the HTTP status of a failed API call
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// IsCode reports whether err is an *Error carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
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

// Common error constructors for frequently used errors

// NewNotLoggedInError creates an error for commands that need a session
func NewNotLoggedInError() *Error {
	return New(ErrCodeAuthNotLoggedIn, "not logged in").
		WithSuggestion("Run 'assesskit login' to authenticate").
		WithSuggestion("Check that your credentials file has not been removed")
}

// NewAuthExpiredError creates an error for a session whose refresh failed
func NewAuthExpiredError(cause error) *Error {
	return Wrap(ErrCodeAuthRefreshFailed, "session expired and could not be refreshed", cause).
		WithSuggestion("Run 'assesskit login' to start a new session")
}

// NewAdminRequiredError creates an error for admin-only commands
func NewAdminRequiredError() *Error {
	return New(ErrCodeAuthAdminRequired, "this command requires an admin account").
		WithSuggestion("Log in with an account that has admin privileges")
}

// NewValidationError creates an error describing unanswered required questions
func NewValidationError(count int) *Error {
	return New(ErrCodeFormValidation, fmt.Sprintf("%d required question(s) still need an answer", count)).
		WithSuggestion("Fill in every question marked as required before submitting")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *Error {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *Error {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
