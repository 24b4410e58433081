package exitcode

import (
	"os"
	"strings"

	"github.com/assesskit/assesskit/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates a submission blocked by unanswered required questions
	ValidationError = 3

	// AuthError indicates an authentication or authorization failure
	AuthError = 4

	// NetworkError indicates a network connectivity issue
	NetworkError = 5

	// Interrupted indicates the operation was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if kitErr, ok := err.(*errors.Error); ok {
		switch {
		case strings.HasPrefix(string(kitErr.Code), "AUTH-"):
			return AuthError
		case kitErr.Code == errors.ErrCodeFormValidation,
			kitErr.Code == errors.ErrCodeFormEmailRequired,
			kitErr.Code == errors.ErrCodeFormEmailInvalid:
			return ValidationError
		case kitErr.Code == errors.ErrCodeAPIRequest,
			kitErr.Code == errors.ErrCodeAPIUnavailable:
			return NetworkError
		}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "not logged in") {
		return AuthError
	}
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}
	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "required flag") {
		return UsageError
	}

	return GeneralError
}
