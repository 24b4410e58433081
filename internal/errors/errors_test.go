package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(ErrCodeAPIRejected, "submission rejected").
		WithField("respondent_email", "Enter a valid email address.").
		WithSuggestion("Fix the reported fields and retry")

	msg := err.Error()
	if !strings.Contains(msg, "[API-003]") {
		t.Errorf("Error() missing code, got %q", msg)
	}
	if !strings.Contains(msg, "respondent_email: Enter a valid email address.") {
		t.Errorf("Error() missing field detail, got %q", msg)
	}
	if !strings.Contains(msg, "Suggestions:") {
		t.Errorf("Error() missing suggestions, got %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeAPIRequest, "request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() should include cause, got %q", err.Error())
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeAuthRefreshFailed, "refresh failed")
	outer := Wrap(ErrCodeAPIRequest, "request failed", inner)

	if !IsCode(outer, ErrCodeAuthRefreshFailed) {
		t.Error("IsCode should match a nested code")
	}
	if !IsCode(outer, ErrCodeAPIRequest) {
		t.Error("IsCode should match the outer code")
	}
	if IsCode(outer, ErrCodeFormValidation) {
		t.Error("IsCode matched an absent code")
	}
	if IsCode(nil, ErrCodeAPIRequest) {
		t.Error("IsCode should be false for nil")
	}
}
