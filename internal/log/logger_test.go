package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/assesskit/assesskit/internal/errors"
)

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	logger.Info("assessment loaded", "assessment_id", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "assessment loaded" {
		t.Errorf("msg = %v, want 'assessment loaded'", entry["msg"])
	}
	if entry["assessment_id"] != float64(7) {
		t.Errorf("assessment_id = %v, want 7", entry["assessment_id"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: NewOutput(&buf),
	})

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level messages leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestWithErrorTypedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelDebug,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	err := errors.New(errors.ErrCodeAPIRejected, "submission rejected").
		WithStatus(400).
		WithField("respondent_email", "Enter a valid email address.")

	logger.WithError(err).Error("submit failed")

	out := buf.String()
	if !strings.Contains(out, "API-003") {
		t.Errorf("error code missing from output: %q", out)
	}
	if !strings.Contains(out, "400") {
		t.Errorf("status missing from output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
