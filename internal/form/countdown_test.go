package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{125, "02:05"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.seconds))
	}
}

func TestCountdownRemaining(t *testing.T) {
	c := StartCountdown(10 * time.Minute)
	defer c.Stop()

	r := c.RemainingSeconds()
	assert.Greater(t, r, 595)
	assert.LessOrEqual(t, r, 600)
	assert.False(t, c.Expired())

	f := c.Fraction()
	assert.Greater(t, f, 0.95)
	assert.LessOrEqual(t, f, 1.0)
}

func TestCountdownExpiry(t *testing.T) {
	c := StartCountdown(0)
	defer c.Stop()

	assert.True(t, c.Expired())
	assert.Equal(t, 0, c.RemainingSeconds())
	assert.Equal(t, 0.0, c.Fraction())
}

func TestCountdownStopClosesTicks(t *testing.T) {
	c := StartCountdown(time.Hour)
	c.Stop()
	c.Stop() // idempotent

	select {
	case _, ok := <-c.Ticks():
		assert.False(t, ok, "ticks channel should be closed after Stop")
	case <-time.After(2 * time.Second):
		t.Fatal("ticks channel not closed after Stop")
	}
}
