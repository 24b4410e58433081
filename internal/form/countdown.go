package form

import (
	"fmt"
	"sync"
	"time"
)

// Countdown runs a one-second-resolution timer for time-limited
// assessments. It ticks independently of form mutation; reaching zero
// only changes what the UI shows. It does not submit or lock the form.
type Countdown struct {
	deadline time.Time
	total    time.Duration

	ticks    chan int
	stopOnce sync.Once
	stopCh   chan struct{}

	mu      sync.Mutex
	expired bool
}

// StartCountdown begins ticking down from the given limit. The caller
// must Stop the countdown when the view is torn down.
func StartCountdown(limit time.Duration) *Countdown {
	c := &Countdown{
		deadline: time.Now().Add(limit),
		total:    limit,
		ticks:    make(chan int, 1),
		stopCh:   make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Countdown) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	defer close(c.ticks)

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			remaining := c.RemainingSeconds()

			// Drop a tick rather than block a slow consumer.
			select {
			case c.ticks <- remaining:
			default:
			}

			if remaining <= 0 {
				c.mu.Lock()
				c.expired = true
				c.mu.Unlock()
				return
			}
		}
	}
}

// Ticks delivers the remaining whole seconds about once per second.
// The channel closes when the countdown expires or is stopped.
func (c *Countdown) Ticks() <-chan int { return c.ticks }

// RemainingSeconds returns the whole seconds left, floored at zero.
func (c *Countdown) RemainingSeconds() int {
	r := int(time.Until(c.deadline).Round(time.Second) / time.Second)
	if r < 0 {
		return 0
	}
	return r
}

// Fraction returns the remaining share of the full limit in [0,1].
func (c *Countdown) Fraction() float64 {
	if c.total <= 0 {
		return 0
	}
	f := float64(time.Until(c.deadline)) / float64(c.total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Expired reports whether the countdown ran out.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired || time.Now().After(c.deadline)
}

// Stop cancels the ticker. Safe to call more than once.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// FormatRemaining renders whole seconds as mm:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
