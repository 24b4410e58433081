package autosave

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/log"
)

// DefaultDebounce is the quiet window after the last edit before a
// draft is persisted.
const DefaultDebounce = time.Second

// Draft is the in-progress answer state handed to the coordinator on
// every edit. Session identifies the editing session the draft came
// from, so interleaved saves can be told apart in the logs.
type Draft struct {
	Session    string
	Assessment int
	Email      string
	Answers    []assessment.WireAnswer
}

// PersistFunc stores a draft. A zero partialID means no server-side
// draft exists yet and one should be created; the returned id is used
// for every later update.
type PersistFunc func(ctx context.Context, partialID int, d Draft) (int, error)

// Coordinator debounces draft persistence: many edits inside the quiet
// window collapse into one write carrying the latest state. Saves are
// best-effort; a failed write is logged and retried on the next edit,
// never surfaced to the respondent.
type Coordinator struct {
	persist  PersistFunc
	debounce time.Duration
	log      *log.Logger

	mu         sync.Mutex
	timer      *time.Timer
	pending    *Draft
	partialID  int
	lastDigest [32]byte
	saved      bool
	lastSaved  time.Time
	stopped    bool
	wg         sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the quiet window.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithLogger sets the coordinator's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithPartialID seeds the server-side draft id when resuming an
// existing partial response, so the first save updates instead of
// creating a duplicate.
func WithPartialID(id int) Option {
	return func(c *Coordinator) { c.partialID = id }
}

// NewCoordinator builds a coordinator around the given persistence
// function.
func NewCoordinator(persist PersistFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		persist:  persist,
		debounce: DefaultDebounce,
		log:      log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Touch records an edit. The debounce timer restarts, so only the last
// draft inside a quiet window is persisted. Drafts without a
// respondent email are dropped: there is no key to store them under.
func (c *Coordinator) Touch(d Draft) {
	if d.Email == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	c.pending = &d
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

// fire runs on the timer goroutine when the quiet window elapses.
func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.stopped || c.pending == nil {
		c.mu.Unlock()
		return
	}
	d := *c.pending
	c.pending = nil
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	c.save(context.Background(), d)
}

// Flush persists any pending draft immediately, skipping the rest of
// the quiet window. Used before submission and on teardown.
func (c *Coordinator) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	d := c.pending
	c.pending = nil
	c.mu.Unlock()

	if d != nil {
		c.save(ctx, *d)
	}
}

func (c *Coordinator) save(ctx context.Context, d Draft) {
	digest := fingerprint(d)

	c.mu.Lock()
	if c.saved && digest == c.lastDigest {
		c.mu.Unlock()
		return
	}
	id := c.partialID
	c.mu.Unlock()

	newID, err := c.persist(ctx, id, d)
	if err != nil {
		c.log.With("session", d.Session).WithError(err).Debug("autosave failed, will retry on next edit")
		return
	}

	c.mu.Lock()
	c.partialID = newID
	c.lastDigest = digest
	c.saved = true
	c.lastSaved = time.Now()
	c.mu.Unlock()
}

// fingerprint hashes the draft's stored shape so identical states are
// written only once.
func fingerprint(d Draft) [32]byte {
	b, _ := json.Marshal(d)
	return blake3.Sum256(b)
}

// SeedPartialID installs the server-side draft id after a late resume
// match, so the next save updates the existing row.
func (c *Coordinator) SeedPartialID(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.partialID == 0 {
		c.partialID = id
	}
}

// PartialID returns the server-side draft id, 0 if nothing has been
// created yet.
func (c *Coordinator) PartialID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.partialID
}

// LastSaved returns when the last successful save happened, zero if
// none has.
func (c *Coordinator) LastSaved() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

// Stop cancels any pending timer and waits for an in-flight save to
// finish. The coordinator accepts no edits afterwards.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = nil
	c.mu.Unlock()

	c.wg.Wait()
}
