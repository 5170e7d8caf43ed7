package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSaveDelay is the quiet period before a scheduled save runs.
const DefaultSaveDelay = 100 * time.Millisecond

// SaveFunc performs one save and reports whether anything was written.
type SaveFunc func(ctx context.Context) (bool, error)

// SaveResult is reported after every save attempt.
type SaveResult struct {
	Saved bool
	Err   error
	// Flushed is true for the teardown save.
	Flushed bool
}

// Autosaver debounces bursts of edits into one save.
//
// Schedule restarts the quiet period; only the last call in a burst leads
// to a save. Flush cancels any pending save and saves exactly once.
type Autosaver struct {
	delay    time.Duration
	save     SaveFunc
	logger   *slog.Logger
	onResult func(SaveResult)

	errLog rate.Sometimes

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64

	// runMu keeps saves from overlapping.
	runMu sync.Mutex
}

// AutosaverOption configures an Autosaver.
type AutosaverOption func(*Autosaver)

// WithSaveLogger sets the logger.
func WithSaveLogger(l *slog.Logger) AutosaverOption {
	return func(a *Autosaver) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithResultHandler receives the outcome of every save, e.g. to drive a
// status indicator.
func WithResultHandler(fn func(SaveResult)) AutosaverOption {
	return func(a *Autosaver) { a.onResult = fn }
}

// NewAutosaver creates an Autosaver. A non-positive delay uses DefaultSaveDelay.
func NewAutosaver(delay time.Duration, save SaveFunc, opts ...AutosaverOption) *Autosaver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	a := &Autosaver{
		delay:  delay,
		save:   save,
		logger: slog.Default(),
		errLog: rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Schedule (re)starts the quiet period.
func (a *Autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

// Pending reports whether a scheduled save has not run yet.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Cancel drops a pending save without saving.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelLocked()
}

// Flush cancels any pending save and saves once, unconditionally.
func (a *Autosaver) Flush(ctx context.Context) (bool, error) {
	a.Cancel()
	return a.run(ctx, true)
}

func (a *Autosaver) cancelLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	// A timer that already fired sees a stale generation and does nothing.
	a.gen++
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	a.run(context.Background(), false)
}

func (a *Autosaver) run(ctx context.Context, flushed bool) (bool, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	saved, err := a.save(ctx)
	if err != nil {
		a.errLog.Do(func() {
			a.logger.Error("autosave failed", "flush", flushed, "error", err)
		})
	} else if saved {
		a.logger.Debug("autosave written", "flush", flushed)
	}

	if a.onResult != nil {
		a.onResult(SaveResult{Saved: saved, Err: err, Flushed: flushed})
	}
	return saved, err
}
