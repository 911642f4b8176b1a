// Package loop provides the single goroutine that owns an xwui document.
//
// The App, its Document and every manager hanging off it are not safe for
// concurrent use. Servers and background work reach them by posting
// closures to a Loop, which runs them one at a time in arrival order.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Buffer size of the task channel.
const taskChSize = 128

// ErrStopped is returned when work is posted to a loop that has returned.
var ErrStopped = errors.New("loop: stopped")

// Poster accepts closures for serial execution.
type Poster interface {
	Post(fn func()) bool
}

// Loop runs posted closures serially.
type Loop struct {
	taskCh chan func()
	doneCh chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop logger.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// New creates a loop. It does nothing until Run is called.
func New(opts ...Option) *Loop {
	lp := &Loop{
		taskCh: make(chan func(), taskChSize),
		doneCh: make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp
}

// Run executes posted closures until ctx is done. It is fully serial: it
// never runs two closures in parallel. A panicking closure is logged and
// the loop continues.
func (lp *Loop) Run(ctx context.Context) error {
	defer lp.once.Do(func() { close(lp.doneCh) })
	for {
		select {
		case fn := <-lp.taskCh:
			lp.run(fn)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (lp *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			lp.logger.Error("loop task panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn. It may block if the task buffer is full and reports
// false if the loop has stopped.
func (lp *Loop) Post(fn func()) bool {
	select {
	case <-lp.doneCh:
		return false
	default:
	}
	select {
	case lp.taskCh <- fn:
		return true
	case <-lp.doneCh:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (lp *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !lp.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-lp.doneCh:
		return ErrStopped
	}
}

// Done is closed when Run returns.
func (lp *Loop) Done() <-chan struct{} { return lp.doneCh }

// Debounce returns a function that schedules fn on p once calls have
// stopped for d. Each call supersedes the pending one.
func Debounce(p Poster, d time.Duration, fn func()) func() {
	var (
		mu  sync.Mutex
		gen uint64
	)
	return func() {
		mu.Lock()
		gen++
		mine := gen
		mu.Unlock()

		time.AfterFunc(d, func() {
			mu.Lock()
			current := mine == gen
			mu.Unlock()
			if current {
				p.Post(fn)
			}
		})
	}
}

// Throttle returns a function that posts fn to p at most once per d.
// Calls inside the window are dropped.
func Throttle(p Poster, d time.Duration, fn func()) func() {
	var (
		mu   sync.Mutex
		last time.Time
	)
	return func() {
		mu.Lock()
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < d {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		p.Post(fn)
	}
}

// Inline is a Poster that runs closures immediately on the caller's
// goroutine. It suits tests and single-threaded tools that never start a
// Loop.
type Inline struct{}

// Post runs fn.
func (Inline) Post(fn func()) bool {
	fn()
	return true
}
