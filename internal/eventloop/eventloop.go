package eventloop

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrStopped is returned once Run has exited.
	ErrStopped = errors.New("event loop stopped")
	// ErrQueueFull is returned by Post when the task queue is saturated.
	ErrQueueFull = errors.New("event loop queue full")
)

// Loop runs posted tasks one at a time on a single goroutine. State that
// is only touched from tasks needs no further locking.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
	log      zerolog.Logger
}

// New creates a loop whose queue holds up to queue pending tasks.
func New(queue int, log zerolog.Logger) *Loop {
	if queue < 1 {
		queue = 1
	}
	return &Loop{
		tasks: make(chan func(), queue),
		done:  make(chan struct{}),
		log:   log.With().Str("component", "eventloop").Logger(),
	}
}

// Post enqueues task without blocking. Safe to call from tasks.
func (l *Loop) Post(task func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	select {
	case l.tasks <- task:
		return nil
	default:
		l.log.Warn().Msg("Task dropped, queue full")
		return ErrQueueFull
	}
}

// Call runs task on the loop and waits for it to finish. It must not be
// called from a task: the loop would wait on itself.
func (l *Loop) Call(ctx context.Context, task func()) error {
	ran := make(chan struct{})
	wrapped := func() {
		defer close(ran)
		task()
	}

	select {
	case l.tasks <- wrapped:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks until ctx is cancelled. Tasks still queued at that
// point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Msg("Recovered from panic in event loop task")
		}
	}()
	task()
}
