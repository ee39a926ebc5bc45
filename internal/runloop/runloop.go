// Package runloop runs every dashboard mutation on a single goroutine.
//
// Pollers fetch on their own goroutines and hand the result over as a closure;
// the loop applies closures one at a time in the order they were posted.
package runloop

import (
	"context"
	"sync"
)

// Poster accepts work for the render thread. Post reports false when the work
// was dropped because the loop is gone.
type Poster interface {
	Post(fn func()) bool
}

type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// New returns a loop with room for backlog queued tasks before Post blocks.
func New(backlog int) *Loop {
	if backlog < 1 {
		backlog = 1
	}
	return &Loop{
		tasks: make(chan func(), backlog),
		done:  make(chan struct{}),
	}
}

// Post queues fn. After the loop stopped it drops fn and returns false.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued tasks until ctx is canceled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Stop tears the loop down; tasks still queued are discarded.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed once the loop stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Immediate runs posted work inline on the caller's goroutine. The snapshot
// command and tests use it where no render thread exists.
type Immediate struct{}

func (Immediate) Post(fn func()) bool {
	fn()
	return true
}
