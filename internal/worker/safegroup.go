// Package worker runs background work with panic recovery
package worker

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/modkeeper/modkeeper/pkg/logger"
)

// SafeGroup wraps errgroup.Group and turns panics in its goroutines into
// errors, so a crashing extraction or size scan cannot take the process down.
type SafeGroup struct {
	group  *errgroup.Group
	logger logger.Logger
}

// NewSafeGroup creates a new SafeGroup bound to ctx
func NewSafeGroup(ctx context.Context, log logger.Logger) (*SafeGroup, context.Context) {
	if log == nil {
		log = logger.Discard()
	}
	g, ctx := errgroup.WithContext(ctx)
	return &SafeGroup{
		group:  g,
		logger: log,
	}, ctx
}

// Go runs fn in a new goroutine; a panic is logged with its stack and
// returned from Wait as an error.
func (sg *SafeGroup) Go(fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				sg.logger.Error("Goroutine panic recovered",
					logger.WithField("panic", r),
					logger.WithField("stack_trace", string(debug.Stack())))
				err = fmt.Errorf("goroutine panic: %v", r)
			}
		}()

		return fn()
	})
}

// SetLimit sets the maximum number of concurrent goroutines
func (sg *SafeGroup) SetLimit(n int) {
	sg.group.SetLimit(n)
}

// Wait blocks until all goroutines have completed and returns the first error
func (sg *SafeGroup) Wait() error {
	return sg.group.Wait()
}

// Future is the pending result of a single background task
type Future struct {
	done chan struct{}
	err  error
}

// Async starts fn on a SafeGroup of its own. The caller observes completion
// through Done or Ready and collects the result with Wait.
func Async(log logger.Logger, fn func() error) *Future {
	f := &Future{done: make(chan struct{})}
	sg, _ := NewSafeGroup(context.Background(), log)
	sg.Go(fn)
	go func() {
		f.err = sg.Wait()
		close(f.done)
	}()
	return f
}

// Done is closed once the task has finished
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the task has finished, without blocking
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finishes and returns its error
func (f *Future) Wait() error {
	<-f.done
	return f.err
}
