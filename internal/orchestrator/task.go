package orchestrator

import (
	"context"
	"sync"
	"time"
)

// Task is a generation running in the background.
type Task struct {
	ID      string
	Started time.Time

	cancel context.CancelFunc
	done   chan struct{}

	once   sync.Once
	result Result
}

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks for the result or until ctx is done.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the result if the task has finished.
func (t *Task) Result() (Result, bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return Result{}, false
	}
}

// Cancel stops the generation. The task still finishes, with a Failure.
func (t *Task) Cancel() {
	t.cancel()
}

func (t *Task) finish(r Result) {
	t.once.Do(func() {
		t.result = r
		close(t.done)
	})
}
