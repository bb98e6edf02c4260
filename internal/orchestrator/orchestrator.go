// Package orchestrator runs question generation for the form: one call per
// trigger, failures folded into a message, results held per session.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/qgen/internal/logging"
	"github.com/abhisek/qgen/internal/questiongen"
)

// Orchestrator forwards requests to a generation capability.
type Orchestrator struct {
	capability questiongen.Capability
	timeout    time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds each generation. Zero leaves it to the capability.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// New creates an Orchestrator around c.
func New(c questiongen.Capability, opts ...Option) *Orchestrator {
	o := &Orchestrator{capability: c}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate invokes the capability once and folds any error or panic into a
// Failure. An empty source never reaches the capability.
func (o *Orchestrator) Generate(ctx context.Context, req questiongen.Request) Result {
	if err := questiongen.CheckRequest(req); err != nil {
		return Failure(err.Error())
	}
	if req.SourceType == "" {
		req.SourceType = questiongen.SourceText
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	type outcome struct {
		qs  questiongen.QuestionSet
		err error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.WithContext(ctx).WithField("panic", r).Error("question generation panicked")
				ch <- outcome{err: fmt.Errorf("generation panicked: %v", r)}
			}
		}()
		qs, err := o.capability.Generate(ctx, req)
		ch <- outcome{qs: qs, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			return Failure(describe(ctx, out.err, o.timeout))
		}
		if emptySet(out.qs) {
			return Failure("generator returned no questions")
		}
		return Success(out.qs)
	case <-ctx.Done():
		return Failure(describe(ctx, ctx.Err(), o.timeout))
	}
}

// emptySet reports whether qs holds no questions. A typed-nil set whose Len
// panics counts as empty.
func emptySet(qs questiongen.QuestionSet) (empty bool) {
	defer func() {
		if recover() != nil {
			empty = true
		}
	}()
	return qs == nil || qs.Len() == 0
}

func describe(ctx context.Context, err error, timeout time.Duration) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) && timeout > 0 && ctx.Err() != nil:
		return fmt.Sprintf("generation timed out after %s", timeout)
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return "generation canceled"
	}
	return err.Error()
}

// Submit starts Generate in the background and returns its Task. It
// returns false without starting anything when the source is empty.
func (o *Orchestrator) Submit(ctx context.Context, req questiongen.Request) (*Task, bool) {
	if errors.Is(questiongen.CheckRequest(req), questiongen.ErrEmptySource) {
		return nil, false
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		ID:      uuid.NewString(),
		Started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	ctx = logging.WithTask(ctx, t.ID)

	log := logging.WithContext(ctx).WithFields(logrus.Fields{
		"count":        req.Count,
		"source_bytes": len(req.Source),
	})
	log.Info("generation started")

	go func() {
		defer cancel()
		res := o.Generate(ctx, req)
		t.finish(res)

		entry := log.WithField("latency_ms", time.Since(t.Started).Milliseconds())
		if res.Succeeded() {
			entry.WithField("questions", res.Questions.Len()).Info("generation finished")
		} else {
			entry.WithField("error", res.Err).Warn("generation failed")
		}
	}()

	return t, true
}
