// Package engine runs resolved commands under a wall-clock timeout and
// converts every handler outcome, including panics and overruns, into
// a Result.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"deskai/internal/command"
	"deskai/internal/sink"
)

// DefaultTimeout bounds how long the caller waits for a handler.
const DefaultTimeout = 5 * time.Second

// Engine executes resolved commands. Cancellation is cooperative: a
// handler that ignores its context keeps running in the background, but
// the caller gets its Result at the deadline regardless.
type Engine struct {
	timeout time.Duration
	events  *sink.Sink
}

// New builds an engine with the given default timeout. A non-positive
// timeout selects DefaultTimeout.
func New(timeout time.Duration, events *sink.Sink) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{timeout: timeout, events: events}
}

// Execute runs rc under the engine's default timeout.
func (e *Engine) Execute(ctx context.Context, rc *command.Resolved) Result {
	return e.ExecuteTimeout(ctx, rc, e.timeout)
}

type handlerReturn struct {
	payload string
	err     error
}

// ExecuteTimeout runs rc's handler, waiting at most timeout. Handler
// errors and panics become Failure; an overrun becomes Timeout while
// the handler may continue in the background. Exactly one
// execution-stage event is reported per invocation.
func (e *Engine) ExecuteTimeout(ctx context.Context, rc *command.Resolved, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = e.timeout
	}

	invocation := uuid.New()
	start := time.Now()

	hctx, cancel := context.WithTimeout(ctx, timeout)
	// The handler goroutine owns cancel: releasing the context early
	// would break cooperative cancellation for a backgrounded handler.

	done := make(chan handlerReturn, 1)
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				done <- handlerReturn{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		payload, err := rc.Spec.Handler.Invoke(hctx, rc.Slots)
		done <- handlerReturn{payload: payload, err: err}
	}()

	var res Result
	select {
	case ret := <-done:
		res.Duration = time.Since(start)
		if ret.err != nil {
			res.Outcome = Failure
			res.Detail = ret.err.Error()
		} else {
			res.Outcome = Success
			res.Payload = ret.payload
		}
	case <-hctx.Done():
		res.Duration = time.Since(start)
		res.Outcome = Timeout
		res.Detail = fmt.Sprintf("handler for %q exceeded %s", rc.Spec.Intent, timeout)
	}

	e.report(invocation, rc, res)
	return res
}

func (e *Engine) report(invocation uuid.UUID, rc *command.Resolved, res Result) {
	sev := sink.Info
	if res.Outcome != Success {
		sev = sink.Error
	}
	e.events.Report(sink.Event{
		ID:       invocation,
		Stage:    sink.StageExecution,
		Severity: sev,
		Message:  fmt.Sprintf("executed %q: %s", rc.Spec.Intent, res.Outcome),
		Detail:   fmt.Sprintf("slots=%v outcome=%s duration=%s detail=%s", rc.Slots, res.Outcome, res.Duration, res.Detail),
	})
}
