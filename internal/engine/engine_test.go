package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deskai/internal/command"
	"deskai/internal/sink"
)

func quietSink() *sink.Sink {
	return sink.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func resolved(h command.Handler) *command.Resolved {
	return &command.Resolved{
		Spec:  &command.Spec{Intent: "open_app", Handler: h},
		Slots: map[string]any{"target": "firefox"},
	}
}

func TestExecuteSuccess(t *testing.T) {
	e := New(time.Second, quietSink())

	rc := resolved(command.HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
		return "Opening firefox", nil
	}))

	res := e.Execute(context.Background(), rc)
	require.Equal(t, Success, res.Outcome)
	require.Equal(t, "Opening firefox", res.Payload)
	require.Empty(t, res.Detail)
}

func TestExecuteHandlerError(t *testing.T) {
	e := New(time.Second, quietSink())

	rc := resolved(command.HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
		return "", errors.New("no such application")
	}))

	res := e.Execute(context.Background(), rc)
	require.Equal(t, Failure, res.Outcome)
	require.Contains(t, res.Detail, "no such application")
}

func TestExecuteHandlerPanicIsContained(t *testing.T) {
	e := New(time.Second, quietSink())

	rc := resolved(command.HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
		panic("boom")
	}))

	res := e.Execute(context.Background(), rc)
	require.Equal(t, Failure, res.Outcome)
	require.Contains(t, res.Detail, "boom")

	// The engine is still usable after a panicking handler.
	ok := resolved(command.HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
		return "fine", nil
	}))
	require.Equal(t, Success, e.Execute(context.Background(), ok).Outcome)
}

func TestExecuteTimeoutReturnsAtDeadline(t *testing.T) {
	events := quietSink()
	e := New(time.Second, events)

	release := make(chan struct{})
	defer close(release)

	rc := resolved(command.HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
		<-release
		return "too late", nil
	}))

	start := time.Now()
	res := e.ExecuteTimeout(context.Background(), rc, 50*time.Millisecond)
	elapsed := time.Since(start)

	require.Equal(t, Timeout, res.Outcome)
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.Less(t, elapsed, 500*time.Millisecond, "caller must not be blocked past the deadline")
	require.GreaterOrEqual(t, res.Duration, 50*time.Millisecond)

	var execEvents int
	for _, ev := range events.RecentErrors(10) {
		if ev.Stage == sink.StageExecution {
			execEvents++
		}
	}
	require.Equal(t, 1, execEvents, "exactly one execution event per invocation")
}

func TestExecuteCooperativeCancellation(t *testing.T) {
	e := New(time.Second, quietSink())

	cancelled := make(chan struct{})
	rc := resolved(command.HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
		<-ctx.Done()
		close(cancelled)
		return "", ctx.Err()
	}))

	res := e.ExecuteTimeout(context.Background(), rc, 20*time.Millisecond)
	require.Equal(t, Timeout, res.Outcome)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("handler never observed cancellation")
	}
}

func TestOutcomeStrings(t *testing.T) {
	require.Equal(t, "success", Success.String())
	require.Equal(t, "failure", Failure.String())
	require.Equal(t, "timeout", Timeout.String())
	require.Equal(t, "not_found", NotFound.String())
	require.Equal(t, "ambiguous_intent", AmbiguousIntent.String())
}
