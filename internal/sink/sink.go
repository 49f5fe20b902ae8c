// Package sink is the centralized capture point for events and
// failures from every pipeline stage. Reporting never fails: logging
// must not become a second point of failure.
package sink

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stage identifies which pipeline stage produced an event.
type Stage string

const (
	StageSTT       Stage = "stt"
	StageNLP       Stage = "nlp"
	StageMapping   Stage = "mapping"
	StageExecution Stage = "execution"
	StageTTS       Stage = "tts"
	StageSystem    Stage = "system"
)

// Severity classifies an event.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

func (s Severity) level() slog.Level {
	switch s {
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Event is one reported occurrence. ID and Time are filled by Report
// when left zero.
type Event struct {
	ID       uuid.UUID
	Stage    Stage
	Severity Severity
	Message  string
	Detail   string
	Time     time.Time
}

// Sink fans events out to a structured logger and keeps the most recent
// error-severity events in a fixed ring for diagnostics. Safe for
// concurrent Report calls from the pipeline and from backgrounded
// handlers that outlived their timeout.
type Sink struct {
	log *slog.Logger

	mu     sync.Mutex
	ring   []Event
	next   int
	filled bool
}

const ringSize = 64

// New builds a sink over the given logger. A nil logger falls back to
// slog.Default.
func New(log *slog.Logger) *Sink {
	if log == nil {
		log = slog.Default()
	}
	return &Sink{log: log, ring: make([]Event, ringSize)}
}

// Report records the event. It never panics and never returns an
// error; internal failures are swallowed.
func (s *Sink) Report(ev Event) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	attrs := []any{
		"stage", string(ev.Stage),
		"event_id", ev.ID.String(),
	}
	if ev.Detail != "" {
		attrs = append(attrs, "detail", ev.Detail)
	}
	s.log.Log(context.Background(), ev.Severity.level(), ev.Message, attrs...)

	if ev.Severity == Error || ev.Severity == Warning {
		s.mu.Lock()
		s.ring[s.next] = ev
		s.next = (s.next + 1) % len(s.ring)
		if s.next == 0 {
			s.filled = true
		}
		s.mu.Unlock()
	}
}

// RecentErrors returns up to n of the most recently reported warning
// and error events, newest first.
func (s *Sink) RecentErrors(n int) []Event {
	if s == nil || n <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.next
	if s.filled {
		size = len(s.ring)
	}
	if n > size {
		n = size
	}
	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + len(s.ring)) % len(s.ring)
		out = append(out, s.ring[idx])
	}
	return out
}

// Close flushes and releases the sink. The slog handler owns its
// writer, so there is nothing to close beyond a final marker event.
func (s *Sink) Close() {
	if s == nil {
		return
	}
	s.Report(Event{
		Stage:    StageSystem,
		Severity: Info,
		Message:  "sink closed",
	})
}
