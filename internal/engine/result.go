package engine

import "time"

// Outcome tags the result of one dispatch attempt.
type Outcome int

const (
	Success Outcome = iota
	Failure
	Timeout
	NotFound
	AmbiguousIntent
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Timeout:
		return "timeout"
	case NotFound:
		return "not_found"
	case AmbiguousIntent:
		return "ambiguous_intent"
	}
	return "unknown"
}

// Result is produced for every dispatch attempt, including failures.
// The engine never silently drops an invocation.
type Result struct {
	Outcome  Outcome
	Payload  string
	Detail   string
	Duration time.Duration
}
