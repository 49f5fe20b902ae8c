package command

import (
	"fmt"
	"strings"
)

// Registration errors. These indicate a programming error in handler
// setup and are fatal at startup.

// DuplicateIntentError is returned when a spec is registered under an
// identifier that already exists and the specs do not both overload.
type DuplicateIntentError struct {
	Intent string
}

func (e *DuplicateIntentError) Error() string {
	return fmt.Sprintf("duplicate intent %q", e.Intent)
}

// FrozenError is returned by Register after Freeze.
type FrozenError struct {
	Intent string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("registry frozen, cannot register %q", e.Intent)
}

// Mapping errors. All of these are recovered into a spoken fallback and
// never terminate the pipeline.

// LowConfidenceError short-circuits mapping before any registry lookup
// when the intent confidence is below the configured threshold.
type LowConfidenceError struct {
	Intent     string
	Confidence float64
	Threshold  float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("intent %q confidence %.2f below threshold %.2f",
		e.Intent, e.Confidence, e.Threshold)
}

// UnknownIntentError means no spec is registered for the identifier.
type UnknownIntentError struct {
	Intent     string
	Confidence float64
}

func (e *UnknownIntentError) Error() string {
	return fmt.Sprintf("unknown intent %q (confidence %.2f)", e.Intent, e.Confidence)
}

// MissingSlotError means a required slot with no default was absent
// from the intent.
type MissingSlotError struct {
	Intent string
	Slot   string
}

func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("intent %q missing required slot %q", e.Intent, e.Slot)
}

// SlotTypeError means a slot value did not satisfy its declared type.
type SlotTypeError struct {
	Slot  string
	Want  SlotType
	Value string
}

func (e *SlotTypeError) Error() string {
	return fmt.Sprintf("slot %q: value %q is not a valid %s", e.Slot, e.Value, e.Want)
}

// AmbiguousIntentError means more than one overloaded spec remained
// satisfiable; ambiguity is surfaced, never guessed away.
type AmbiguousIntentError struct {
	Intent     string
	Candidates []string
}

func (e *AmbiguousIntentError) Error() string {
	return fmt.Sprintf("intent %q is ambiguous between: %s",
		e.Intent, strings.Join(e.Candidates, ", "))
}
