// Package command maps recognized intents onto executable actions: it
// defines command specifications, the registry they live in, and the
// mapper that resolves an Intent into a bound invocation.
package command

import (
	"context"
	"strconv"
)

// SlotType constrains the value a slot may carry.
type SlotType int

const (
	String SlotType = iota
	Number
	Enum
)

func (t SlotType) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Enum:
		return "enum"
	}
	return "unknown"
}

// SlotSpec declares one parameter of a command. A required slot with no
// default must be present on the incoming intent. Enum slots list their
// admissible values in Values.
type SlotSpec struct {
	Name     string
	Type     SlotType
	Required bool
	Default  string
	Values   []string
}

// Handler performs the actual system action for one resolved command.
// Implementations must treat ctx as a cooperative cancellation signal:
// the engine stops waiting at its deadline whether or not the handler
// has returned.
type Handler interface {
	Invoke(ctx context.Context, slots map[string]any) (string, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, slots map[string]any) (string, error)

func (f HandlerFunc) Invoke(ctx context.Context, slots map[string]any) (string, error) {
	return f(ctx, slots)
}

// Spec is the registered definition of one executable command.
// Registered once at startup and immutable after the registry freezes.
//
// Overload opts the spec into sharing its intent identifier with other
// overloading specs; the mapper then disambiguates by slot coverage.
type Spec struct {
	Intent      string
	Slots       []SlotSpec
	Handler     Handler
	Description string
	Overload    bool
}

// Resolved is a Spec with slot values bound for one invocation. Created
// per dispatch; every required slot is bound and type-converted before
// execution is attempted.
type Resolved struct {
	Spec  *Spec
	Slots map[string]any
}

// convertSlot validates raw against the slot spec and returns the typed
// value: string for String and Enum, float64 for Number.
func convertSlot(ss SlotSpec, raw string) (any, error) {
	switch ss.Type {
	case Number:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &SlotTypeError{Slot: ss.Name, Want: ss.Type, Value: raw}
		}
		return n, nil
	case Enum:
		for _, v := range ss.Values {
			if v == raw {
				return raw, nil
			}
		}
		return nil, &SlotTypeError{Slot: ss.Name, Want: ss.Type, Value: raw}
	default:
		return raw, nil
	}
}
