package command

import (
	"fmt"

	"deskai/internal/intent"
	"deskai/internal/sink"
)

// LookupTable is the slice of the registry the mapper needs. Satisfied
// by *Registry.
type LookupTable interface {
	Lookup(intentID string) []*Spec
}

// Mapper resolves an Intent into a bound command invocation.
type Mapper struct {
	table     LookupTable
	threshold float64
	events    *sink.Sink
}

// DefaultConfidenceThreshold gates acting on noisy recognition.
const DefaultConfidenceThreshold = 0.4

// NewMapper builds a mapper over the given lookup table. A threshold of
// zero selects the default.
func NewMapper(table LookupTable, threshold float64, events *sink.Sink) *Mapper {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Mapper{table: table, threshold: threshold, events: events}
}

// Map resolves in into a Resolved command or one of the mapping errors:
// *LowConfidenceError, *UnknownIntentError, *MissingSlotError,
// *SlotTypeError, *AmbiguousIntentError.
func (m *Mapper) Map(in intent.Intent) (*Resolved, error) {
	if in.Confidence < m.threshold {
		err := &LowConfidenceError{
			Intent:     in.ID,
			Confidence: in.Confidence,
			Threshold:  m.threshold,
		}
		m.events.Report(sink.Event{
			Stage:    sink.StageMapping,
			Severity: sink.Warning,
			Message:  "discarded low-confidence intent",
			Detail:   err.Error(),
		})
		return nil, err
	}

	specs := m.table.Lookup(in.ID)
	switch len(specs) {
	case 0:
		err := &UnknownIntentError{Intent: in.ID, Confidence: in.Confidence}
		m.events.Report(sink.Event{
			Stage:    sink.StageMapping,
			Severity: sink.Warning,
			Message:  "no command registered for intent",
			Detail:   err.Error(),
		})
		return nil, err
	case 1:
		return m.bind(specs[0], in)
	}

	// Overloaded identifier: keep the candidates whose required slots
	// the intent can fully satisfy. Exactly one survivor wins;
	// otherwise the ambiguity is surfaced.
	var satisfiable []*Spec
	for _, spec := range specs {
		if slotsSatisfiable(spec, in) {
			satisfiable = append(satisfiable, spec)
		}
	}
	if len(satisfiable) == 1 {
		return m.bind(satisfiable[0], in)
	}

	// Overloads share one identifier, so each candidate is named by
	// intent plus its description.
	candidates := make([]string, len(specs))
	for i, spec := range specs {
		candidates[i] = fmt.Sprintf("%s (%s)", spec.Intent, spec.Description)
	}
	err := &AmbiguousIntentError{Intent: in.ID, Candidates: candidates}
	m.events.Report(sink.Event{
		Stage:    sink.StageMapping,
		Severity: sink.Warning,
		Message:  "ambiguous intent",
		Detail:   err.Error(),
	})
	return nil, err
}

// bind fills the spec's slots from the intent, applying defaults and
// type conversion.
func (m *Mapper) bind(spec *Spec, in intent.Intent) (*Resolved, error) {
	bound := make(map[string]any, len(spec.Slots))
	for _, ss := range spec.Slots {
		raw, ok := in.Slot(ss.Name)
		if !ok {
			if ss.Default != "" {
				raw = ss.Default
			} else if ss.Required {
				err := &MissingSlotError{Intent: in.ID, Slot: ss.Name}
				m.events.Report(sink.Event{
					Stage:    sink.StageMapping,
					Severity: sink.Warning,
					Message:  "intent missing required slot",
					Detail:   err.Error(),
				})
				return nil, err
			} else {
				continue
			}
		}
		val, err := convertSlot(ss, raw)
		if err != nil {
			m.events.Report(sink.Event{
				Stage:    sink.StageMapping,
				Severity: sink.Warning,
				Message:  "slot value rejected",
				Detail:   err.Error(),
			})
			return nil, err
		}
		bound[ss.Name] = val
	}
	return &Resolved{Spec: spec, Slots: bound}, nil
}

func slotsSatisfiable(spec *Spec, in intent.Intent) bool {
	for _, ss := range spec.Slots {
		if !ss.Required || ss.Default != "" {
			continue
		}
		if _, ok := in.Slot(ss.Name); !ok {
			return false
		}
	}
	return true
}
