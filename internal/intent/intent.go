// Package intent holds the data model shared by the recognition and
// dispatch stages: an Utterance as produced by speech-to-text, and an
// Intent with its Slots as produced by the NLU stage.
package intent

import "time"

// Utterance is one recognized speech segment. Immutable once created
// by the STT collaborator.
type Utterance struct {
	Text       string
	Confidence float64
	Timestamp  time.Time
}

// NewUtterance stamps the utterance with the current time.
func NewUtterance(text string, confidence float64) Utterance {
	return Utterance{
		Text:       text,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
}

// Slot is one named parameter extracted from an utterance,
// e.g. {Name: "target", Value: "chrome"}.
type Slot struct {
	Name  string
	Value string
}

// Intent is the structured interpretation of an utterance. Consumed
// read-only by the mapper.
type Intent struct {
	ID         string
	Slots      []Slot
	Confidence float64
}

// Slot returns the value of the named slot and whether it is present.
// The first match wins; slot order is preserved from extraction.
func (in Intent) Slot(name string) (string, bool) {
	for _, s := range in.Slots {
		if s.Name == name {
			return s.Value, true
		}
	}
	return "", false
}
