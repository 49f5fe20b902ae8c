// Package respond turns execution results into the text the assistant
// speaks. Non-success outcomes map to fixed fallback phrases; internal
// error detail is never spoken.
package respond

import "deskai/internal/engine"

// Response is the final speakable text plus the result it came from.
type Response struct {
	Text   string
	Result engine.Result
}

// Default fallback phrases per outcome. Overridable via configuration.
var defaultPhrases = map[engine.Outcome]string{
	engine.Failure:         "Sorry, I couldn't do that.",
	engine.Timeout:         "That took too long, so I gave up waiting.",
	engine.NotFound:        "Sorry, I didn't understand that command.",
	engine.AmbiguousIntent: "I'm not sure which command you meant. Could you be more specific?",
}

const defaultAck = "Done."

// Responder performs the deterministic result-to-response mapping.
type Responder struct {
	phrases map[engine.Outcome]string
}

// NewResponder builds a responder; entries in overrides replace the
// default phrase for their outcome.
func NewResponder(overrides map[engine.Outcome]string) *Responder {
	phrases := make(map[engine.Outcome]string, len(defaultPhrases))
	for o, p := range defaultPhrases {
		phrases[o] = p
	}
	for o, p := range overrides {
		if p != "" {
			phrases[o] = p
		}
	}
	return &Responder{phrases: phrases}
}

// ToResponse maps res to its spoken text. Success speaks the payload,
// or a generic acknowledgment when the payload is empty; every other
// outcome speaks its fallback phrase. Idempotent.
func (r *Responder) ToResponse(res engine.Result) Response {
	if res.Outcome == engine.Success {
		text := res.Payload
		if text == "" {
			text = defaultAck
		}
		return Response{Text: text, Result: res}
	}

	phrase, ok := r.phrases[res.Outcome]
	if !ok {
		phrase = defaultPhrases[engine.Failure]
	}
	return Response{Text: phrase, Result: res}
}

// Phrase returns the configured fallback phrase for an outcome.
func (r *Responder) Phrase(o engine.Outcome) string {
	return r.phrases[o]
}
